package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.Store.Backend != BackendXLSX {
		t.Fatalf("expected xlsx backend, got %s", cfg.Store.Backend)
	}
	if cfg.Leads.SheetName != "Leads" {
		t.Fatalf("expected Leads sheet, got %s", cfg.Leads.SheetName)
	}
	if cfg.Leads.UTCOffsetMinutes != 330 {
		t.Fatalf("expected +5:30 offset, got %d minutes", cfg.Leads.UTCOffsetMinutes)
	}
	if cfg.Events.Enabled() {
		t.Fatalf("expected events to be disabled by default")
	}
}

func TestLoadReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  addr: ":9090"
  read_timeout: 3s
store:
  backend: postgres
database:
  host: db.internal
  port: 6543
leads:
  sheet_name: Prospects
cache:
  enabled: true
  ttl: 30s
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("LEADSATHI_DATABASE_PASSWORD", "secret")
	t.Setenv("LEADSATHI_EVENTS_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.Server.Addr != ":9090" || cfg.Server.ReadTimeout != 3*time.Second {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Store.Backend != BackendPostgres {
		t.Fatalf("expected postgres backend, got %s", cfg.Store.Backend)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 6543 {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Database.Password != "secret" {
		t.Fatalf("expected env password override, got %q", cfg.Database.Password)
	}
	if cfg.Leads.SheetName != "Prospects" {
		t.Fatalf("expected Prospects sheet, got %s", cfg.Leads.SheetName)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 30*time.Second {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if len(cfg.Events.Brokers) != 2 || cfg.Events.Brokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.Events.Brokers)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("LEADSATHI_STORE_BACKEND", "sheets")

	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected unknown backend to be rejected")
	}
}

func TestLocationUsesFixedOffset(t *testing.T) {
	cfg := Default()
	loc := cfg.Location()

	instant := time.Date(2024, time.March, 10, 20, 0, 0, 0, time.UTC)
	local := instant.In(loc)
	if local.Day() != 11 || local.Hour() != 1 || local.Minute() != 30 {
		t.Fatalf("expected 11th 01:30 at +5:30, got %s", local)
	}
	if loc.String() != "UTC+05:30" {
		t.Fatalf("unexpected zone name %s", loc.String())
	}
}
