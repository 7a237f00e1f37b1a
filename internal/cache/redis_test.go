package cache

import (
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

func TestNewRedisCacheWithClientDefaults(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := NewRedisCacheWithClient(client, "", 0)
	if c.prefix != "leadsathi" {
		t.Fatalf("expected default prefix, got %q", c.prefix)
	}
	if c.ttl != 5*time.Minute {
		t.Fatalf("expected default ttl, got %s", c.ttl)
	}
	if got := c.key("overview:16/10/2026"); got != "leadsathi|analytics|overview:16/10/2026" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := c.indexKey(); got != "leadsathi|analytics|keys" {
		t.Fatalf("unexpected index key %q", got)
	}
	if got := c.generationKey(); got != "leadsathi|analytics|generation" {
		t.Fatalf("unexpected generation key %q", got)
	}
}
