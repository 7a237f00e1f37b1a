package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestNewLeadFormatsTimestamp(t *testing.T) {
	ist := time.FixedZone("IST", 330*60)
	captured := time.Date(2024, time.March, 5, 9, 4, 7, 0, ist)

	lead := NewLead(captured, "Asha", "9876543210", BusinessTypeRetail, LeadSourceWalkIn, "")
	if lead.Timestamp != "05/03/2024 09:04:07" {
		t.Fatalf("unexpected timestamp %q", lead.Timestamp)
	}

	want := []string{"05/03/2024 09:04:07", "Asha", "9876543210", "Retail", "Walk-in", ""}
	if !reflect.DeepEqual(lead.Row(), want) {
		t.Fatalf("unexpected row %v", lead.Row())
	}
}

func TestLeadFromRowPadsShortRows(t *testing.T) {
	lead := LeadFromRow([]string{"05/03/2024 09:04:07", "Asha", "9876543210"})
	if lead.Name != "Asha" || lead.BusinessType != "" || lead.Notes != "" {
		t.Fatalf("unexpected lead %+v", lead)
	}

	date, ok := lead.CapturedOn()
	if !ok || date != NewDate(2024, time.March, 5) {
		t.Fatalf("unexpected captured date %s %v", date, ok)
	}
}

func TestEnumerations(t *testing.T) {
	if !BusinessType("Trading").IsValid() || BusinessType("trading").IsValid() {
		t.Fatalf("business types must match exactly")
	}
	if !LeadSource("Phone Call").IsValid() || LeadSource("Phone call").IsValid() || LeadSource("").IsValid() {
		t.Fatalf("lead sources must match exactly")
	}
	if len(HeaderRow) != len(Lead{}.Row()) {
		t.Fatalf("header and row widths differ")
	}
}
