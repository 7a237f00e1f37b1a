package events

import (
	"context"

	"github.com/rpattn/leadsathi/internal/domain"
)

// LeadCaptured is the event emitted after a lead row is appended.
type LeadCaptured struct {
	LeadID int64       `json:"leadId"`
	Lead   domain.Lead `json:"lead"`
}

// Publisher delivers lead events to downstream consumers.
type Publisher interface {
	PublishLeadCaptured(ctx context.Context, event LeadCaptured) error
	Close() error
}
