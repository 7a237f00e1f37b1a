package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the civil date-time format stored in the first column.
const TimestampLayout = "02/01/2006 15:04:05"

// DateLayout is the date portion of TimestampLayout.
const DateLayout = "02/01/2006"

// BusinessType enumerates the kinds of business a lead may run.
type BusinessType string

const (
	BusinessTypeManufacturing BusinessType = "Manufacturing"
	BusinessTypeRetail        BusinessType = "Retail"
	BusinessTypeService       BusinessType = "Service"
	BusinessTypeTrading       BusinessType = "Trading"
	BusinessTypeOther         BusinessType = "Other"
)

// BusinessTypes lists every accepted business type.
var BusinessTypes = []BusinessType{
	BusinessTypeManufacturing,
	BusinessTypeRetail,
	BusinessTypeService,
	BusinessTypeTrading,
	BusinessTypeOther,
}

// LeadSource enumerates the channels through which a lead arrives.
type LeadSource string

const (
	LeadSourceWalkIn     LeadSource = "Walk-in"
	LeadSourcePhoneCall  LeadSource = "Phone Call"
	LeadSourceWhatsApp   LeadSource = "WhatsApp"
	LeadSourceReferral   LeadSource = "Referral"
	LeadSourceExhibition LeadSource = "Exhibition"
	LeadSourceWebsite    LeadSource = "Website"
)

// LeadSources lists every accepted lead source.
var LeadSources = []LeadSource{
	LeadSourceWalkIn,
	LeadSourcePhoneCall,
	LeadSourceWhatsApp,
	LeadSourceReferral,
	LeadSourceExhibition,
	LeadSourceWebsite,
}

// IsValid reports whether the value is one of BusinessTypes (case-sensitive).
func (b BusinessType) IsValid() bool {
	for _, candidate := range BusinessTypes {
		if b == candidate {
			return true
		}
	}
	return false
}

// IsValid reports whether the value is one of LeadSources (case-sensitive).
func (s LeadSource) IsValid() bool {
	for _, candidate := range LeadSources {
		if s == candidate {
			return true
		}
	}
	return false
}

// HeaderRow is written once as the first row of a lead table.
var HeaderRow = []string{
	"Timestamp",
	"Name",
	"Mobile",
	"Business Type",
	"Lead Source",
	"Notes",
}

// Lead is one captured prospect. Rows read back from storage may have been
// edited out of band, so the enumerated fields stay plain strings here.
type Lead struct {
	Timestamp    string `json:"timestamp"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	BusinessType string `json:"businessType"`
	LeadSource   string `json:"leadSource"`
	Notes        string `json:"notes"`
}

// NewLead stamps a validated submission with the civil time of capture.
func NewLead(capturedAt time.Time, name, mobile string, businessType BusinessType, source LeadSource, notes string) Lead {
	return Lead{
		Timestamp:    FormatTimestamp(capturedAt),
		Name:         name,
		Mobile:       mobile,
		BusinessType: string(businessType),
		LeadSource:   string(source),
		Notes:        notes,
	}
}

// Row returns the lead in storage column order.
func (l Lead) Row() []string {
	return []string{l.Timestamp, l.Name, l.Mobile, l.BusinessType, l.LeadSource, l.Notes}
}

// LeadFromRow maps a storage row back to a Lead. Short rows are padded with
// empty strings and extra cells are ignored.
func LeadFromRow(row []string) Lead {
	cell := func(idx int) string {
		if idx < len(row) {
			return row[idx]
		}
		return ""
	}
	return Lead{
		Timestamp:    cell(0),
		Name:         cell(1),
		Mobile:       cell(2),
		BusinessType: cell(3),
		LeadSource:   cell(4),
		Notes:        cell(5),
	}
}

// CapturedOn parses the date portion of the lead's timestamp.
func (l Lead) CapturedOn() (Date, bool) {
	datePart, _, _ := strings.Cut(strings.TrimSpace(l.Timestamp), " ")
	return ParseDate(datePart)
}

// FormatTimestamp renders t in TimestampLayout. Callers convert t into the
// configured civil location first.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
