package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rpattn/leadsathi/internal/domain"
)

var mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// ValidationError names the first submission field that failed validation.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Submission is a lead that passed validation but has not been stamped yet.
type Submission struct {
	Name         string
	Mobile       string
	BusinessType domain.BusinessType
	LeadSource   domain.LeadSource
	Notes        string
}

// Lead stamps the submission with the capture time.
func (s Submission) Lead(capturedAt time.Time) domain.Lead {
	return domain.NewLead(capturedAt, s.Name, s.Mobile, s.BusinessType, s.LeadSource, s.Notes)
}

// ParseSubmission checks a decoded JSON object field by field and stops at the
// first failure: presence, name, mobile, business type, lead source.
func ParseSubmission(payload map[string]any) (Submission, error) {
	if payload == nil {
		return Submission{}, invalid("", "No data received")
	}

	name, ok := stringField(payload, "name")
	if !ok || utf8.RuneCountInString(strings.TrimSpace(name)) < 2 {
		return Submission{}, invalid("name", "Invalid name")
	}

	mobile, ok := mobileField(payload)
	if !ok || !mobilePattern.MatchString(mobile) {
		return Submission{}, invalid("mobile", "Invalid mobile number")
	}

	businessType, ok := stringField(payload, "businessType")
	if !ok || !domain.BusinessType(businessType).IsValid() {
		return Submission{}, invalid("businessType", "Invalid business type")
	}

	leadSource, ok := stringField(payload, "leadSource")
	if !ok || !domain.LeadSource(leadSource).IsValid() {
		return Submission{}, invalid("leadSource", "Invalid lead source")
	}

	return Submission{
		Name:         name,
		Mobile:       mobile,
		BusinessType: domain.BusinessType(businessType),
		LeadSource:   domain.LeadSource(leadSource),
		Notes:        notesField(payload),
	}, nil
}

func stringField(payload map[string]any, key string) (string, bool) {
	raw, exists := payload[key]
	if !exists || raw == nil {
		return "", false
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// mobileField also accepts an unquoted JSON number, rendered without exponent
// or trailing zeros so it can be matched like the string form.
func mobileField(payload map[string]any) (string, bool) {
	if number, ok := payload["mobile"].(float64); ok {
		return strconv.FormatFloat(number, 'f', -1, 64), true
	}
	return stringField(payload, "mobile")
}

// notesField accepts any JSON scalar; absent, null and false become "".
func notesField(payload map[string]any) string {
	switch value := payload["notes"].(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		if !value {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(value)
	}
}
