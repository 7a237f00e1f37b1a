package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWriteOmitsNilData(t *testing.T) {
	rec := httptest.NewRecorder()
	now := time.Date(2024, time.March, 10, 8, 30, 0, 123000000, time.FixedZone("IST", 19800))

	Write(rec, http.StatusBadRequest, New(now, false, "Invalid action parameter", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if _, ok := body["data"]; ok {
		t.Fatalf("expected data to be omitted, got %v", body["data"])
	}
	if body["timestamp"] != "2024-03-10T03:00:00.123Z" {
		t.Fatalf("unexpected timestamp %v", body["timestamp"])
	}
	if body["success"] != false || body["message"] != "Invalid action parameter" {
		t.Fatalf("unexpected envelope %v", body)
	}
}
