package output

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"credprobe/internal/core"
)

func sampleResults() []core.Result {
	return []core.Result{
		{
			Username:       "alice",
			Password:       "pw1",
			Outcome:        core.OutcomeSuccess,
			StatusCode:     200,
			ResponseTime:   core.Millis(12 * time.Millisecond),
			ResponseLength: 512,
		},
		{
			Username:       "alice",
			Password:       "pw2",
			Outcome:        core.OutcomeFailure,
			StatusCode:     401,
			ResponseTime:   core.Millis(8500 * time.Microsecond),
			ResponseLength: 64,
		},
		{
			Username:    "bob",
			Password:    "pw1",
			Outcome:     core.OutcomeError,
			ErrorDetail: "connection refused",
		},
	}
}

func TestSave_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := Save(path, sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON written: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("expected 3 records, got %d", len(decoded))
	}
	if decoded[0]["outcome"] != "success" || decoded[0]["status_code"] != float64(200) {
		t.Errorf("unexpected first record: %v", decoded[0])
	}
	if decoded[0]["response_time_ms"] != float64(12) {
		t.Errorf("expected 12ms response time, got %v", decoded[0]["response_time_ms"])
	}
	if _, ok := decoded[2]["status_code"]; ok {
		t.Error("error record must not carry status_code")
	}
	if decoded[2]["error"] != "connection refused" {
		t.Errorf("expected error detail, got %v", decoded[2]["error"])
	}
}

func TestSave_CSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	original := sampleResults()
	if err := Save(path, original); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(restored, original) {
		t.Errorf("round trip mismatch:\nwrote: %+v\nread:  %+v", original, restored)
	}
}

func TestSave_CSVHeaderRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	if err := Save(path, sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	want := "username,password,outcome,status_code,response_time_ms,response_length,error\n"
	if got := string(data[:len(want)]); got != want {
		t.Errorf("unexpected header row %q", got)
	}
}

func TestSave_UnsupportedFormat(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "results.xml"), sampleResults())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}

	err = Save(filepath.Join(t.TempDir(), "noextension"), sampleResults())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSave_EmptyResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	if err := Save(path, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Header only; reading it back yields zero results.
	restored, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(restored) != 0 {
		t.Errorf("expected no results, got %d", len(restored))
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	if _, err := LoadCSV("/nonexistent/results.csv"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadCSV_BadNumericField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	content := "username,password,outcome,status_code,response_time_ms,response_length,error\n" +
		"alice,pw1,success,not-a-number,1.000,10,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if _, err := LoadCSV(path); err == nil {
		t.Error("expected parse error")
	}
}
