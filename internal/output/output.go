// Package output persists run results to structured files.
package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"credprobe/internal/core"
)

// ErrUnsupportedFormat indicates the requested output file extension has no
// writer. Surfaced only at the persistence boundary; in-memory results and
// the console report are unaffected.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// csvHeader is the tabular column order, matching the JSON field names.
var csvHeader = []string{
	"username", "password", "outcome",
	"status_code", "response_time_ms", "response_length", "error",
}

// Save writes results to path, choosing the format from the file extension
// (.json or .csv).
func Save(path string, results []core.Result) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return saveJSON(path, results)
	case ".csv":
		return saveCSV(path, results)
	default:
		return fmt.Errorf("%w %q (use .csv or .json)", ErrUnsupportedFormat, ext)
	}
}

func saveJSON(path string, results []core.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func saveCSV(path string, results []core.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, r := range results {
		if err := writer.Write(toRow(r)); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// toRow converts a result to its tabular form. Fields absent from the
// record (status and sizes on transport errors) become empty cells.
func toRow(r core.Result) []string {
	row := []string{r.Username, r.Password, string(r.Outcome), "", "", "", r.ErrorDetail}
	if r.Completed() {
		row[3] = strconv.Itoa(r.StatusCode)
		row[4] = r.ResponseTime.String()
		row[5] = strconv.Itoa(r.ResponseLength)
	}
	return row
}

// LoadCSV reads a results file previously written by Save, restoring each
// row to a result record.
func LoadCSV(path string) ([]core.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("results file %s is empty", path)
	}

	header := records[0]
	results := make([]core.Result, 0, len(records)-1)
	for i, row := range records[1:] {
		result, err := fromRow(header, row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func fromRow(header, row []string) (core.Result, error) {
	var r core.Result
	for i, name := range header {
		if i >= len(row) || row[i] == "" {
			continue
		}
		value := row[i]
		switch name {
		case "username":
			r.Username = value
		case "password":
			r.Password = value
		case "outcome":
			r.Outcome = core.Outcome(value)
		case "status_code":
			code, err := strconv.Atoi(value)
			if err != nil {
				return r, fmt.Errorf("parsing status_code: %w", err)
			}
			r.StatusCode = code
		case "response_time_ms":
			ms, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return r, fmt.Errorf("parsing response_time_ms: %w", err)
			}
			r.ResponseTime = core.FromFloat(ms)
		case "response_length":
			length, err := strconv.Atoi(value)
			if err != nil {
				return r, fmt.Errorf("parsing response_length: %w", err)
			}
			r.ResponseLength = length
		case "error":
			r.ErrorDetail = value
		}
	}
	return r, nil
}
