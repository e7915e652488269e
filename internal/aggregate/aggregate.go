// Package aggregate accumulates solver output into one result file per
// solver. Files are truncated when created, so every run starts from an
// empty result set, and each record is written as soon as it is appended.
package aggregate

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/specialistvlad/flowbench/internal/solver"
)

// Format selects how records are laid out in a result file.
type Format string

const (
	// Raw concatenates solver output verbatim with no delimiter of its own.
	// Record boundaries survive only if the solver's output is self-delimiting.
	Raw Format = "raw"
	// JSONLines writes one JSON object per record.
	JSONLines Format = "jsonl"
)

// ParseFormat validates a format name; the empty string selects Raw.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", Raw:
		return Raw, nil
	case JSONLines:
		return JSONLines, nil
	default:
		return "", fmt.Errorf("aggregate: unknown record format %q: must be 'raw' or 'jsonl'", s)
	}
}

// FileName returns the result file name for a solver at a vertex count.
func FileName(solverName string, vertices int, format Format) string {
	ext := ".csv"
	if format == JSONLines {
		ext = ".jsonl"
	}
	return fmt.Sprintf("RT_%s_%d%s", solverName, vertices, ext)
}

// Record is the JSON-lines representation of one solver invocation.
type Record struct {
	Index      int    `json:"index"`
	Case       string `json:"case"`
	Solver     string `json:"solver"`
	Outcome    string `json:"outcome"`
	ExitCode   int    `json:"exit_code"`
	DurationUS int64  `json:"duration_us"`
	Output     string `json:"output"`

	// OutputBase64 replaces Output when the solver printed bytes that are
	// not valid UTF-8, which a JSON string cannot carry unchanged.
	OutputBase64 string `json:"output_b64,omitempty"`
}

// NewRecord converts a solver result into a Record.
func NewRecord(res solver.Result) Record {
	r := Record{
		Index:      res.Case.Index,
		Case:       res.Case.Name,
		Solver:     res.Solver,
		Outcome:    res.Outcome.String(),
		ExitCode:   res.ExitCode,
		DurationUS: res.Duration.Microseconds(),
	}
	if utf8.Valid(res.Stdout) {
		r.Output = string(res.Stdout)
	} else {
		r.OutputBase64 = base64.StdEncoding.EncodeToString(res.Stdout)
	}
	return r
}

// Bytes returns the verbatim solver output held by the record.
func (r Record) Bytes() ([]byte, error) {
	if r.OutputBase64 != "" {
		return base64.StdEncoding.DecodeString(r.OutputBase64)
	}
	return []byte(r.Output), nil
}

// Writer appends records to a single result file.
type Writer struct {
	path    string
	format  Format
	file    *os.File
	records int
}

// Create opens the result file for solverName in dir, creating dir when
// needed and truncating any previous content.
func Create(dir, solverName string, vertices int, format Format) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("aggregate: create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(solverName, vertices, format))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("aggregate: create %s: %w", path, err)
	}
	return &Writer{path: path, format: format, file: f}, nil
}

// Path returns the result file path.
func (w *Writer) Path() string { return w.path }

// Records returns how many records have been appended.
func (w *Writer) Records() int { return w.records }

// Append writes one record. In Raw mode an empty output writes nothing but
// still counts as a record.
func (w *Writer) Append(res solver.Result) error {
	var data []byte
	switch w.format {
	case JSONLines:
		line, err := json.Marshal(NewRecord(res))
		if err != nil {
			return fmt.Errorf("aggregate: encode record %d: %w", res.Case.Index, err)
		}
		data = append(line, '\n')
	default:
		data = res.Stdout
	}

	if len(data) > 0 {
		if _, err := w.file.Write(data); err != nil {
			return fmt.Errorf("aggregate: write %s: %w", w.path, err)
		}
	}
	w.records++
	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
