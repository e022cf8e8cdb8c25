package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"lipi/internal/fileutil"
	"lipi/internal/script"
)

// Field names shared with the speech engine's JSON output.
const (
	textField        = "text"
	languageField    = "language"
	scriptIssueField = "script_issue"
	errorField       = "error"
)

// Record is one transcript document. Fields this toolset does not
// understand are preserved byte for byte across a load/save cycle.
type Record struct {
	fields map[string]json.RawMessage
}

// New returns an empty Record.
func New() *Record {
	return &Record{fields: make(map[string]json.RawMessage)}
}

// Parse decodes data into a Record. The top-level value must be a JSON
// object.
func Parse(data []byte) (*Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	if fields == nil {
		return nil, errors.New("parse transcript: top-level value is not a JSON object")
	}
	return &Record{fields: fields}, nil
}

// Load reads and parses the transcript at path.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return Parse(data)
}

// Text returns the transcript's "text" field. A missing or non-string
// value yields the empty string; classification treats both the same
// as genuinely empty text.
func (r *Record) Text() string {
	return r.stringField(textField)
}

// Language returns the engine-reported "language" field, if any.
func (r *Record) Language() string {
	return r.stringField(languageField)
}

func (r *Record) stringField(key string) string {
	raw, ok := r.fields[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

// SetScriptIssue attaches (or replaces) the script_issue annotation.
// All other fields are left untouched.
func (r *Record) SetScriptIssue(report script.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode script_issue: %w", err)
	}
	r.fields[scriptIssueField] = raw
	return nil
}

// ScriptIssue returns the script_issue annotation when present.
func (r *Record) ScriptIssue() (script.Report, bool) {
	raw, ok := r.fields[scriptIssueField]
	if !ok {
		return script.Report{}, false
	}
	var report script.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return script.Report{}, false
	}
	return report, true
}

// SetText sets the transcript's "text" field.
func (r *Record) SetText(text string) error {
	return r.setString(textField, text)
}

// SetLanguage sets the transcript's "language" field.
func (r *Record) SetLanguage(code string) error {
	return r.setString(languageField, code)
}

func (r *Record) setString(key, value string) error {
	raw, err := encodeValue(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	r.fields[key] = raw
	return nil
}

// Encode renders the record as pretty-printed JSON with two-space
// indentation. HTML escaping is disabled so multibyte text stays
// literal. Keys are emitted in sorted order, which keeps repeated
// saves byte-identical.
func (r *Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.fields); err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}
	return buf.Bytes(), nil
}

// Save encodes the record and writes it to path atomically. A failed
// save leaves no partial file behind.
func (r *Record) Save(path string) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// WriteErrorMarker writes a minimal {"error": ...} document to path,
// replacing whatever is there. Downstream stages treat the marker as a
// failed transcription.
func WriteErrorMarker(path, message string) error {
	rec := New()
	raw, err := encodeValue(message)
	if err != nil {
		return fmt.Errorf("encode error marker: %w", err)
	}
	rec.fields[errorField] = raw
	return rec.Save(path)
}

// encodeValue marshals a single value without HTML escaping.
func encodeValue(value any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
