package annotation

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// Record is the structured metadata produced for one document. The
// Filename field is sanitized before a Record leaves this package; the
// metadata writer and the relocator rely on that.
type Record struct {
	Title    string      `json:"title"`
	Summary  string      `json:"summary"`
	Keywords KeywordList `json:"keywords"`
	Filename string      `json:"filename"`
}

// KeywordList accepts either a JSON array of strings or a single
// comma-separated string. Some models return one, some the other.
type KeywordList []string

func (k *KeywordList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*k = trimAll(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("keywords must be a string array or a comma-separated string")
	}
	*k = trimAll(strings.Split(joined, ","))
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseRecord parses the model's response text into a Record. The parse is
// permissive about decoration (markdown fences, prose around the object)
// but strict about the fields themselves: title, summary and filename must
// be present and non-empty. Keywords may be empty.
func ParseRecord(raw string) (Record, error) {
	payload := extractJSONObject(raw)
	if payload == "" {
		return Record{}, fmt.Errorf("no JSON object found in model response")
	}

	var rec Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return Record{}, fmt.Errorf("malformed model response: %w", err)
	}

	rec.Title = strings.TrimSpace(rec.Title)
	rec.Summary = strings.TrimSpace(rec.Summary)
	rec.Filename = SanitizeFilename(rec.Filename)

	if rec.Title == "" {
		return Record{}, fmt.Errorf("model response is missing a title")
	}
	if rec.Summary == "" {
		return Record{}, fmt.Errorf("model response is missing a summary")
	}
	if rec.Filename == "" {
		return Record{}, fmt.Errorf("model response is missing a usable filename")
	}
	return rec, nil
}

// extractJSONObject returns the outermost {...} block of s, tolerating
// code fences and surrounding prose.
func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

// SanitizeFilename reduces a suggested filename to a safe basename with a
// .pdf extension. Path separators are stripped, anything outside a small
// safe character set becomes an underscore. Returns "" when nothing
// usable remains.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	// Drop any directory components the model may have invented.
	name = filepath.Base(filepath.ToSlash(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return ""
	}
	if !strings.HasSuffix(strings.ToLower(cleaned), ".pdf") {
		cleaned += ".pdf"
	}
	return cleaned
}
