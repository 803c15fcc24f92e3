package annotation

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		want         Record
		expectedErr  bool
		errSubstring string
	}{
		{
			name: "plain JSON object",
			raw:  `{"title": "Q1 Invoice", "summary": "Quarterly invoice for client X", "keywords": ["invoice", "Q1", "finance"], "filename": "q1_invoice_client_x.pdf"}`,
			want: Record{
				Title:    "Q1 Invoice",
				Summary:  "Quarterly invoice for client X",
				Keywords: KeywordList{"invoice", "Q1", "finance"},
				Filename: "q1_invoice_client_x.pdf",
			},
		},
		{
			name: "fenced JSON",
			raw: "```json\n" +
				`{"title": "Report", "summary": "Annual report.", "keywords": ["report"], "filename": "20240101_Financial_Acme_Report.pdf"}` +
				"\n```",
			want: Record{
				Title:    "Report",
				Summary:  "Annual report.",
				Keywords: KeywordList{"report"},
				Filename: "20240101_Financial_Acme_Report.pdf",
			},
		},
		{
			name: "keywords as comma-separated string",
			raw:  `{"title": "Letter", "summary": "A letter.", "keywords": "legal, notice , 2024", "filename": "letter.pdf"}`,
			want: Record{
				Title:    "Letter",
				Summary:  "A letter.",
				Keywords: KeywordList{"legal", "notice", "2024"},
				Filename: "letter.pdf",
			},
		},
		{
			name: "prose around the object",
			raw:  `Here is the metadata you asked for: {"title": "T", "summary": "S", "keywords": [], "filename": "t.pdf"} Hope this helps!`,
			want: Record{
				Title:    "T",
				Summary:  "S",
				Keywords: KeywordList{},
				Filename: "t.pdf",
			},
		},
		{
			name: "filename gains pdf extension",
			raw:  `{"title": "T", "summary": "S", "keywords": ["k"], "filename": "20240101_Legal_Firm_Contract"}`,
			want: Record{
				Title:    "T",
				Summary:  "S",
				Keywords: KeywordList{"k"},
				Filename: "20240101_Legal_Firm_Contract.pdf",
			},
		},
		{
			name:         "missing title",
			raw:          `{"title": "", "summary": "S", "keywords": ["k"], "filename": "t.pdf"}`,
			expectedErr:  true,
			errSubstring: "title",
		},
		{
			name:         "missing summary",
			raw:          `{"title": "T", "keywords": ["k"], "filename": "t.pdf"}`,
			expectedErr:  true,
			errSubstring: "summary",
		},
		{
			name:         "unusable filename",
			raw:          `{"title": "T", "summary": "S", "keywords": ["k"], "filename": "..."}`,
			expectedErr:  true,
			errSubstring: "filename",
		},
		{
			name:         "no JSON at all",
			raw:          "Sorry, I cannot help with that.",
			expectedErr:  true,
			errSubstring: "no JSON object",
		},
		{
			name:         "broken JSON",
			raw:          `{"title": "T", "summary": }`,
			expectedErr:  true,
			errSubstring: "malformed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.raw)
			if tt.expectedErr {
				if err == nil {
					t.Fatalf("Expected an error but got record %+v", got)
				}
				if !strings.Contains(err.Error(), tt.errSubstring) {
					t.Errorf("error = %q, want it to contain %q", err, tt.errSubstring)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRecord returned error: %v", err)
			}
			if got.Title != tt.want.Title || got.Summary != tt.want.Summary || got.Filename != tt.want.Filename {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if len(got.Keywords) != 0 || len(tt.want.Keywords) != 0 {
				if !reflect.DeepEqual(got.Keywords, tt.want.Keywords) {
					t.Errorf("keywords = %v, want %v", got.Keywords, tt.want.Keywords)
				}
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already safe", "q1_invoice_client_x.pdf", "q1_invoice_client_x.pdf"},
		{"strips directories", "../../etc/passwd.pdf", "passwd.pdf"},
		{"absolute path", "/tmp/evil.pdf", "evil.pdf"},
		{"spaces become underscores", "my tax return.pdf", "my_tax_return.pdf"},
		{"unsafe runes replaced", "a:b*c?d.pdf", "a_b_c_d.pdf"},
		{"extension appended", "20240101_Medical_Clinic_Bill", "20240101_Medical_Clinic_Bill.pdf"},
		{"uppercase extension kept", "REPORT.PDF", "REPORT.PDF"},
		{"empty input", "", ""},
		{"only dots", "...", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildPromptTruncation(t *testing.T) {
	long := strings.Repeat("a", maxPromptChars+5000)
	prompt := BuildPrompt(long)
	if len(prompt) > maxPromptChars+len(instructions)+100 {
		t.Errorf("prompt length %d exceeds the budget", len(prompt))
	}
	if !strings.Contains(prompt, "single JSON object") {
		t.Error("prompt is missing the response format instruction")
	}
}
