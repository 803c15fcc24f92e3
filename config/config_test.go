package config

import (
	"strings"
	"testing"
	"time"
)

func validDirs(t *testing.T) (string, string) {
	t.Helper()
	in := t.TempDir()
	out := t.TempDir()
	return in, out
}

func TestResolvePrecedence(t *testing.T) {
	in, out := validDirs(t)
	flagIn := t.TempDir()

	t.Setenv("GEMINI_KEY", "test-key")
	t.Setenv("INPUT_DIR", in)
	t.Setenv("OUTPUT_DIR", out)
	t.Setenv("POLL_INTERVAL", "9")

	t.Run("environment overrides defaults", func(t *testing.T) {
		s, err := Resolve(nil)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if s.InputDir != in {
			t.Errorf("InputDir = %q, want %q", s.InputDir, in)
		}
		if s.PollInterval != 9*time.Second {
			t.Errorf("PollInterval = %v, want 9s", s.PollInterval)
		}
		if s.FilePattern != "*.pdf" {
			t.Errorf("FilePattern default = %q, want *.pdf", s.FilePattern)
		}
		if s.TaskPause != 60*time.Second {
			t.Errorf("TaskPause default = %v, want 60s", s.TaskPause)
		}
	})

	t.Run("flags override environment", func(t *testing.T) {
		s, err := Resolve([]string{"--input_dir", flagIn, "--poll_interval", "2"})
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if s.InputDir != flagIn {
			t.Errorf("InputDir = %q, want flag value %q", s.InputDir, flagIn)
		}
		if s.PollInterval != 2*time.Second {
			t.Errorf("PollInterval = %v, want 2s", s.PollInterval)
		}
	})
}

func TestResolveDerivedDefaults(t *testing.T) {
	in, out := validDirs(t)
	t.Setenv("GEMINI_KEY", "test-key")
	t.Setenv("INPUT_DIR", in)
	t.Setenv("OUTPUT_DIR", out)

	s, err := Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !strings.HasPrefix(s.QuarantineDir, in) {
		t.Errorf("QuarantineDir = %q, want a subdirectory of %q", s.QuarantineDir, in)
	}
	if !strings.Contains(s.APIURL, "generativelanguage.googleapis.com") {
		t.Errorf("APIURL = %q, want the default Gemini endpoint", s.APIURL)
	}
}

func TestResolveValidation(t *testing.T) {
	in, out := validDirs(t)

	tests := []struct {
		name    string
		key     string
		args    []string
		wantErr string
	}{
		{
			name:    "missing API key",
			key:     "",
			args:    []string{"--input_dir", in, "--output_dir", out},
			wantErr: "API key",
		},
		{
			name:    "missing input dir",
			key:     "k",
			args:    []string{"--output_dir", out},
			wantErr: "input directory",
		},
		{
			name:    "missing output dir",
			key:     "k",
			args:    []string{"--input_dir", in},
			wantErr: "output directory",
		},
		{
			name:    "nonexistent input dir",
			key:     "k",
			args:    []string{"--input_dir", in + "/gone", "--output_dir", out},
			wantErr: "does not exist",
		},
		{
			name:    "unknown provider",
			key:     "k",
			args:    []string{"--input_dir", in, "--output_dir", out, "--provider", "delphi"},
			wantErr: "unknown LLM provider",
		},
		{
			name:    "zero poll interval",
			key:     "k",
			args:    []string{"--input_dir", in, "--output_dir", out, "--poll_interval", "0"},
			wantErr: "poll interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_KEY", tt.key)
			_, err := Resolve(tt.args)
			if err == nil {
				t.Fatal("Expected an error but got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
