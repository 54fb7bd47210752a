package htmlsanitize_test

import (
	"testing"

	"github.com/Aashi1109/contacts-api/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "John", "John"},
		{"apostrophe", "O'Brien", "O'Brien"},
		{"ampersand", "Smith & Sons", "Smith & Sons"},
		{"strips tags", "<b>Ada</b>", "Ada"},
		{"drops script", "Ada<script>alert(1)</script>", "Ada"},
		{"trims", "  12 Main St  ", "12 Main St"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainTextPtr(t *testing.T) {
	if htmlsanitize.PlainTextPtr(nil) != nil {
		t.Error("nil in should give nil out")
	}
	in := "<i>x</i>"
	out := htmlsanitize.PlainTextPtr(&in)
	if out == nil || *out != "x" {
		t.Errorf("got %v", out)
	}
	if in != "<i>x</i>" {
		t.Error("input must not be modified")
	}
}
