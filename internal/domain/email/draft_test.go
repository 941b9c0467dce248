package email

import (
	"strings"
	"testing"
)

func TestDraftSendable(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \n\t  ", false},
		{"exactly twenty chars", strings.Repeat("a", 20), false},
		{"twenty one chars", strings.Repeat("a", 21), true},
		{"padded short body", "  " + strings.Repeat("a", 20) + "  ", false},
		{"normal reply", "Hi, thanks for reaching out. I will get back to you tomorrow.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Draft{Body: tt.body}
			if got := d.Sendable(); got != tt.want {
				t.Errorf("Sendable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDraftAddWarning(t *testing.T) {
	d := &Draft{}
	d.AddWarning("first")
	d.AddWarning("second")
	if len(d.Warnings) != 2 || d.Warnings[0] != "first" || d.Warnings[1] != "second" {
		t.Errorf("Warnings = %v, want [first second]", d.Warnings)
	}
}
