package mailbox

import "testing"

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare address", "alice@example.com", "alice@example.com"},
		{"display name with brackets", "Alice Smith <alice@example.com>", "alice@example.com"},
		{"quoted display name", `"Smith, Alice" <alice.smith@example.co.uk>`, "alice.smith@example.co.uk"},
		{"plus addressing", "Bob <bob+filter@example.org>", "bob+filter@example.org"},
		{"no address", "not an email header", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractAddress(tt.in); got != tt.want {
				t.Errorf("extractAddress(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Meeting tomorrow", "Meeting tomorrow"},
		{"utf8 base64", "=?UTF-8?B?SGVsbG8gV29ybGQ=?=", "Hello World"},
		{"utf8 quoted printable", "=?UTF-8?Q?Caf=C3=A9_update?=", "Café update"},
		{"malformed encoding returned verbatim", "=?bogus?X?zzzz?=", "=?bogus?X?zzzz?="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeHeader(tt.in); got != tt.want {
				t.Errorf("decodeHeader(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tags removed",
			in:   "<p>Hello <b>world</b></p>",
			want: "Hello world",
		},
		{
			name: "script dropped entirely",
			in:   "<p>Before</p><script>alert('x')</script><p>After</p>",
			want: "Before After",
		},
		{
			name: "style dropped entirely",
			in:   "<style>body { color: red }</style><div>Content</div>",
			want: "Content",
		},
		{
			name: "entities decoded",
			in:   "Tom &amp; Jerry say &quot;hi&quot;&nbsp;&lt;now&gt;",
			want: `Tom & Jerry say "hi" <now>`,
		},
		{
			name: "whitespace collapsed",
			in:   "<div>\n  one\n\n  two  </div>",
			want: "one two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripHTML(tt.in); got != tt.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
