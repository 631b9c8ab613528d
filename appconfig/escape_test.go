package appconfig

import "testing"

func TestEscapeReserved(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", "\x00"},
		{"a,b", `a\,b`},
		{`a\b`, `a\\b`},
		{"a*b", `a\*b`},
		// A wildcard at either end keeps its meaning.
		{"*suffix", "*suffix"},
		{"prefix*", "prefix*"},
		{"*both*", "*both*"},
		{"*mid*dle*", `*mid\*dle*`},
		{"*", "*"},
		{",lead", `\,lead`},
	}
	for _, tc := range cases {
		if got := EscapeReserved(tc.in); got != tc.want {
			t.Errorf("EscapeReserved(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeAll(t *testing.T) {
	if got := escapeAll(nil); got != nil {
		t.Errorf("escapeAll(nil) = %v, want nil", got)
	}

	got := escapeAll([]string{"a,b", "*ok*"})
	want := []string{`a\,b`, "*ok*"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("escapeAll[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQuoteETag(t *testing.T) {
	cases := map[string]string{
		"abc123": `"abc123"`,
		"*":      "*",
		"":       "",
	}
	for in, want := range cases {
		if got := quoteETag(in); got != want {
			t.Errorf("quoteETag(%q) = %q, want %q", in, got, want)
		}
	}
}
