package models

import "testing"

func TestMatchForbiddenKeyword(t *testing.T) {
	settings := PlatformSettings{
		ForbiddenKeywords: []string{"scam", "Ponzi Scheme", "  ", ""},
	}

	cases := []struct {
		text string
		want string
	}{
		{"a legitimate robotics startup", ""},
		{"this is not a SCAM at all", "scam"},
		{"classic ponzi scheme mechanics", "Ponzi Scheme"},
		{"scampi pasta delivery", "scam"}, // substring match is intentional
		{"", ""},
	}
	for _, tc := range cases {
		if got := settings.MatchForbiddenKeyword(tc.text); got != tc.want {
			t.Errorf("MatchForbiddenKeyword(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestMatchForbiddenKeywordEmptyList(t *testing.T) {
	settings := PlatformSettings{}
	if got := settings.MatchForbiddenKeyword("anything at all"); got != "" {
		t.Errorf("empty keyword list must never match, got %q", got)
	}
}
