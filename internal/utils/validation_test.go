package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"founder@example.com",
		"first.last+tag@sub.domain.co",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{"", "not-an-email", "missing@tld", "@example.com", "a b@example.com"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("passw0rd"); err != nil {
		t.Errorf("letter+digit password of 8 chars must pass, got %v", err)
	}
	if err := ValidatePassword("short1"); err == nil {
		t.Error("password under 8 characters must fail")
	}
	if err := ValidatePassword("onlyletters"); err == nil {
		t.Error("password without a digit must fail")
	}
	if err := ValidatePassword("12345678"); err == nil {
		t.Error("password without a letter must fail")
	}
}

func TestTruncateMessage(t *testing.T) {
	if got := TruncateMessage("short", 100); got != "short" {
		t.Errorf("short message must be unchanged, got %q", got)
	}

	long := strings.Repeat("x", 150)
	got := TruncateMessage(long, 100)
	if len(got) != 103 {
		t.Errorf("expected 100 chars plus ellipsis, got length %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated message must end with ellipsis, got %q", got[90:])
	}

	japanese := strings.Repeat("投資", 60)
	got = TruncateMessage(japanese, 100)
	if !utf8.ValidString(got) {
		t.Errorf("truncated message must stay valid UTF-8, got %q", got)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != 100 {
		t.Errorf("expected 100 runes before the ellipsis, got %d", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated message must end with ellipsis, got %q", got)
	}
}
