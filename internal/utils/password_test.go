package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hashed == "correct-horse-battery" {
		t.Fatalf("password stored in plain text")
	}
	if err := CheckPassword(hashed, "correct-horse-battery"); err != nil {
		t.Fatalf("CheckPassword rejected correct password: %v", err)
	}
	if err := CheckPassword(hashed, "wrong"); err == nil {
		t.Fatalf("CheckPassword accepted wrong password")
	}
}

func TestHashPasswordRejectsShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name@example.org"}
	for _, e := range valid {
		if !ValidEmail(e) {
			t.Fatalf("%q should be valid", e)
		}
	}
	invalid := []string{"", "plain", "@x.com", "a@", "a@nodot"}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Fatalf("%q should be invalid", e)
		}
	}
}
