package security

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "argon2id$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil || !ok {
		t.Fatalf("verify failed: ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("secret1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword("secret1")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must not match")
	}
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	for _, encoded := range []string{"plain", "argon2id$v=19$m=65536,t=1,p=4$only-four"} {
		if _, err := VerifyPassword("x", encoded); err == nil {
			t.Fatalf("expected error for %q", encoded)
		}
	}

	// an empty stored hash is a mismatch, not an error
	ok, err := VerifyPassword("x", "")
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestDefaultPasswordValidator(t *testing.T) {
	v := DefaultPasswordValidator()

	if err := v.Validate("secret1"); err != nil {
		t.Fatalf("six characters should pass: %v", err)
	}

	err := v.Validate("short")
	var verr *PasswordValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected PasswordValidationError, got %v", err)
	}
}

func TestRequirePasswordStrengthRule(t *testing.T) {
	v := NewPasswordValidator(MinLengthRule(6), RequirePasswordStrengthRule(2, "jane@example.com"))

	if err := v.Validate("jane@example.com"); err == nil {
		t.Fatal("password matching user input should be rejected")
	}
	if err := v.Validate("xk29!mQz7#p"); err != nil {
		t.Fatalf("strong password rejected: %v", err)
	}
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(6)
	if err != nil {
		t.Fatal(err)
	}
	if len(code) != 6 {
		t.Fatalf("got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit in code %q", code)
		}
	}
}

func TestPasswordStrengthScoreUsesUserInputs(t *testing.T) {
	generic := PasswordStrengthScore("xk29!mQz7#p")
	if generic < 2 {
		t.Fatalf("random password scored %d", generic)
	}

	// a password equal to the user's email should score poorly
	personal := PasswordStrengthScore("jane@example.com", "jane@example.com")
	if personal >= 2 {
		t.Fatalf("personal-info password scored %d", personal)
	}
}
