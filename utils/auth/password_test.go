package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("ValidPass123!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "ValidPass123!" {
		t.Fatal("hash should not equal the plaintext password")
	}

	if err := VerifyPassword(hash, "ValidPass123!"); err != nil {
		t.Errorf("VerifyPassword rejected the correct password: %v", err)
	}

	if err := VerifyPassword(hash, "WrongPass123!"); err == nil {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	// A corrupted digest must behave like a mismatch, not an internal error
	if err := VerifyPassword("not-a-bcrypt-hash", "anything"); err != ErrPasswordMismatch {
		t.Errorf("expected ErrPasswordMismatch for malformed hash, got %v", err)
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid", "ValidPass123!", true},
		{"valid with allowed special", "Abcdef1?", true},
		{"too short", "Sh0rt!", false},
		{"no uppercase", "alllowercase1!", false},
		{"no lowercase", "ALLUPPERCASE1!", false},
		{"no digit", "NoDigitsHere!", false},
		{"no special char", "NoSpecial123", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			valid, problems := ValidatePasswordStrength(tc.password)
			if valid != tc.valid {
				t.Errorf("ValidatePasswordStrength(%q) = %v, want %v (problems: %v)",
					tc.password, valid, tc.valid, problems)
			}
			if !valid && len(problems) == 0 {
				t.Error("invalid password should report at least one problem")
			}
		})
	}
}

func TestValidatePasswordStrengthReportsEveryFailure(t *testing.T) {
	// "abc" fails length, uppercase, digit and special at once
	valid, problems := ValidatePasswordStrength("abc")
	if valid {
		t.Fatal("expected invalid")
	}
	if len(problems) < 4 {
		t.Errorf("expected at least 4 problems, got %d: %v", len(problems), problems)
	}
	joined := strings.Join(problems, "; ")
	for _, fragment := range []string{"8 characters", "uppercase", "number", "special"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("problem list missing %q: %v", fragment, problems)
		}
	}
}
