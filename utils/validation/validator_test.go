package validation

import (
	"strings"
	"testing"
)

func TestValidateInstitutionalEmail(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"jdoe@fedpoffa.edu.ng", true},
		{"J.Doe@FEDPOFFA.EDU.NG", true}, // domain check is case-insensitive
		{"jdoe@gmail.com", false},
		{"jdoe@fedpoffa.edu.ng.evil.com", false},
		{"not-an-email", false},
		{"", false},
	}

	for _, tc := range cases {
		valid, msg := ValidateInstitutionalEmail(tc.email)
		if valid != tc.valid {
			t.Errorf("ValidateInstitutionalEmail(%q) = %v, want %v", tc.email, valid, tc.valid)
		}
		if !valid && msg == "" {
			t.Errorf("ValidateInstitutionalEmail(%q) rejected without a message", tc.email)
		}
	}
}

func TestValidateMatricNumber(t *testing.T) {
	cases := []struct {
		matric string
		valid  bool
	}{
		{"FPO/ND/CS/2024/001", true},
		{"FPO-HND-2024-042", true},
		{"ABC_1", true},
		{"AB1", false},          // below minimum length
		{"FPO 2024/001", false}, // spaces not allowed
		{"FPO@2024", false},     // symbols outside the allowed set
		{"", false},
	}

	for _, tc := range cases {
		valid, msg := ValidateMatricNumber(tc.matric)
		if valid != tc.valid {
			t.Errorf("ValidateMatricNumber(%q) = %v, want %v (%s)", tc.matric, valid, tc.valid, msg)
		}
	}
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Name string `validate:"required,min=3"`
		Role string `validate:"required,oneof=student lecturer"`
	}

	v := NewValidator()

	if err := v.ValidateStruct(payload{Name: "Ada", Role: "student"}); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}

	err := v.ValidateStruct(payload{Name: "A", Role: "hacker"})
	if err == nil {
		t.Fatal("invalid struct accepted")
	}

	formatted := FormatValidationErrors(err)
	if len(formatted) != 2 {
		t.Errorf("expected 2 formatted errors, got %d: %v", len(formatted), formatted)
	}
	if msg, ok := formatted["role"]; !ok || !strings.Contains(msg, "one of") {
		t.Errorf("role error missing or malformed: %v", formatted)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00world  "); got != "helloworld" {
		t.Errorf("SanitizeString = %q, want %q", got, "helloworld")
	}
	if got := SanitizeString("plain"); got != "plain" {
		t.Errorf("SanitizeString = %q, want %q", got, "plain")
	}
}
