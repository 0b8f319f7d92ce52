package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// EmailRegex is a simple email validation regex
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// InstitutionalEmailDomain is the required email domain suffix
	InstitutionalEmailDomain = "@fedpoffa.edu.ng"

	// MatricNumberMinLength is the minimum matriculation number length
	MatricNumberMinLength = 5
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errors[field] = "Invalid email format"
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
			case "oneof":
				errors[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// ValidateEmail checks if an email is syntactically valid
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}

// ValidateInstitutionalEmail checks that the email is valid and carries
// the institutional domain suffix
func ValidateInstitutionalEmail(email string) (bool, string) {
	if !ValidateEmail(email) {
		return false, "Invalid email format"
	}
	if !strings.HasSuffix(strings.ToLower(email), InstitutionalEmailDomain) {
		return false, fmt.Sprintf("Email must be an institutional address ending with %s", InstitutionalEmailDomain)
	}
	return true, ""
}

// ValidateMatricNumber checks if a matriculation number is acceptable
func ValidateMatricNumber(matric string) (bool, string) {
	if len(matric) < MatricNumberMinLength {
		return false, fmt.Sprintf("Matric number must be at least %d characters", MatricNumberMinLength)
	}

	// Alphanumeric with slashes and hyphens (e.g. FPO/ND/CS/2024/001)
	validMatric := regexp.MustCompile(`^[a-zA-Z0-9/_-]+$`)
	if !validMatric.MatchString(matric) {
		return false, "Matric number can only contain letters, numbers, slashes, underscores, and hyphens"
	}

	return true, ""
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
