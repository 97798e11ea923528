package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/mcnijman/go-emailaddress"
)

// Validation limits
const (
	NameMaxLength = 100
	CGPAMin       = 0.0
	CGPAMax       = 10.0
)

// NormalizeEmail trims and lowercases an address so uniqueness is not
// defeated by case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address syntax. The domain must be a dotted name.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := emailaddress.Parse(email)
	if err != nil || addr.LocalPart == "" || !strings.Contains(strings.Trim(addr.Domain, "."), ".") {
		return fmt.Errorf("email must be a valid email address")
	}
	return nil
}

// ValidateCGPA checks that a grade point average lies on the 10 point scale.
func ValidateCGPA(field string, value float64) error {
	if math.IsNaN(value) || value < CGPAMin || value > CGPAMax {
		return fmt.Errorf("%s must be between %.0f and %.0f", field, CGPAMin, CGPAMax)
	}
	return nil
}

// ValidateName checks a display name after trimming.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len([]rune(name)) > NameMaxLength {
		return fmt.Errorf("name must be at most %d characters", NameMaxLength)
	}
	return nil
}
