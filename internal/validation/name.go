package validation

import (
	"strconv"
	"strings"
)

// MaxNameLength bounds display names, counted in characters.
const MaxNameLength = 100

// ValidateName checks a display name the same way struct tags do, so a
// failure is a *FieldError for the "name" field.
func ValidateName(name string) error {
	err := validate.Var(strings.TrimSpace(name), "required,max="+strconv.Itoa(MaxNameLength))
	if err == nil {
		return nil
	}
	if fe, ok := firstFieldError(err); ok {
		fe.Field = "name"
		return fe
	}
	return err
}
