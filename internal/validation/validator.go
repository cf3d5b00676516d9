package validation

// Validator provides the primitive checks the task validator is built from.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// IsNonEmptyString reports whether s has at least one byte. Whitespace counts:
// the gate checks presence, not content.
func (v *Validator) IsNonEmptyString(s string) bool {
	return len(s) > 0
}

// IsValidTaskID checks if a task ID is valid (positive)
func (v *Validator) IsValidTaskID(id int64) bool {
	return id > 0
}
