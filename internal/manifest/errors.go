package manifest

import "fmt"

// StructuralError reports a required field that is structurally absent or
// empty in the source document. Parsing stops at the first one.
type StructuralError struct {
	Field  string
	UnitID string // empty for manifest-level fields
}

func (e *StructuralError) Error() string {
	if e.UnitID != "" {
		return fmt.Sprintf("unit %q: required field %q is missing or empty", e.UnitID, e.Field)
	}
	if e.Field == "units" {
		return "manifest: required field \"units\" is missing"
	}
	return fmt.Sprintf("manifest: required field %q is missing or empty", e.Field)
}

// PathSafetyError reports a unit path that is absolute or escapes the
// manifest root.
type PathSafetyError struct {
	Path   string
	Reason string
}

func (e *PathSafetyError) Error() string {
	return fmt.Sprintf("unit path %q: %s", e.Path, e.Reason)
}

// DateFormatError reports a date field that is not a YYYY-MM-DD calendar date.
type DateFormatError struct {
	Value string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", e.Value)
}

func (e *DateFormatError) Unwrap() error {
	return e.Err
}
