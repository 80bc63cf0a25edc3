package errors

import "unicode"

// ValidateOutputPath validates a user-supplied output path before a catalog
// write. Passes never write through an unvetted path; a bad path must fail
// before the transform runs, not after.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}

// ValidateEquipmentID validates an equipment identifier used in a relation
// edge. IDs are free-form but must be printable and non-empty once trimmed.
func ValidateEquipmentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "equipment id cannot be empty")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "equipment id contains control characters: %q", id)
		}
	}
	return nil
}
