package mergecat

import (
	"bytes"

	"github.com/cedtools/equiplink/pkg/errors"
	"github.com/cedtools/equiplink/pkg/omap"
)

// ValidateIntegrity verifies that a reorder pass changed nothing but key
// order: the two values must canonicalize to identical content when
// compared order-independently, and must carry the same recursive key
// count. Any mismatch is an INTEGRITY_VIOLATION and the caller must not
// persist the reordered output.
func ValidateIntegrity(original, reordered any) error {
	origJSON, err := omap.CanonicalJSON(original)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIntegrity, err, "serialize original for comparison")
	}
	reordJSON, err := omap.CanonicalJSON(reordered)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIntegrity, err, "serialize reordered for comparison")
	}
	if !bytes.Equal(origJSON, reordJSON) {
		return errors.New(errors.ErrCodeIntegrity, "data content changed during reordering")
	}

	origCount := omap.CountKeys(original)
	reordCount := omap.CountKeys(reordered)
	if origCount != reordCount {
		return errors.New(errors.ErrCodeIntegrity, "key count mismatch: %d -> %d", origCount, reordCount)
	}
	return nil
}
