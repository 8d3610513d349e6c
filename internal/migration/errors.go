package migration

import (
	"errors"
	"fmt"
)

// ErrUnsupportedShape marks a legacy row that matches none of the modeled
// source or destination patterns. It is fatal to the whole run: the fix is
// widening the classifier, never skipping the row.
var ErrUnsupportedShape = errors.New("unsupported legacy transaction shape")

func unsupported(legacyID int64, format string, args ...any) error {
	return fmt.Errorf("legacy transaction %d: %s: %w", legacyID, fmt.Sprintf(format, args...), ErrUnsupportedShape)
}
