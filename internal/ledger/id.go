// Package ledger keeps tire quantities consistent across the catalog, the
// sales and delivery ledgers and the derived inventory index.
//
// None of the types in this package are safe for concurrent use. The session
// package serialises access to them.
package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// newID returns a time-ordered identifier.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	return id.String(), nil
}
