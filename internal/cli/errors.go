package cli

import (
	"fmt"

	"github.com/simp-lee/minimarket/internal/domain"
)

// commandError labels a failed catalog operation by error kind. Validation
// failures mean the input was rejected and nothing was written.
func commandError(op string, err error) error {
	switch {
	case domain.IsValidation(err):
		return fmt.Errorf("%s rejected: %w", op, err)
	case domain.IsInternal(err):
		return fmt.Errorf("%s failed: %w", op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
