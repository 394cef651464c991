package gservice

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/hal9000y/inbox-agent/internal/draft"
)

// classifyErr maps a provider call failure onto the draft error kinds:
// an HTTP 404 means the draft id is unknown, any other API-level rejection
// is a provider error, and everything else (transport failures, open
// breaker) is a network error.
func classifyErr(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusNotFound {
			return fmt.Errorf("%s failed: %w: %w", op, draft.ErrDraftNotFound, err)
		}
		return fmt.Errorf("%s failed: %w: %w", op, draft.ErrProvider, err)
	}
	return fmt.Errorf("%s failed: %w: %w", op, draft.ErrNetwork, err)
}
