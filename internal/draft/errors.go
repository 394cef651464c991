package draft

import "errors"

// Failure kinds surfaced by draft operations. Callers match with errors.Is;
// each operation wraps these with the draft or message id involved.
var (
	// ErrNoRecipients means reply-all resolution produced an empty To set.
	ErrNoRecipients = errors.New("no recipients resolved")

	// ErrDraftNotFound means the provider has no draft under the given id.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrProvider means the provider rejected an otherwise-delivered call.
	ErrProvider = errors.New("provider rejected request")

	// ErrNetwork means the call never completed at the transport level.
	ErrNetwork = errors.New("network failure")
)
