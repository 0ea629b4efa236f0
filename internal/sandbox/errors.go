package sandbox

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned by the Require helpers before Load.
var ErrNotLoaded = errors.New("sandbox: snapshot not loaded")

// NotFoundError reports a missing vault or deposit.
//
// Commands themselves never return it: they silently ignore unknown
// references. Callers that want to tell the user use RequireVault or
// RequireDeposit first.
type NotFoundError struct {
	Kind string // "vault" or "deposit"
	Ref  string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
