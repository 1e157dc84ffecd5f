package cli

import (
	"errors"
	"fmt"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// errNeedsConfirmation is returned when a delete would need a prompt but cannot show one.
var errNeedsConfirmation = errors.New("refusing to delete without confirmation; pass --yes")

// errCancelled is returned when the user declines a prompt.
var errCancelled = errors.New("cancelled")
