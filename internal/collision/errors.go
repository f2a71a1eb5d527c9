package collision

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	// ErrTypeInvalidShape is returned by factories given empty geometry or
	// non-positive dimensions.
	ErrTypeInvalidShape = "collision_invalid_shape"

	// ErrTypeStaleHandle is returned when a handle refers to a freed or
	// unknown collider.
	ErrTypeStaleHandle = "collision_stale_handle"
)

func invalidShape(msg string) error {
	return errors.New(msg).WithType(ErrTypeInvalidShape)
}

func staleHandle(h Handle) error {
	return errors.New("collider not found").
		WithType(ErrTypeStaleHandle).
		WithTag("index", h.index).
		WithTag("generation", h.generation)
}
