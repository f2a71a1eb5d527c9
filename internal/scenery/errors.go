package scenery

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	ErrTypeInvalidKind = "scenery_invalid_kind"
	ErrTypeUnknownKind = "scenery_unknown_kind"
	ErrTypeOutOfBounds = "scenery_out_of_bounds"
	ErrTypeNotFound    = "scenery_not_found"
)

func unknownKind(id KindID) error {
	return errors.New("scenery kind not registered").
		WithType(ErrTypeUnknownKind).
		WithTag("kind", id)
}

func notFound(id uint32) error {
	return errors.New("scenery object not found").
		WithType(ErrTypeNotFound).
		WithTag("id", id)
}
