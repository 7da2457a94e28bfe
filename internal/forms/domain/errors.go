package domain

import "errors"

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnknownFieldType     = errors.New("unknown field type")
	ErrDuplicateFieldID     = errors.New("duplicate field id")
	ErrDuplicateOptionID    = errors.New("duplicate option id")
	ErrFieldIDRequired      = errors.New("field id is required")
	ErrOptionsNotAllowed    = errors.New("options are only allowed on choice fields")
	ErrRatingNotAllowed     = errors.New("rating bounds are only allowed on rating fields")
	ErrInvalidRatingRange   = errors.New("min rating must not exceed max rating")
	ErrAnswerTypeMismatch   = errors.New("answer kind does not match field type")
	ErrFieldNotFound        = errors.New("field not found")
	ErrOptionNotFound       = errors.New("option not found")
	ErrIDGeneratorExhausted = errors.New("could not generate a unique id")
)
