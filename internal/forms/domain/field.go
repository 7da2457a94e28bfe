package domain

import (
	"fmt"
	"slices"
)

const (
	DefaultFieldLabel = "Untitled"
	DefaultMinRating  = 1
	DefaultMaxRating  = 5
)

type FieldType string

const (
	FieldTypeText           FieldType = "text"
	FieldTypeMultipleChoice FieldType = "multiple_choice"
	FieldTypeCheckbox       FieldType = "checkbox"
	FieldTypeRating         FieldType = "rating"
)

var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeMultipleChoice,
	FieldTypeCheckbox,
	FieldTypeRating,
}

func (t FieldType) IsValid() bool {
	return slices.Contains(FieldTypes, t)
}

// HasOptions reports whether fields of this type carry an option list.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeMultipleChoice || t == FieldTypeCheckbox
}

func (t FieldType) String() string {
	return string(t)
}

type FieldOption struct {
	ID    ID
	Label Label
}

type Field struct {
	ID          ID
	Type        FieldType
	Label       Label
	Required    bool
	Placeholder *string
	Options     []FieldOption
	MinRating   *int
	MaxRating   *int
}

// Clone returns a deep copy so snapshots never share option slices.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = slices.Clone(f.Options)
	}
	if f.Placeholder != nil {
		p := *f.Placeholder
		out.Placeholder = &p
	}
	if f.MinRating != nil {
		v := *f.MinRating
		out.MinRating = &v
	}
	if f.MaxRating != nil {
		v := *f.MaxRating
		out.MaxRating = &v
	}
	return out
}

func (f Field) HasOption(id ID) bool {
	return slices.ContainsFunc(f.Options, func(o FieldOption) bool { return o.ID == id })
}

func (f Field) OptionIndex(id ID) int {
	return slices.IndexFunc(f.Options, func(o FieldOption) bool { return o.ID == id })
}

// RatingBounds returns the configured scale, falling back to 1..5.
func (f Field) RatingBounds() (int, int) {
	lo, hi := DefaultMinRating, DefaultMaxRating
	if f.MinRating != nil {
		lo = *f.MinRating
	}
	if f.MaxRating != nil {
		hi = *f.MaxRating
	}
	return lo, hi
}

// RatingScale enumerates the selectable values of a rating field.
func (f Field) RatingScale() []int {
	lo, hi := f.RatingBounds()
	if hi < lo {
		return []int{}
	}
	scale := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		scale = append(scale, n)
	}
	return scale
}

// WithType switches the field to another type, dropping attributes the new
// type does not use and seeding the ones it needs. Existing options are kept
// when moving between the two choice types.
func (f Field) WithType(t FieldType, newOption func() ID) Field {
	out := f.Clone()
	if out.Type == t {
		return out
	}
	out.Type = t

	if !t.HasOptions() {
		out.Options = nil
	} else if len(out.Options) == 0 {
		out.Options = DefaultOptions(newOption)
	}

	if t == FieldTypeRating {
		if out.MinRating == nil {
			lo := DefaultMinRating
			out.MinRating = &lo
		}
		if out.MaxRating == nil {
			hi := DefaultMaxRating
			out.MaxRating = &hi
		}
	} else {
		out.MinRating = nil
		out.MaxRating = nil
	}

	if t != FieldTypeText {
		out.Placeholder = nil
	}

	return out
}

func (f Field) Validate() error {
	if f.ID.IsZero() {
		return ErrFieldIDRequired
	}
	if !f.Type.IsValid() {
		return fmt.Errorf("field %s: %w: %q", f.ID, ErrUnknownFieldType, f.Type)
	}
	if !f.Type.HasOptions() && len(f.Options) > 0 {
		return fmt.Errorf("field %s: %w", f.ID, ErrOptionsNotAllowed)
	}
	if f.Type != FieldTypeRating && (f.MinRating != nil || f.MaxRating != nil) {
		return fmt.Errorf("field %s: %w", f.ID, ErrRatingNotAllowed)
	}
	if f.Type == FieldTypeRating {
		lo, hi := f.RatingBounds()
		if lo > hi {
			return fmt.Errorf("field %s: %w (%d > %d)", f.ID, ErrInvalidRatingRange, lo, hi)
		}
	}

	seen := make(map[ID]struct{}, len(f.Options))
	for _, o := range f.Options {
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("field %s: %w: %s", f.ID, ErrDuplicateOptionID, o.ID)
		}
		seen[o.ID] = struct{}{}
	}

	return nil
}

// DefaultOptions is the option list a new choice field starts with.
func DefaultOptions(newOption func() ID) []FieldOption {
	return []FieldOption{
		{ID: newOption(), Label: "Option 1"},
		{ID: newOption(), Label: "Option 2"},
	}
}

// NextOptionLabel names an appended option after its 1-based position.
func NextOptionLabel(existing int) Label {
	return Label(fmt.Sprintf("Option %d", existing+1))
}
