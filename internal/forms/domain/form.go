package domain

import (
	"fmt"
	"slices"
	"time"
)

const DefaultFormTitle Title = "Untitled Form"

// FormModel is a draft while ID is empty; the backend assigns the ID on save.
type FormModel struct {
	ID        ID
	Title     Title
	Fields    []Field
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

func (m FormModel) IsDraft() bool {
	return m.ID.IsZero()
}

func (m FormModel) Clone() FormModel {
	out := m
	out.Fields = make([]Field, len(m.Fields))
	for i, f := range m.Fields {
		out.Fields[i] = f.Clone()
	}
	return out
}

func (m FormModel) FieldIndex(id ID) int {
	return slices.IndexFunc(m.Fields, func(f Field) bool { return f.ID == id })
}

func (m FormModel) FieldByID(id ID) (Field, bool) {
	idx := m.FieldIndex(id)
	if idx < 0 {
		return Field{}, false
	}
	return m.Fields[idx], true
}

func (m FormModel) Validate() error {
	seen := make(map[ID]struct{}, len(m.Fields))
	for _, f := range m.Fields {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateFieldID, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}
