package main

import (
	"errors"
	"fmt"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/usecases"
	"io"

	"gopkg.in/yaml.v3"
)

// FormDefinition is the YAML accepted by `formctl create --file`.
type FormDefinition struct {
	Title  string            `yaml:"title"`
	Fields []FieldDefinition `yaml:"fields"`
}

type FieldDefinition struct {
	Type        string   `yaml:"type"`
	Label       string   `yaml:"label"`
	Required    bool     `yaml:"required"`
	Placeholder *string  `yaml:"placeholder,omitempty"`
	Options     []string `yaml:"options,omitempty"`
	MinRating   *int     `yaml:"minRating,omitempty"`
	MaxRating   *int     `yaml:"maxRating,omitempty"`
}

func ParseDefinition(r io.Reader) (FormDefinition, error) {
	var def FormDefinition

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return FormDefinition{}, errors.New("form definition is empty")
		}
		return FormDefinition{}, fmt.Errorf("decoding form definition: %w", err)
	}

	return def, nil
}

// Apply replays the definition as builder edits so that ids, defaults and
// validation come from the builder itself.
func (d FormDefinition) Apply(b *usecases.FormBuilder) error {
	if d.Title != "" {
		b.SetTitle(domain.Title(d.Title))
	}

	for i, fd := range d.Fields {
		fieldType := domain.FieldType(fd.Type)
		id, err := b.AddField(fieldType)
		if err != nil {
			return fmt.Errorf("field %d: %w", i+1, err)
		}

		if len(fd.Options) > 0 && !fieldType.HasOptions() {
			return fmt.Errorf("field %d: %w", i+1, domain.ErrOptionsNotAllowed)
		}
		if (fd.MinRating != nil || fd.MaxRating != nil) && fieldType != domain.FieldTypeRating {
			return fmt.Errorf("field %d: %w", i+1, domain.ErrRatingNotAllowed)
		}

		b.UpdateField(id, func(f domain.Field) domain.Field {
			if fd.Label != "" {
				f.Label = domain.Label(fd.Label)
			}
			f.Required = fd.Required
			if fieldType == domain.FieldTypeText {
				f.Placeholder = fd.Placeholder
			}
			if fd.MinRating != nil {
				f.MinRating = fd.MinRating
			}
			if fd.MaxRating != nil {
				f.MaxRating = fd.MaxRating
			}
			return f
		})

		if len(fd.Options) > 0 {
			if err := applyOptions(b, id, fd.Options); err != nil {
				return fmt.Errorf("field %d: %w", i+1, err)
			}
		}
	}

	return nil
}

func applyOptions(b *usecases.FormBuilder, fieldID domain.ID, labels []string) error {
	field, _ := b.State().Field(fieldID)
	for n := len(field.Options); n < len(labels); n++ {
		if err := b.AddOption(fieldID); err != nil {
			return err
		}
	}

	field, _ = b.State().Field(fieldID)
	for j, option := range field.Options {
		if j < len(labels) {
			b.UpdateOption(fieldID, option.ID, domain.Label(labels[j]))
			continue
		}
		b.RemoveOption(fieldID, option.ID)
	}

	return nil
}
