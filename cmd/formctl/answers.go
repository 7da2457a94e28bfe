package main

import (
	"errors"
	"fmt"
	"formflow/internal/forms/domain"
	"strconv"
	"strings"
)

var errBadAnswerFlag = errors.New("answer must look like <field>=<value>")

// ParseAnswerFlag splits "--answer field=value". The field may be given by id
// or by label.
func ParseAnswerFlag(form domain.FormModel, raw string) (domain.Field, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return domain.Field{}, "", fmt.Errorf("%w: %q", errBadAnswerFlag, raw)
	}

	if f, found := form.FieldByID(domain.ID(key)); found {
		return f, value, nil
	}
	for _, f := range form.Fields {
		if strings.EqualFold(string(f.Label), key) {
			return f, value, nil
		}
	}

	return domain.Field{}, "", fmt.Errorf("%w: %s", domain.ErrFieldNotFound, key)
}

// ParseAnswer converts command-line text into the answer shape of field.
// Choice values may name an option by id or by label; checkbox values are
// comma separated.
func ParseAnswer(field domain.Field, value string) (domain.Answer, error) {
	switch field.Type {
	case domain.FieldTypeText:
		return domain.TextAnswer(value), nil
	case domain.FieldTypeMultipleChoice:
		id, err := resolveOption(field, value)
		if err != nil {
			return domain.Answer{}, err
		}
		return domain.ChoiceAnswer(id), nil
	case domain.FieldTypeCheckbox:
		ids := make([]domain.ID, 0)
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := resolveOption(field, part)
			if err != nil {
				return domain.Answer{}, err
			}
			ids = append(ids, id)
		}
		return domain.CheckboxAnswer(ids...), nil
	case domain.FieldTypeRating:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return domain.Answer{}, fmt.Errorf("%w: rating %q is not a number", domain.ErrAnswerTypeMismatch, value)
		}
		return domain.RatingAnswer(n), nil
	default:
		return domain.Answer{}, fmt.Errorf("%w: %q", domain.ErrUnknownFieldType, field.Type)
	}
}

func resolveOption(field domain.Field, value string) (domain.ID, error) {
	value = strings.TrimSpace(value)
	if field.HasOption(domain.ID(value)) {
		return domain.ID(value), nil
	}
	for _, o := range field.Options {
		if strings.EqualFold(string(o.Label), value) {
			return o.ID, nil
		}
	}
	return "", fmt.Errorf("field %s: %w: %s", field.ID, domain.ErrOptionNotFound, value)
}
