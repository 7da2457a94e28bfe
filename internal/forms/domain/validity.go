package domain

import (
	"math"
	"strings"
)

// IsAnswerValid reports whether answer satisfies field. present is false when
// the respondent has not answered the field at all.
func IsAnswerValid(field Field, answer Answer, present bool) bool {
	if !field.Required {
		return true
	}
	if !present || answer.kind != field.Type {
		return false
	}

	switch field.Type {
	case FieldTypeText:
		return strings.TrimSpace(answer.text) != ""
	case FieldTypeMultipleChoice:
		return answer.choice != "" && field.HasOption(answer.choice)
	case FieldTypeCheckbox:
		return len(answer.selections) > 0
	case FieldTypeRating:
		return !math.IsNaN(answer.rating) && !math.IsInf(answer.rating, 0)
	}

	return false
}

type ValidationError struct {
	FieldID ID
	Message string
}

func (e ValidationError) Error() string {
	return string(e.FieldID) + ": " + e.Message
}

// CheckAnswers explains, field by field, why an answer set is not
// submittable. An empty result means every field passes IsAnswerValid.
func CheckAnswers(form FormModel, answers AnswerSet) []ValidationError {
	problems := make([]ValidationError, 0)
	for _, f := range form.Fields {
		a, present := answers.Lookup(f.ID)
		if IsAnswerValid(f, a, present) {
			continue
		}
		problems = append(problems, ValidationError{FieldID: f.ID, Message: explain(f, a, present)})
	}
	return problems
}

func explain(f Field, a Answer, present bool) string {
	if !present {
		return "field is required"
	}
	if a.kind != f.Type {
		return "must be a " + string(f.Type) + " answer"
	}
	switch f.Type {
	case FieldTypeText:
		return "must not be blank"
	case FieldTypeMultipleChoice:
		if a.choice == "" {
			return "field is required"
		}
		return "invalid option"
	case FieldTypeCheckbox:
		return "select at least one option"
	case FieldTypeRating:
		return "must be a number"
	}
	return "invalid answer"
}
