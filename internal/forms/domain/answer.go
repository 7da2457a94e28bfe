package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Answer is a tagged union over the answer shapes of the four field types.
// The zero value carries no kind and matches no field.
type Answer struct {
	kind       FieldType
	text       string
	choice     ID
	selections []ID
	rating     float64
}

func TextAnswer(value string) Answer {
	return Answer{kind: FieldTypeText, text: value}
}

func ChoiceAnswer(optionID ID) Answer {
	return Answer{kind: FieldTypeMultipleChoice, choice: optionID}
}

// CheckboxAnswer keeps the first occurrence of every option id.
func CheckboxAnswer(optionIDs ...ID) Answer {
	selections := make([]ID, 0, len(optionIDs))
	for _, id := range optionIDs {
		if !slices.Contains(selections, id) {
			selections = append(selections, id)
		}
	}
	return Answer{kind: FieldTypeCheckbox, selections: selections}
}

func RatingAnswer(value float64) Answer {
	return Answer{kind: FieldTypeRating, rating: value}
}

func (a Answer) Kind() FieldType {
	return a.kind
}

func (a Answer) Text() (string, bool) {
	return a.text, a.kind == FieldTypeText
}

func (a Answer) Choice() (ID, bool) {
	return a.choice, a.kind == FieldTypeMultipleChoice
}

func (a Answer) Selections() ([]ID, bool) {
	return slices.Clone(a.selections), a.kind == FieldTypeCheckbox
}

func (a Answer) Rating() (float64, bool) {
	return a.rating, a.kind == FieldTypeRating
}

// Toggle adds or removes an option from a checkbox answer.
func (a Answer) Toggle(optionID ID, checked bool) Answer {
	current := slices.Clone(a.selections)
	if a.kind != FieldTypeCheckbox {
		current = nil
	}
	if checked {
		return CheckboxAnswer(append(current, optionID)...)
	}
	return CheckboxAnswer(slices.DeleteFunc(current, func(id ID) bool { return id == optionID })...)
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case FieldTypeText:
		return json.Marshal(a.text)
	case FieldTypeMultipleChoice:
		return json.Marshal(a.choice)
	case FieldTypeCheckbox:
		ids := a.selections
		if ids == nil {
			ids = []ID{}
		}
		return json.Marshal(ids)
	case FieldTypeRating:
		return json.Marshal(a.rating)
	default:
		return nil, fmt.Errorf("marshaling answer: %w", ErrAnswerTypeMismatch)
	}
}

// AnswerSet maps field ids to the respondent's current answers.
type AnswerSet map[ID]Answer

func (s AnswerSet) Clone() AnswerSet {
	if s == nil {
		return AnswerSet{}
	}
	return maps.Clone(s)
}

func (s AnswerSet) Lookup(fieldID ID) (Answer, bool) {
	a, ok := s[fieldID]
	return a, ok
}
