package steps

import (
	"context"
	"fmt"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/usecases"
	"strconv"
)

func (fc *FeatureContext) iOpenTheForm() error {
	catalog := usecases.NewFormCatalog(fc.api, nil)
	renderer, err := usecases.LoadRenderer(context.Background(), catalog, domain.ID(fc.formID), fc.api, nil)
	if err != nil {
		return err
	}
	fc.renderer = renderer
	return nil
}

func (fc *FeatureContext) iAnswerWith(label, value string) error {
	field, err := fc.fieldByLabel(fc.renderer.Form(), label)
	if err != nil {
		return err
	}

	var answer domain.Answer
	switch field.Type {
	case domain.FieldTypeRating:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		answer = domain.RatingAnswer(n)
	case domain.FieldTypeText:
		answer = domain.TextAnswer(value)
	default:
		return fmt.Errorf("answering %s fields is not supported by this step", field.Type)
	}

	return fc.renderer.SetAnswer(field.ID, answer)
}

func (fc *FeatureContext) iSubmitTheForm() error {
	fc.message, fc.lastErr = fc.renderer.Submit(context.Background())
	return nil
}

func (fc *FeatureContext) theFormCannotBeSubmitted() error {
	fc.require.False(fc.renderer.CanSubmit())
	return nil
}

func (fc *FeatureContext) theFormCanBeSubmitted() error {
	fc.require.True(fc.renderer.CanSubmit())
	return nil
}

func (fc *FeatureContext) iAmTold(message string) error {
	fc.require.NoError(fc.lastErr)
	fc.require.Equal(message, fc.message)
	return nil
}

func (fc *FeatureContext) theBackendReceivedResponses(count int) error {
	fc.require.Equal(count, fc.backend.Responses(fc.formID))
	return nil
}

func (fc *FeatureContext) myAnswersAreCleared() error {
	fc.require.Empty(fc.renderer.Answers())
	return nil
}

func (fc *FeatureContext) myAnswerToIsStill(label, value string) error {
	field, err := fc.fieldByLabel(fc.renderer.Form(), label)
	if err != nil {
		return err
	}

	answer, ok := fc.renderer.Answers().Lookup(field.ID)
	fc.require.True(ok, "answer should be kept")

	want, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	got, ok := answer.Rating()
	fc.require.True(ok)
	fc.require.Equal(want, got)
	return nil
}
