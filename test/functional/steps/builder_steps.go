package steps

import (
	"context"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/usecases"
	"strings"
)

func (fc *FeatureContext) iStartANewFormTitled(title string) error {
	fc.builder = usecases.NewFormBuilder(fc.api, domain.NewSessionIDGenerator(), nil, nil)
	fc.builder.SetTitle(domain.Title(title))
	return nil
}

func (fc *FeatureContext) addField(fieldType, label string, required bool) error {
	id, err := fc.builder.AddField(domain.FieldType(fieldType))
	if err != nil {
		return err
	}
	fc.builder.UpdateField(id, func(f domain.Field) domain.Field {
		f.Label = domain.Label(label)
		f.Required = required
		return f
	})
	return nil
}

func (fc *FeatureContext) iAddAFieldLabelled(fieldType, label string) error {
	return fc.addField(fieldType, label, false)
}

func (fc *FeatureContext) iAddARequiredFieldLabelled(fieldType, label string) error {
	return fc.addField(fieldType, label, true)
}

func (fc *FeatureContext) iMoveTheFieldAtTo(from, to int) error {
	return fc.builder.MoveField(from, to)
}

func (fc *FeatureContext) iSaveTheForm() error {
	_, fc.lastErr = fc.builder.Save(context.Background())
	return nil
}

func (fc *FeatureContext) theFieldLabelsAre(expected string) error {
	var labels []string
	for _, f := range fc.builder.State().Fields() {
		labels = append(labels, string(f.Label))
	}
	fc.require.Equal(expected, strings.Join(labels, ", "))
	return nil
}

func (fc *FeatureContext) theBackendStoresAFormTitledWithFields(title string, count int) error {
	fc.require.NoError(fc.lastErr)

	forms := fc.backend.Forms()
	fc.require.Len(forms, 1)
	fc.require.Equal(title, forms[0].Title)
	fc.require.Len(forms[0].Fields, count)
	return nil
}

func (fc *FeatureContext) theBuilderIsSavedWithTheBackendID() error {
	saved, ok := fc.builder.Saved()
	fc.require.True(ok, "builder should be saved")
	fc.require.Equal(fc.backend.Forms()[0].ID, saved.ID.String())
	fc.require.Equal(usecases.BuilderSaved, fc.builder.Status())
	return nil
}

func (fc *FeatureContext) theBuilderIsStillADraftTitledWithFields(title string, count int) error {
	fc.require.Equal(usecases.BuilderDraft, fc.builder.Status())

	state := fc.builder.State()
	fc.require.Equal(domain.Title(title), state.Title())
	fc.require.Equal(count, state.Len())
	fc.require.Empty(fc.backend.Forms())
	return nil
}
