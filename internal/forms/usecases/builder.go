package usecases

import (
	"context"
	"fmt"
	"formflow/internal/forms/domain"
	"formflow/internal/logger"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// BuilderState is an immutable snapshot of a form under construction. Every
// operation returns a new snapshot and leaves the receiver untouched.
type BuilderState struct {
	title  domain.Title
	fields []domain.Field
}

// NewBuilderState starts from the supplied partial model, or from an
// untitled empty form when initial is nil.
func NewBuilderState(initial *domain.FormModel) BuilderState {
	state := BuilderState{title: domain.DefaultFormTitle, fields: []domain.Field{}}
	if initial == nil {
		return state
	}
	if initial.Title != "" {
		state.title = initial.Title
	}
	if initial.Fields != nil {
		state.fields = initial.Clone().Fields
	}
	return state
}

func (s BuilderState) Title() domain.Title {
	return s.title
}

// Fields returns a deep copy of the field list.
func (s BuilderState) Fields() []domain.Field {
	return s.Form().Fields
}

func (s BuilderState) Len() int {
	return len(s.fields)
}

func (s BuilderState) FieldIDs() []domain.ID {
	ids := make([]domain.ID, len(s.fields))
	for i, f := range s.fields {
		ids[i] = f.ID
	}
	return ids
}

func (s BuilderState) Field(id domain.ID) (domain.Field, bool) {
	idx := s.index(id)
	if idx < 0 {
		return domain.Field{}, false
	}
	return s.fields[idx].Clone(), true
}

// Form exposes the snapshot as a draft model ready to be persisted.
func (s BuilderState) Form() domain.FormModel {
	return domain.FormModel{Title: s.title, Fields: s.fields}.Clone()
}

func (s BuilderState) SetTitle(title domain.Title) BuilderState {
	return BuilderState{title: title, fields: s.fields}
}

// AddField appends a field of the given type with a fresh id and type
// specific defaults.
func (s BuilderState) AddField(ids domain.IDGenerator, fieldType domain.FieldType) (BuilderState, domain.ID, error) {
	if !fieldType.IsValid() {
		return s, "", fmt.Errorf("adding field: %w: %w: %q", domain.ErrInvalidArgument, domain.ErrUnknownFieldType, fieldType)
	}

	id, err := ids.NewFieldID()
	if err != nil {
		return s, "", fmt.Errorf("adding field: %w", err)
	}

	field := domain.Field{
		ID:       id,
		Type:     fieldType,
		Label:    domain.DefaultFieldLabel,
		Required: false,
	}

	if fieldType.HasOptions() {
		options := make([]domain.FieldOption, 0, 2)
		for i := range 2 {
			optionID, err := ids.NewOptionID()
			if err != nil {
				return s, "", fmt.Errorf("adding field: %w", err)
			}
			options = append(options, domain.FieldOption{ID: optionID, Label: domain.NextOptionLabel(i)})
		}
		field.Options = options
	}

	if fieldType == domain.FieldTypeRating {
		lo, hi := domain.DefaultMinRating, domain.DefaultMaxRating
		field.MinRating = &lo
		field.MaxRating = &hi
	}

	fields := make([]domain.Field, 0, len(s.fields)+1)
	fields = append(fields, s.fields...)
	fields = append(fields, field)

	return BuilderState{title: s.title, fields: fields}, id, nil
}

// UpdateField replaces the field with the given id by transform applied to a
// copy of it. The id survives whatever transform does. Unknown ids are a
// no-op.
func (s BuilderState) UpdateField(id domain.ID, transform func(domain.Field) domain.Field) BuilderState {
	idx := s.index(id)
	if idx < 0 {
		return s
	}

	updated := transform(s.fields[idx].Clone())
	updated.ID = id

	fields := slices.Clone(s.fields)
	fields[idx] = updated
	return BuilderState{title: s.title, fields: fields}
}

func (s BuilderState) RemoveField(id domain.ID) BuilderState {
	idx := s.index(id)
	if idx < 0 {
		return s
	}
	fields := make([]domain.Field, 0, len(s.fields)-1)
	fields = append(fields, s.fields[:idx]...)
	fields = append(fields, s.fields[idx+1:]...)
	return BuilderState{title: s.title, fields: fields}
}

// MoveField removes the field at from and reinserts it at to, where to is an
// index into the list after the removal. from must be in [0,n) and to in
// [0,n-1].
func (s BuilderState) MoveField(from, to int) (BuilderState, error) {
	n := len(s.fields)
	if from < 0 || from >= n {
		return s, fmt.Errorf("moving field: %w: from index %d out of range [0,%d)", domain.ErrInvalidArgument, from, n)
	}
	if to < 0 || to > n-1 {
		return s, fmt.Errorf("moving field: %w: to index %d out of range [0,%d]", domain.ErrInvalidArgument, to, n-1)
	}

	fields := slices.Clone(s.fields)
	item := fields[from]
	fields = slices.Delete(fields, from, from+1)
	fields = slices.Insert(fields, to, item)

	return BuilderState{title: s.title, fields: fields}, nil
}

// AddOption appends "Option N" to a choice field. Unknown field ids are a
// no-op.
func (s BuilderState) AddOption(ids domain.IDGenerator, fieldID domain.ID) (BuilderState, error) {
	field, ok := s.Field(fieldID)
	if !ok {
		return s, nil
	}
	if !field.Type.HasOptions() {
		return s, fmt.Errorf("adding option to %s: %w: %w", fieldID, domain.ErrInvalidArgument, domain.ErrOptionsNotAllowed)
	}

	optionID, err := ids.NewOptionID()
	if err != nil {
		return s, fmt.Errorf("adding option to %s: %w", fieldID, err)
	}

	return s.UpdateField(fieldID, func(f domain.Field) domain.Field {
		f.Options = append(f.Options, domain.FieldOption{ID: optionID, Label: domain.NextOptionLabel(len(f.Options))})
		return f
	}), nil
}

// UpdateOption relabels an option; its id does not change.
func (s BuilderState) UpdateOption(fieldID, optionID domain.ID, label domain.Label) BuilderState {
	return s.UpdateField(fieldID, func(f domain.Field) domain.Field {
		if idx := f.OptionIndex(optionID); idx >= 0 {
			f.Options[idx].Label = label
		}
		return f
	})
}

func (s BuilderState) RemoveOption(fieldID, optionID domain.ID) BuilderState {
	return s.UpdateField(fieldID, func(f domain.Field) domain.Field {
		f.Options = slices.DeleteFunc(f.Options, func(o domain.FieldOption) bool { return o.ID == optionID })
		return f
	})
}

func (s BuilderState) index(id domain.ID) int {
	return slices.IndexFunc(s.fields, func(f domain.Field) bool { return f.ID == id })
}

type BuilderStatus string

const (
	BuilderDraft  BuilderStatus = "draft"
	BuilderSaving BuilderStatus = "saving"
	BuilderSaved  BuilderStatus = "saved"
)

// FormBuilder is an editing session over a sequence of BuilderState
// snapshots.
type FormBuilder struct {
	mu      sync.Mutex
	state   BuilderState
	history []BuilderState
	status  BuilderStatus
	saved   domain.FormModel

	ids domain.IDGenerator
	api FormsAPI
	log logger.Logger
}

func NewFormBuilder(api FormsAPI, ids domain.IDGenerator, log logger.Logger, initial *domain.FormModel) *FormBuilder {
	state := NewBuilderState(initial)
	if r, ok := ids.(interface{ Reserve([]domain.Field) }); ok {
		r.Reserve(state.fields)
	}

	return &FormBuilder{
		state:  state,
		status: BuilderDraft,
		ids:    ids,
		api:    api,
		log:    logger.OrNop(log),
	}
}

func (b *FormBuilder) State() BuilderState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *FormBuilder) Status() BuilderStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Saved returns the persisted model once Save succeeded.
func (b *FormBuilder) Saved() (domain.FormModel, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saved.Clone(), b.status == BuilderSaved
}

func (b *FormBuilder) SetTitle(title domain.Title) {
	b.apply(func(s BuilderState) (BuilderState, error) { return s.SetTitle(title), nil })
}

func (b *FormBuilder) AddField(fieldType domain.FieldType) (domain.ID, error) {
	var id domain.ID
	err := b.apply(func(s BuilderState) (BuilderState, error) {
		next, newID, err := s.AddField(b.ids, fieldType)
		id = newID
		return next, err
	})
	return id, err
}

func (b *FormBuilder) UpdateField(id domain.ID, transform func(domain.Field) domain.Field) {
	b.apply(func(s BuilderState) (BuilderState, error) { return s.UpdateField(id, transform), nil })
}

// ChangeFieldType switches a field's type and normalizes its attributes.
func (b *FormBuilder) ChangeFieldType(id domain.ID, fieldType domain.FieldType) error {
	if !fieldType.IsValid() {
		return fmt.Errorf("changing field type: %w: %q", domain.ErrInvalidArgument, fieldType)
	}

	var genErr error
	newOption := func() domain.ID {
		optionID, err := b.ids.NewOptionID()
		if err != nil && genErr == nil {
			genErr = err
		}
		return optionID
	}

	return b.apply(func(s BuilderState) (BuilderState, error) {
		next := s.UpdateField(id, func(f domain.Field) domain.Field { return f.WithType(fieldType, newOption) })
		if genErr != nil {
			return s, fmt.Errorf("changing field type: %w", genErr)
		}
		return next, nil
	})
}

func (b *FormBuilder) RemoveField(id domain.ID) {
	b.apply(func(s BuilderState) (BuilderState, error) { return s.RemoveField(id), nil })
}

func (b *FormBuilder) MoveField(from, to int) error {
	return b.apply(func(s BuilderState) (BuilderState, error) { return s.MoveField(from, to) })
}

func (b *FormBuilder) AddOption(fieldID domain.ID) error {
	return b.apply(func(s BuilderState) (BuilderState, error) { return s.AddOption(b.ids, fieldID) })
}

func (b *FormBuilder) UpdateOption(fieldID, optionID domain.ID, label domain.Label) {
	b.apply(func(s BuilderState) (BuilderState, error) { return s.UpdateOption(fieldID, optionID, label), nil })
}

func (b *FormBuilder) RemoveOption(fieldID, optionID domain.ID) {
	b.apply(func(s BuilderState) (BuilderState, error) { return s.RemoveOption(fieldID, optionID), nil })
}

// Undo restores the snapshot preceding the last applied operation.
func (b *FormBuilder) Undo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.history) == 0 {
		return false
	}
	last := len(b.history) - 1
	b.state = b.history[last]
	b.history = b.history[:last]
	b.touch()
	return true
}

// Save persists the current draft. On failure the draft is kept as it was
// and the error is returned for the caller to surface.
func (b *FormBuilder) Save(ctx context.Context) (domain.FormModel, error) {
	ctx, span := otel.Tracer("form-builder").Start(ctx, "save-form")
	defer span.End()

	b.mu.Lock()
	if b.status == BuilderSaving {
		b.mu.Unlock()
		return domain.FormModel{}, ErrSaveInFlight
	}
	draft := b.state.Form()
	previous := b.status
	b.status = BuilderSaving
	b.mu.Unlock()

	span.SetAttributes(
		attribute.String("form.title", string(draft.Title)),
		attribute.Int("form.fields", len(draft.Fields)),
	)

	if err := draft.Validate(); err != nil {
		b.setStatus(previous)
		return domain.FormModel{}, fmt.Errorf("validating draft: %w", err)
	}

	saved, err := b.api.CreateForm(ctx, draft)
	if err != nil {
		b.setStatus(previous)
		span.RecordError(err)
		b.log.Warnw("saving form failed", "title", draft.Title, "error", err)
		return domain.FormModel{}, fmt.Errorf("saving form: %w", err)
	}

	b.mu.Lock()
	b.saved = saved.Clone()
	b.status = BuilderSaved
	b.mu.Unlock()

	b.log.Infow("form saved", "form_id", saved.ID, "fields", len(saved.Fields))

	return saved, nil
}

func (b *FormBuilder) apply(op func(BuilderState) (BuilderState, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, err := op(b.state)
	if err != nil {
		return err
	}

	b.history = append(b.history, b.state)
	b.state = next
	b.touch()
	return nil
}

// touch turns a saved session back into a draft after an edit. Must be called
// with mu held.
func (b *FormBuilder) touch() {
	if b.status == BuilderSaved {
		b.status = BuilderDraft
	}
}

func (b *FormBuilder) setStatus(status BuilderStatus) {
	b.mu.Lock()
	b.status = status
	b.mu.Unlock()
}
