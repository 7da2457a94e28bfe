package usecases

import (
	"context"
	"fmt"
	"formflow/internal/forms/domain"
	"formflow/internal/logger"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const SubmitSuccessMessage = "Thanks for your response!"

// Renderer tracks a respondent's answers to one persisted form and submits
// them.
type Renderer struct {
	form domain.FormModel
	api  FormsAPI
	log  logger.Logger

	mu         sync.Mutex
	answers    domain.AnswerSet
	submitting atomic.Bool
}

func NewRenderer(form domain.FormModel, api FormsAPI, log logger.Logger) (*Renderer, error) {
	if form.IsDraft() {
		return nil, ErrDraftForm
	}

	return &Renderer{
		form:    form.Clone(),
		api:     api,
		log:     logger.OrNop(log),
		answers: domain.AnswerSet{},
	}, nil
}

// LoadRenderer fetches the schema and instantiates a renderer for it. A fetch
// failure means there is nothing to render.
func LoadRenderer(ctx context.Context, catalog *FormCatalog, id domain.ID, api FormsAPI, log logger.Logger) (*Renderer, error) {
	form, err := catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewRenderer(form, api, log)
}

func (r *Renderer) Form() domain.FormModel {
	return r.form.Clone()
}

func (r *Renderer) SetAnswer(fieldID domain.ID, answer domain.Answer) error {
	field, ok := r.form.FieldByID(fieldID)
	if !ok {
		return fmt.Errorf("setting answer: %w: %s", domain.ErrFieldNotFound, fieldID)
	}
	if answer.Kind() != field.Type {
		return fmt.Errorf("setting answer for %s: %w: got %s, want %s", fieldID, domain.ErrAnswerTypeMismatch, answer.Kind(), field.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers[fieldID] = answer
	return nil
}

// ToggleOption checks or unchecks one option of a checkbox field.
func (r *Renderer) ToggleOption(fieldID, optionID domain.ID, checked bool) error {
	field, ok := r.form.FieldByID(fieldID)
	if !ok {
		return fmt.Errorf("toggling option: %w: %s", domain.ErrFieldNotFound, fieldID)
	}
	if field.Type != domain.FieldTypeCheckbox {
		return fmt.Errorf("toggling option on %s: %w", fieldID, domain.ErrAnswerTypeMismatch)
	}
	if !field.HasOption(optionID) {
		return fmt.Errorf("toggling option on %s: %w: %s", fieldID, domain.ErrOptionNotFound, optionID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers[fieldID] = r.answers[fieldID].Toggle(optionID, checked)
	return nil
}

func (r *Renderer) ClearAnswer(fieldID domain.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.answers, fieldID)
}

func (r *Renderer) Answers() domain.AnswerSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answers.Clone()
}

// CanSubmit holds iff every field accepts its current answer.
func (r *Renderer) CanSubmit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canSubmit()
}

func (r *Renderer) Problems() []domain.ValidationError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.CheckAnswers(r.form, r.answers)
}

func (r *Renderer) Submitting() bool {
	return r.submitting.Load()
}

// Submit sends the current answers once. While a submission is outstanding
// further calls return ErrSubmitInFlight without touching the network. On
// success the answers are cleared; on failure they are kept for a retry.
func (r *Renderer) Submit(ctx context.Context) (string, error) {
	if !r.CanSubmit() {
		return "", ErrNotSubmittable
	}
	if !r.submitting.CompareAndSwap(false, true) {
		return "", ErrSubmitInFlight
	}
	defer r.submitting.Store(false)

	ctx, span := otel.Tracer("form-renderer").Start(ctx, "submit-response")
	defer span.End()
	span.SetAttributes(attribute.String("form.id", r.form.ID.String()))

	answers := r.Answers()
	if err := r.api.SubmitResponse(ctx, r.form.ID, answers); err != nil {
		span.RecordError(err)
		r.log.Warnw("submitting response failed", "form_id", r.form.ID, "error", err)
		return "", fmt.Errorf("submitting response: %w", err)
	}

	r.mu.Lock()
	r.answers = domain.AnswerSet{}
	r.mu.Unlock()

	r.log.Infow("response submitted", "form_id", r.form.ID, "answers", len(answers))

	return SubmitSuccessMessage, nil
}

func (r *Renderer) canSubmit() bool {
	for _, f := range r.form.Fields {
		a, present := r.answers.Lookup(f.ID)
		if !domain.IsAnswerValid(f, a, present) {
			return false
		}
	}
	return true
}
