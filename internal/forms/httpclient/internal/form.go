package internal

import (
	"formflow/internal/forms/domain"
	"time"
)

type FieldOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Field struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Label       string        `json:"label"`
	Required    bool          `json:"required"`
	Placeholder *string       `json:"placeholder,omitempty"`
	Options     []FieldOption `json:"options,omitempty"`
	MinRating   *int          `json:"minRating,omitempty"`
	MaxRating   *int          `json:"maxRating,omitempty"`
}

// FormCreateRequest is the body of POST /api/forms.
type FormCreateRequest struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

type FormResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Fields    []Field `json:"fields"`
	CreatedAt int64   `json:"createdAt,omitempty"`
	UpdatedAt int64   `json:"updatedAt,omitempty"`
}

type SubmitResponseRequest struct {
	Answers domain.AnswerSet `json:"answers"`
}

type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ToFormCreateRequest(form domain.FormModel) FormCreateRequest {
	fields := make([]Field, len(form.Fields))
	for i, f := range form.Fields {
		fields[i] = fromDomainField(f)
	}
	return FormCreateRequest{Title: string(form.Title), Fields: fields}
}

func ToDomainForm(r FormResponse) domain.FormModel {
	fields := make([]domain.Field, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = toDomainField(f)
	}
	return domain.FormModel{
		ID:        domain.ID(r.ID),
		Title:     domain.Title(r.Title),
		Fields:    fields,
		CreatedAt: unixPtr(r.CreatedAt),
		UpdatedAt: unixPtr(r.UpdatedAt),
	}
}

func fromDomainField(f domain.Field) Field {
	out := Field{
		ID:          string(f.ID),
		Type:        string(f.Type),
		Label:       string(f.Label),
		Required:    f.Required,
		Placeholder: f.Placeholder,
		MinRating:   f.MinRating,
		MaxRating:   f.MaxRating,
	}
	if len(f.Options) > 0 {
		out.Options = make([]FieldOption, len(f.Options))
		for i, o := range f.Options {
			out.Options[i] = FieldOption{ID: string(o.ID), Label: string(o.Label)}
		}
	}
	return out
}

func toDomainField(f Field) domain.Field {
	out := domain.Field{
		ID:          domain.ID(f.ID),
		Type:        domain.FieldType(f.Type),
		Label:       domain.Label(f.Label),
		Required:    f.Required,
		Placeholder: f.Placeholder,
		MinRating:   f.MinRating,
		MaxRating:   f.MaxRating,
	}
	if len(f.Options) > 0 {
		out.Options = make([]domain.FieldOption, len(f.Options))
		for i, o := range f.Options {
			out.Options[i] = domain.FieldOption{ID: domain.ID(o.ID), Label: domain.Label(o.Label)}
		}
	}
	return out
}

func unixPtr(seconds int64) *time.Time {
	if seconds == 0 {
		return nil
	}
	t := time.Unix(seconds, 0).UTC()
	return &t
}
