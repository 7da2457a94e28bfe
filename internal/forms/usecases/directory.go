package usecases

import (
	"context"
	"errors"
	"fmt"
	"formflow/internal/forms/domain"
	"formflow/internal/logger"
)

const DefaultListLimit = 100

type DirectoryState string

const (
	DirectoryLoaded DirectoryState = "loaded"
	DirectoryEmpty  DirectoryState = "empty"
	DirectoryFailed DirectoryState = "failed"
)

// DirectoryView is what a forms list screen renders: a list, an empty state
// or an error state, never a mix.
type DirectoryView struct {
	State DirectoryState
	Forms []domain.FormModel
	Error string
}

type AnalyticsLink struct {
	FormID domain.ID
	Name   string
	Path   string
}

type Directory struct {
	api FormsAPI
	log logger.Logger
}

func NewDirectory(api FormsAPI, log logger.Logger) *Directory {
	return &Directory{api: api, log: logger.OrNop(log)}
}

// ListForms returns the form summaries, newest first as the backend orders
// them. An empty backend yields an empty, non-nil slice and no error.
func (d *Directory) ListForms(ctx context.Context, limit int) ([]domain.FormModel, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	forms, err := d.api.ListForms(ctx, limit)
	if err != nil {
		d.log.Warnw("listing forms failed", "limit", limit, "error", err)
		return nil, fmt.Errorf("listing forms: %w", err)
	}
	if forms == nil {
		forms = []domain.FormModel{}
	}

	return forms, nil
}

func (d *Directory) Load(ctx context.Context, limit int) DirectoryView {
	forms, err := d.ListForms(ctx, limit)
	if err != nil {
		return DirectoryView{State: DirectoryFailed, Error: errorMessage(err)}
	}
	if len(forms) == 0 {
		return DirectoryView{State: DirectoryEmpty, Forms: forms}
	}
	return DirectoryView{State: DirectoryLoaded, Forms: forms}
}

// AnalyticsLinks lists where each form's live analytics can be opened,
// labelled by title or, for untitled forms, by id.
func AnalyticsLinks(forms []domain.FormModel) []AnalyticsLink {
	links := make([]AnalyticsLink, 0, len(forms))
	for _, f := range forms {
		if f.IsDraft() {
			continue
		}
		name := string(f.Title)
		if name == "" {
			name = f.ID.String()
		}
		links = append(links, AnalyticsLink{
			FormID: f.ID,
			Name:   name,
			Path:   "/forms/" + f.ID.String() + "/analytics",
		})
	}
	return links
}

func errorMessage(err error) string {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to load forms"
}
