package usecases

import (
	"context"
	"formflow/internal/forms/domain"
)

// FormCatalog fetches persisted schemas through a cache so that reopening a
// form does not hit the backend again.
type FormCatalog struct {
	api   FormsAPI
	cache FormCache
}

func NewFormCatalog(api FormsAPI, cache FormCache) *FormCatalog {
	return &FormCatalog{api: api, cache: cache}
}

func (c *FormCatalog) Get(ctx context.Context, id domain.ID) (domain.FormModel, error) {
	if c.cache == nil {
		return c.api.GetForm(ctx, id)
	}

	form, err := c.cache.GetOrLoad(ctx, cacheKey(id), func(ctx context.Context) (domain.FormModel, error) {
		return c.api.GetForm(ctx, id)
	})
	if err != nil {
		return domain.FormModel{}, err
	}

	return form.Clone(), nil
}

func (c *FormCatalog) Invalidate(ctx context.Context, id domain.ID) {
	if c.cache != nil {
		c.cache.Invalidate(ctx, cacheKey(id))
	}
}

func cacheKey(id domain.ID) string {
	return "form:" + id.String()
}
