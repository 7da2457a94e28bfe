//go:build wireinject
// +build wireinject

package wire

import (
	"formflow/internal/forms/domain"
	"formflow/internal/forms/usecases"

	"github.com/google/wire"
)

func InitializeServices() (*Services, error) {
	wire.Build(
		provideAppConfig,
		provideLogger,
		ClientSet,
		provideIDGenerator,
		provideFormCache,
		usecases.NewFormCatalog,
		usecases.NewDirectory,
		wire.Struct(new(Services), "*"),
	)
	return nil, nil
}

func InitializeFormBuilder(initial *domain.FormModel) (*usecases.FormBuilder, error) {
	wire.Build(
		provideAppConfig,
		provideLogger,
		ClientSet,
		provideIDGenerator,
		usecases.NewFormBuilder,
	)
	return nil, nil
}

func InitializeLiveView(formID domain.ID, observer usecases.LiveViewObserver) (*usecases.LiveView, error) {
	wire.Build(
		provideAppConfig,
		provideLogger,
		ClientSet,
		usecases.NewLiveView,
	)
	return nil, nil
}
