package usecases

//go:generate mockgen -source=api_port.go -destination=../../../test/unit/doubles/forms/usecases/api_port_mock.go -package=usecases -mock_names=FormsAPI=MockFormsAPI,SnapshotStreamDialer=MockSnapshotStreamDialer,SnapshotStream=MockSnapshotStream,FormCache=MockFormCache

import (
	"context"
	"formflow/internal/forms/domain"
)

// StreamGreeting is the first frame written after the stream opens.
const StreamGreeting = "hello"

// FormsAPI is the backend's HTTP boundary.
type FormsAPI interface {
	CreateForm(ctx context.Context, form domain.FormModel) (domain.FormModel, error)
	GetForm(ctx context.Context, id domain.ID) (domain.FormModel, error)
	ListForms(ctx context.Context, limit int) ([]domain.FormModel, error)
	GetAnalytics(ctx context.Context, id domain.ID) (domain.AnalyticsSnapshot, error)
	SubmitResponse(ctx context.Context, id domain.ID, answers domain.AnswerSet) error
}

// SnapshotStreamDialer opens the push channel of a single form.
type SnapshotStreamDialer interface {
	Dial(ctx context.Context, formID domain.ID) (SnapshotStream, error)
}

// SnapshotStream carries whole analytics snapshots as text frames. Close must
// be safe to call more than once and concurrently with Receive.
type SnapshotStream interface {
	Send(ctx context.Context, message string) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// FormCache memoizes fetched schemas.
type FormCache interface {
	GetOrLoad(ctx context.Context, key string, loader func(ctx context.Context) (domain.FormModel, error)) (domain.FormModel, error)
	Invalidate(ctx context.Context, key string)
}
