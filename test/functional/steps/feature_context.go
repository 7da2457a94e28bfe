package steps

import (
	"context"
	"fmt"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/httpclient"
	"formflow/internal/forms/stream"
	"formflow/internal/forms/usecases"
	"formflow/test/functional/driver"
	"time"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/require"
)

const (
	_eventuallyWait = 2 * time.Second
	_eventuallyTick = 10 * time.Millisecond
)

type FeatureContext struct {
	backend    *driver.Backend
	backendURL string
	api        *httpclient.Client
	dialer     *stream.Dialer

	builder   *usecases.FormBuilder
	renderer  *usecases.Renderer
	directory usecases.DirectoryView
	liveView  *usecases.LiveView
	formID    string
	message   string
	lastErr   error

	require *require.Assertions
	t       godog.TestingT
}

func NewFeatureContext() *FeatureContext {
	return &FeatureContext{}
}

func (fc *FeatureContext) RegisterSteps(ctx *godog.ScenarioContext) {
	// Backend steps
	ctx.Given(`^a forms backend$`, fc.aFormsBackend)
	ctx.Given(`^an unreachable forms backend$`, fc.anUnreachableFormsBackend)
	ctx.Given(`^a forms backend that rejects writes with "([^"]*)"$`, fc.aFormsBackendThatRejectsWritesWith)
	ctx.Given(`^the backend rejects writes with "([^"]*)"$`, fc.theBackendRejectsWritesWith)
	ctx.Given(`^a persisted form "([^"]*)" with a required "([^"]*)" field "([^"]*)"$`, fc.aPersistedFormWithARequiredField)
	ctx.Then(`^the operation fails with "([^"]*)"$`, fc.theOperationFailsWith)

	// Builder steps
	ctx.When(`^I start a new form titled "([^"]*)"$`, fc.iStartANewFormTitled)
	ctx.When(`^I add a "([^"]*)" field labelled "([^"]*)"$`, fc.iAddAFieldLabelled)
	ctx.When(`^I add a required "([^"]*)" field labelled "([^"]*)"$`, fc.iAddARequiredFieldLabelled)
	ctx.When(`^I move the field at (\d+) to (\d+)$`, fc.iMoveTheFieldAtTo)
	ctx.When(`^I save the form$`, fc.iSaveTheForm)
	ctx.Then(`^the field labels are "([^"]*)"$`, fc.theFieldLabelsAre)
	ctx.Then(`^the backend stores a form titled "([^"]*)" with (\d+) fields?$`, fc.theBackendStoresAFormTitledWithFields)
	ctx.Then(`^the builder is saved with the backend id$`, fc.theBuilderIsSavedWithTheBackendID)
	ctx.Then(`^the builder is still a draft titled "([^"]*)" with (\d+) fields?$`, fc.theBuilderIsStillADraftTitledWithFields)

	// Renderer steps
	ctx.When(`^I open the form$`, fc.iOpenTheForm)
	ctx.When(`^I answer "([^"]*)" with "([^"]*)"$`, fc.iAnswerWith)
	ctx.When(`^I submit the form$`, fc.iSubmitTheForm)
	ctx.Then(`^the form cannot be submitted$`, fc.theFormCannotBeSubmitted)
	ctx.Then(`^the form can be submitted$`, fc.theFormCanBeSubmitted)
	ctx.Then(`^I am told "([^"]*)"$`, fc.iAmTold)
	ctx.Then(`^the backend received (\d+) responses?$`, fc.theBackendReceivedResponses)
	ctx.Then(`^my answers are cleared$`, fc.myAnswersAreCleared)
	ctx.Then(`^my answer to "([^"]*)" is still "([^"]*)"$`, fc.myAnswerToIsStill)

	// Directory steps
	ctx.When(`^I load the forms directory$`, fc.iLoadTheFormsDirectory)
	ctx.Then(`^the directory is empty$`, fc.theDirectoryIsEmpty)
	ctx.Then(`^the directory lists "([^"]*)"$`, fc.theDirectoryLists)
	ctx.Then(`^the directory shows an error$`, fc.theDirectoryShowsAnError)

	// Live view steps
	ctx.Given(`^the backend reports (\d+) responses for the form$`, fc.theBackendReportsResponsesForTheForm)
	ctx.When(`^I watch the form$`, fc.iWatchTheForm)
	ctx.When(`^I stop watching$`, fc.iStopWatching)
	ctx.When(`^the backend pushes a snapshot with (\d+) responses$`, fc.theBackendPushesASnapshotWithResponses)
	ctx.When(`^the backend pushes "([^"]*)"$`, fc.theBackendPushes)
	ctx.Then(`^the live view shows (\d+) responses$`, fc.theLiveViewShowsResponses)
	ctx.Then(`^the backend was greeted with "([^"]*)"$`, fc.theBackendWasGreetedWith)
	ctx.Then(`^(\d+) push(?:es)? (?:was|were) dropped$`, fc.pushesWereDropped)
	ctx.Then(`^the backend sees the stream closed$`, fc.theBackendSeesTheStreamClosed)

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.t = godog.T(ctx)
		fc.require = require.New(fc.t)

		fc.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if fc.liveView != nil {
			fc.liveView.Deactivate()
		}
		if fc.backend != nil {
			fc.backend.Close()
		}
		return ctx, err
	})
}

func (fc *FeatureContext) reset() {
	fc.backend = nil
	fc.backendURL = ""
	fc.api = nil
	fc.dialer = nil
	fc.builder = nil
	fc.renderer = nil
	fc.directory = usecases.DirectoryView{}
	fc.liveView = nil
	fc.formID = ""
	fc.message = ""
	fc.lastErr = nil
}

func (fc *FeatureContext) connect(baseURL string) {
	fc.backendURL = baseURL
	fc.api = httpclient.NewClient(httpclient.Config{BaseURL: baseURL, Timeout: 5 * time.Second})
	fc.dialer = stream.NewDialer(stream.Config{BaseURL: baseURL}, nil)
}

func (fc *FeatureContext) aFormsBackend() error {
	fc.backend = driver.NewBackend()
	fc.connect(fc.backend.URL())
	return nil
}

func (fc *FeatureContext) anUnreachableFormsBackend() error {
	backend := driver.NewBackend()
	url := backend.URL()
	backend.Close()
	fc.connect(url)
	return nil
}

func (fc *FeatureContext) aFormsBackendThatRejectsWritesWith(message string) error {
	if err := fc.aFormsBackend(); err != nil {
		return err
	}
	return fc.theBackendRejectsWritesWith(message)
}

func (fc *FeatureContext) theBackendRejectsWritesWith(message string) error {
	fc.backend.RejectWrites(message)
	return nil
}

func (fc *FeatureContext) aPersistedFormWithARequiredField(title, fieldType, label string) error {
	field := driver.Field{ID: "field_1", Type: fieldType, Label: label, Required: true}
	switch domain.FieldType(fieldType) {
	case domain.FieldTypeRating:
		lo, hi := domain.DefaultMinRating, domain.DefaultMaxRating
		field.MinRating, field.MaxRating = &lo, &hi
	case domain.FieldTypeMultipleChoice, domain.FieldTypeCheckbox:
		field.Options = []driver.FieldOption{{ID: "opt_1", Label: "Option 1"}, {ID: "opt_2", Label: "Option 2"}}
	}
	fc.formID = fc.backend.SeedForm(title, field)
	return nil
}

func (fc *FeatureContext) theOperationFailsWith(message string) error {
	fc.require.Error(fc.lastErr)
	fc.require.Contains(fc.lastErr.Error(), message)
	return nil
}

func (fc *FeatureContext) fieldByLabel(form domain.FormModel, label string) (domain.Field, error) {
	for _, f := range form.Fields {
		if string(f.Label) == label {
			return f, nil
		}
	}
	return domain.Field{}, fmt.Errorf("no field labelled %q", label)
}
