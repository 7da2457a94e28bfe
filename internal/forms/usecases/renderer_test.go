package usecases_test

import (
	"context"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/usecases"
	mockusecases "formflow/test/unit/doubles/forms/usecases"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

func surveyForm() domain.FormModel {
	lo, hi := 1, 5
	return domain.FormModel{
		ID:    "form-survey",
		Title: "Survey",
		Fields: []domain.Field{
			{ID: "f_rate", Type: domain.FieldTypeRating, Label: "Rate us", Required: true, MinRating: &lo, MaxRating: &hi},
		},
	}
}

func signupForm() domain.FormModel {
	return domain.FormModel{
		ID:    "form-signup",
		Title: "Signup",
		Fields: []domain.Field{
			{ID: "f_name", Type: domain.FieldTypeText, Label: "Name", Required: true},
			{ID: "f_plan", Type: domain.FieldTypeMultipleChoice, Label: "Plan", Required: true, Options: []domain.FieldOption{
				{ID: "opt_free", Label: "Free"}, {ID: "opt_pro", Label: "Pro"},
			}},
			{ID: "f_topics", Type: domain.FieldTypeCheckbox, Label: "Topics", Required: true, Options: []domain.FieldOption{
				{ID: "opt_go", Label: "Go"}, {ID: "opt_ops", Label: "Ops"},
			}},
			{ID: "f_notes", Type: domain.FieldTypeText, Label: "Notes"},
		},
	}
}

var _ = ginkgo.Describe("Renderer", func() {
	var (
		ctrl    *gomock.Controller
		mockAPI *mockusecases.MockFormsAPI
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		mockAPI = mockusecases.NewMockFormsAPI(ctrl)
	})

	ginkgo.AfterEach(func() {
		ctrl.Finish()
	})

	ginkgo.It("refuses to render a draft", func() {
		_, err := usecases.NewRenderer(domain.FormModel{Title: "Draft"}, mockAPI, nil)
		gomega.Expect(err).To(gomega.MatchError(usecases.ErrDraftForm))
	})

	ginkgo.It("enables submission once the required rating is answered", func() {
		r, err := usecases.NewRenderer(surveyForm(), mockAPI, nil)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Expect(r.CanSubmit()).To(gomega.BeFalse())

		gomega.Expect(r.SetAnswer("f_rate", domain.RatingAnswer(4))).To(gomega.Succeed())
		gomega.Expect(r.CanSubmit()).To(gomega.BeTrue())
	})

	ginkgo.It("flips CanSubmit only when the last required field is filled", func() {
		r, _ := usecases.NewRenderer(signupForm(), mockAPI, nil)

		steps := []func() error{
			func() error { return r.SetAnswer("f_notes", domain.TextAnswer("optional")) },
			func() error { return r.SetAnswer("f_name", domain.TextAnswer("Ada")) },
			func() error { return r.SetAnswer("f_plan", domain.ChoiceAnswer("opt_pro")) },
			func() error { return r.ToggleOption("f_topics", "opt_go", true) },
		}
		var seen []bool
		for _, step := range steps {
			gomega.Expect(step()).To(gomega.Succeed())
			seen = append(seen, r.CanSubmit())
		}

		gomega.Expect(seen).To(gomega.Equal([]bool{false, false, false, true}))
		gomega.Expect(r.Problems()).To(gomega.BeEmpty())

		gomega.Expect(r.ToggleOption("f_topics", "opt_go", false)).To(gomega.Succeed())
		gomega.Expect(r.CanSubmit()).To(gomega.BeFalse())
		gomega.Expect(r.Problems()).To(gomega.HaveLen(1))
	})

	ginkgo.It("rejects answers of the wrong kind or for unknown fields", func() {
		r, _ := usecases.NewRenderer(signupForm(), mockAPI, nil)

		gomega.Expect(r.SetAnswer("f_name", domain.RatingAnswer(3))).To(gomega.MatchError(domain.ErrAnswerTypeMismatch))
		gomega.Expect(r.SetAnswer("f_missing", domain.TextAnswer("x"))).To(gomega.MatchError(domain.ErrFieldNotFound))
		gomega.Expect(r.ToggleOption("f_plan", "opt_pro", true)).To(gomega.MatchError(domain.ErrAnswerTypeMismatch))
		gomega.Expect(r.ToggleOption("f_topics", "opt_rust", true)).To(gomega.MatchError(domain.ErrOptionNotFound))
		gomega.Expect(r.Answers()).To(gomega.BeEmpty())
	})

	ginkgo.It("does not touch the network while the form is invalid", func() {
		r, _ := usecases.NewRenderer(surveyForm(), mockAPI, nil)

		_, err := r.Submit(context.Background())

		gomega.Expect(err).To(gomega.MatchError(usecases.ErrNotSubmittable))
	})

	ginkgo.It("clears answers after a successful submission", func() {
		r, _ := usecases.NewRenderer(surveyForm(), mockAPI, nil)
		_ = r.SetAnswer("f_rate", domain.RatingAnswer(4))

		mockAPI.EXPECT().
			SubmitResponse(gomock.Any(), domain.ID("form-survey"), domain.AnswerSet{"f_rate": domain.RatingAnswer(4)}).
			Return(nil)

		msg, err := r.Submit(context.Background())

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(msg).To(gomega.Equal(usecases.SubmitSuccessMessage))
		gomega.Expect(r.Answers()).To(gomega.BeEmpty())
		gomega.Expect(r.Submitting()).To(gomega.BeFalse())
	})

	ginkgo.It("keeps answers after a failed submission so it can be retried", func() {
		r, _ := usecases.NewRenderer(surveyForm(), mockAPI, nil)
		_ = r.SetAnswer("f_rate", domain.RatingAnswer(2))

		gomock.InOrder(
			mockAPI.EXPECT().SubmitResponse(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(&usecases.WriteError{Op: "submit response", StatusCode: 400, Detail: "closed"}),
			mockAPI.EXPECT().SubmitResponse(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil),
		)

		_, err := r.Submit(context.Background())
		gomega.Expect(err).To(gomega.MatchError(usecases.ErrWriteFailed))
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("closed"))
		gomega.Expect(r.Answers()).To(gomega.Equal(domain.AnswerSet{"f_rate": domain.RatingAnswer(2)}))
		gomega.Expect(r.Submitting()).To(gomega.BeFalse())

		_, err = r.Submit(context.Background())
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})

	ginkgo.It("writes once when submit is issued twice in a row", func() {
		r, _ := usecases.NewRenderer(surveyForm(), mockAPI, nil)
		_ = r.SetAnswer("f_rate", domain.RatingAnswer(5))

		entered := make(chan struct{})
		release := make(chan struct{})
		mockAPI.EXPECT().SubmitResponse(gomock.Any(), gomock.Any(), gomock.Any()).Times(1).DoAndReturn(
			func(context.Context, domain.ID, domain.AnswerSet) error {
				close(entered)
				<-release
				return nil
			})

		done := make(chan error, 1)
		go func() {
			_, err := r.Submit(context.Background())
			done <- err
		}()
		<-entered

		gomega.Expect(r.Submitting()).To(gomega.BeTrue())
		_, err := r.Submit(context.Background())
		gomega.Expect(err).To(gomega.MatchError(usecases.ErrSubmitInFlight))

		close(release)
		gomega.Eventually(done).Should(gomega.Receive(gomega.BeNil()))
		gomega.Expect(r.Submitting()).To(gomega.BeFalse())
	})

	ginkgo.It("loads the schema through the catalog", func() {
		mockAPI.EXPECT().GetForm(gomock.Any(), domain.ID("form-survey")).Return(surveyForm(), nil)

		r, err := usecases.LoadRenderer(context.Background(), usecases.NewFormCatalog(mockAPI, nil), "form-survey", mockAPI, nil)

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(r.Form().Title).To(gomega.Equal(domain.Title("Survey")))
	})

	ginkgo.It("cannot render when the schema fetch fails", func() {
		mockAPI.EXPECT().GetForm(gomock.Any(), gomock.Any()).Return(domain.FormModel{}, &usecases.FetchError{Op: "get form", StatusCode: 404})

		r, err := usecases.LoadRenderer(context.Background(), usecases.NewFormCatalog(mockAPI, nil), "nope", mockAPI, nil)

		gomega.Expect(r).To(gomega.BeNil())
		gomega.Expect(err).To(gomega.MatchError(usecases.ErrFetchFailed))
	})
})
