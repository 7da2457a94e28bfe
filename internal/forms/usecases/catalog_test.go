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

var _ = ginkgo.Describe("FormCatalog", func() {
	var (
		ctrl      *gomock.Controller
		mockAPI   *mockusecases.MockFormsAPI
		mockCache *mockusecases.MockFormCache
		catalog   *usecases.FormCatalog
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		mockAPI = mockusecases.NewMockFormsAPI(ctrl)
		mockCache = mockusecases.NewMockFormCache(ctrl)
		catalog = usecases.NewFormCatalog(mockAPI, mockCache)
	})

	ginkgo.AfterEach(func() {
		ctrl.Finish()
	})

	ginkgo.It("loads through the cache under the form key", func() {
		mockCache.EXPECT().GetOrLoad(gomock.Any(), "form:form-1", gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ string, loader func(context.Context) (domain.FormModel, error)) (domain.FormModel, error) {
				return loader(ctx)
			})
		mockAPI.EXPECT().GetForm(gomock.Any(), domain.ID("form-1")).Return(surveyForm(), nil)

		form, err := catalog.Get(context.Background(), "form-1")

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(form.Title).To(gomega.Equal(domain.Title("Survey")))
	})

	ginkgo.It("serves a cached schema without calling the backend", func() {
		cached := surveyForm()
		mockCache.EXPECT().GetOrLoad(gomock.Any(), "form:form-survey", gomock.Any()).Return(cached, nil)

		form, err := catalog.Get(context.Background(), "form-survey")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		form.Fields[0].Label = "changed"
		gomega.Expect(cached.Fields[0].Label).To(gomega.Equal(domain.Label("Rate us")))
	})

	ginkgo.It("propagates load failures", func() {
		mockCache.EXPECT().GetOrLoad(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ string, loader func(context.Context) (domain.FormModel, error)) (domain.FormModel, error) {
				return loader(ctx)
			})
		mockAPI.EXPECT().GetForm(gomock.Any(), gomock.Any()).Return(domain.FormModel{}, &usecases.FetchError{Op: "get form", StatusCode: 404})

		_, err := catalog.Get(context.Background(), "missing")

		gomega.Expect(err).To(gomega.MatchError(usecases.ErrFetchFailed))
	})

	ginkgo.It("invalidates the form key", func() {
		mockCache.EXPECT().Invalidate(gomock.Any(), "form:form-1")

		catalog.Invalidate(context.Background(), "form-1")
	})

	ginkgo.It("goes straight to the backend without a cache", func() {
		mockAPI.EXPECT().GetForm(gomock.Any(), domain.ID("form-1")).Return(surveyForm(), nil).Times(2)
		uncached := usecases.NewFormCatalog(mockAPI, nil)

		_, err := uncached.Get(context.Background(), "form-1")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		_, err = uncached.Get(context.Background(), "form-1")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		uncached.Invalidate(context.Background(), "form-1")
	})
})
