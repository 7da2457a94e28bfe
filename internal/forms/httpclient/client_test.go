package httpclient_test

import (
	"context"
	"encoding/json"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/httpclient"
	"formflow/internal/forms/usecases"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	Header http.Header
}

var _ = ginkgo.Describe("Client", func() {
	var (
		server   *httptest.Server
		client   *httpclient.Client
		requests chan recordedRequest
		handler  http.HandlerFunc
	)

	ginkgo.BeforeEach(func() {
		requests = make(chan recordedRequest, 4)
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			requests <- recordedRequest{Method: r.Method, Path: r.URL.EscapedPath(), Query: r.URL.RawQuery, Body: string(body), Header: r.Header.Clone()}
			handler(w, r)
		}))
		client = httpclient.NewClient(httpclient.Config{BaseURL: server.URL + "/", Timeout: 2 * time.Second})
	})

	ginkgo.AfterEach(func() {
		server.Close()
	})

	reply := func(status int, body string) {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		}
	}

	ginkgo.It("trims the trailing slash of the base URL", func() {
		gomega.Expect(client.BaseURL()).To(gomega.Equal(server.URL))
	})

	ginkgo.It("falls back to the local default", func() {
		gomega.Expect(httpclient.NewClient(httpclient.Config{}).BaseURL()).To(gomega.Equal(httpclient.DefaultBaseURL))
	})

	ginkgo.Context("CreateForm", func() {
		ginkgo.It("posts title and fields and returns the persisted form", func() {
			reply(http.StatusCreated, `{"id":"form-1","title":"Survey","fields":[{"id":"f1","type":"rating","label":"Rate us","required":true,"minRating":1,"maxRating":5}],"createdAt":1700000000}`)
			lo, hi := 1, 5

			created, err := client.CreateForm(context.Background(), domain.FormModel{
				Title:  "Survey",
				Fields: []domain.Field{{ID: "f1", Type: domain.FieldTypeRating, Label: "Rate us", Required: true, MinRating: &lo, MaxRating: &hi}},
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(created.ID).To(gomega.Equal(domain.ID("form-1")))
			gomega.Expect(*created.Fields[0].MaxRating).To(gomega.Equal(5))
			gomega.Expect(created.CreatedAt.Unix()).To(gomega.Equal(int64(1700000000)))

			var req recordedRequest
			gomega.Expect(requests).To(gomega.Receive(&req))
			gomega.Expect(req.Method).To(gomega.Equal(http.MethodPost))
			gomega.Expect(req.Path).To(gomega.Equal("/api/forms"))
			gomega.Expect(req.Header.Get("Content-Type")).To(gomega.Equal("application/json"))
			gomega.Expect(req.Body).To(gomega.MatchJSON(`{"title":"Survey","fields":[{"id":"f1","type":"rating","label":"Rate us","required":true,"minRating":1,"maxRating":5}]}`))
		})

		ginkgo.It("treats a response without an id as a failed write", func() {
			reply(http.StatusOK, `{"title":"Survey"}`)

			_, err := client.CreateForm(context.Background(), domain.FormModel{Title: "Survey"})

			gomega.Expect(err).To(gomega.MatchError(usecases.ErrWriteFailed))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("no form id"))
		})

		ginkgo.It("surfaces the backend message on rejection", func() {
			reply(http.StatusBadRequest, `{"message":"title is required"}`)

			_, err := client.CreateForm(context.Background(), domain.FormModel{})

			var writeErr *usecases.WriteError
			gomega.Expect(err).To(gomega.BeAssignableToTypeOf(writeErr))
			writeErr = err.(*usecases.WriteError)
			gomega.Expect(writeErr.StatusCode).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(writeErr.Detail).To(gomega.Equal("title is required"))
		})
	})

	ginkgo.Context("reads", func() {
		ginkgo.It("fetches a form by escaped id", func() {
			reply(http.StatusOK, `{"id":"a b","title":"Spaces","fields":[]}`)

			form, err := client.GetForm(context.Background(), "a b")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(form.Title).To(gomega.Equal(domain.Title("Spaces")))
			var req recordedRequest
			gomega.Expect(requests).To(gomega.Receive(&req))
			gomega.Expect(req.Path).To(gomega.Equal("/api/forms/a%20b"))
		})

		ginkgo.It("lists forms with the limit in the query", func() {
			reply(http.StatusOK, `[{"id":"b","title":"B"},{"id":"a","title":"A"}]`)

			forms, err := client.ListForms(context.Background(), 25)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(forms).To(gomega.HaveLen(2))
			gomega.Expect(forms[0].ID).To(gomega.Equal(domain.ID("b")))
			var req recordedRequest
			gomega.Expect(requests).To(gomega.Receive(&req))
			gomega.Expect(req.Path).To(gomega.Equal("/api/forms"))
			gomega.Expect(req.Query).To(gomega.Equal("limit=25"))
		})

		ginkgo.It("returns an empty, non-nil list for an empty backend", func() {
			reply(http.StatusOK, `[]`)

			forms, err := client.ListForms(context.Background(), 10)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(forms).NotTo(gomega.BeNil())
			gomega.Expect(forms).To(gomega.BeEmpty())
		})

		ginkgo.It("fetches analytics", func() {
			reply(http.StatusOK, `{"formId":"form-1","fields":[{"fieldId":"f1","type":"multiple_choice","label":"Color","counts":{"Red":2},"count":2}],"totalResponses":2}`)

			snap, err := client.GetAnalytics(context.Background(), "form-1")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(snap.TotalResponses).To(gomega.Equal(2))
			gomega.Expect(snap.Fields[0].Counts).To(gomega.HaveKeyWithValue("Red", 2))
			var req recordedRequest
			gomega.Expect(requests).To(gomega.Receive(&req))
			gomega.Expect(req.Path).To(gomega.Equal("/api/forms/form-1/analytics"))
		})

		ginkgo.DescribeTable("extracts the failure detail",
			func(body, want string) {
				reply(http.StatusNotFound, body)

				_, err := client.GetForm(context.Background(), "missing")

				gomega.Expect(err).To(gomega.MatchError(usecases.ErrFetchFailed))
				fetchErr := err.(*usecases.FetchError)
				gomega.Expect(fetchErr.StatusCode).To(gomega.Equal(http.StatusNotFound))
				gomega.Expect(fetchErr.Message).To(gomega.Equal(want))
			},
			ginkgo.Entry("message field", `{"message":"form not found","error":"ignored"}`, "form not found"),
			ginkgo.Entry("error field", `{"error":"not_found"}`, "not_found"),
			ginkgo.Entry("raw body", "gone fishing\n", "gone fishing"),
		)

		ginkgo.It("reports an undecodable body as a fetch failure", func() {
			reply(http.StatusOK, `{"id":`)

			_, err := client.GetForm(context.Background(), "form-1")

			gomega.Expect(err).To(gomega.MatchError(usecases.ErrFetchFailed))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("decoding response"))
		})

		ginkgo.It("reports an unreachable backend with a non-empty message", func() {
			unreachable := httptest.NewServer(http.NotFoundHandler())
			unreachable.Close()
			c := httpclient.NewClient(httpclient.Config{BaseURL: unreachable.URL})

			forms, err := c.ListForms(context.Background(), 10)

			gomega.Expect(forms).To(gomega.BeNil())
			gomega.Expect(err).To(gomega.MatchError(usecases.ErrFetchFailed))
			gomega.Expect(err.Error()).NotTo(gomega.BeEmpty())
			gomega.Expect(err.(*usecases.FetchError).StatusCode).To(gomega.BeZero())
		})
	})

	ginkgo.Context("SubmitResponse", func() {
		ginkgo.It("posts the answers keyed by field id", func() {
			err := client.SubmitResponse(context.Background(), "form-1", domain.AnswerSet{
				"f_name":   domain.TextAnswer("Ada"),
				"f_topics": domain.CheckboxAnswer("opt_go"),
				"f_rate":   domain.RatingAnswer(4),
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			var req recordedRequest
			gomega.Expect(requests).To(gomega.Receive(&req))
			gomega.Expect(req.Path).To(gomega.Equal("/api/forms/form-1/responses"))

			var body map[string]map[string]json.RawMessage
			gomega.Expect(json.Unmarshal([]byte(req.Body), &body)).To(gomega.Succeed())
			gomega.Expect(body["answers"]).To(gomega.HaveLen(3))
			gomega.Expect(string(body["answers"]["f_topics"])).To(gomega.Equal(`["opt_go"]`))
		})

		ginkgo.It("reports a rejected submission as a failed write", func() {
			reply(http.StatusUnprocessableEntity, `{"error":"form closed"}`)

			err := client.SubmitResponse(context.Background(), "form-1", domain.AnswerSet{})

			gomega.Expect(err).To(gomega.MatchError(usecases.ErrWriteFailed))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("form closed"))
		})
	})

	ginkgo.It("asks for JSON", func() {
		_, _ = client.ListForms(context.Background(), 1)

		var req recordedRequest
		gomega.Expect(requests).To(gomega.Receive(&req))
		gomega.Expect(req.Header.Get("Accept")).To(gomega.Equal("application/json"))
	})
})
