package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/httpclient/internal"
	"formflow/internal/forms/usecases"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/propagators/b3"
)

const _maxErrorBody = 4096

type Config struct {
	BaseURL string
	Timeout time.Duration
}

var _ usecases.FormsAPI = (*Client)(nil)

// Client talks to the forms backend over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(config Config) *Client {
	initMetrics()

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(
				http.DefaultTransport,
				otelhttp.WithPropagators(b3.New()),
			),
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) CreateForm(ctx context.Context, form domain.FormModel) (domain.FormModel, error) {
	const op = "create form"

	var created internal.FormResponse
	status, err := c.do(ctx, op, http.MethodPost, "/api/forms", internal.ToFormCreateRequest(form), &created)
	if err != nil {
		return domain.FormModel{}, writeError(op, status, err)
	}
	if created.ID == "" {
		return domain.FormModel{}, &usecases.WriteError{Op: op, StatusCode: status, Detail: "response carries no form id"}
	}

	return internal.ToDomainForm(created), nil
}

func (c *Client) GetForm(ctx context.Context, id domain.ID) (domain.FormModel, error) {
	const op = "fetch form"

	var form internal.FormResponse
	status, err := c.do(ctx, op, http.MethodGet, "/api/forms/"+url.PathEscape(id.String()), nil, &form)
	if err != nil {
		return domain.FormModel{}, fetchError(op, status, err)
	}

	return internal.ToDomainForm(form), nil
}

func (c *Client) ListForms(ctx context.Context, limit int) ([]domain.FormModel, error) {
	const op = "list forms"

	var page []internal.FormResponse
	path := "/api/forms?limit=" + strconv.Itoa(limit)
	status, err := c.do(ctx, op, http.MethodGet, path, nil, &page)
	if err != nil {
		return nil, fetchError(op, status, err)
	}

	forms := make([]domain.FormModel, 0, len(page))
	for _, f := range page {
		forms = append(forms, internal.ToDomainForm(f))
	}

	return forms, nil
}

func (c *Client) GetAnalytics(ctx context.Context, id domain.ID) (domain.AnalyticsSnapshot, error) {
	const op = "fetch analytics"

	var snapshot domain.AnalyticsSnapshot
	path := "/api/forms/" + url.PathEscape(id.String()) + "/analytics"
	status, err := c.do(ctx, op, http.MethodGet, path, nil, &snapshot)
	if err != nil {
		return domain.AnalyticsSnapshot{}, fetchError(op, status, err)
	}

	return snapshot, nil
}

func (c *Client) SubmitResponse(ctx context.Context, id domain.ID, answers domain.AnswerSet) error {
	const op = "submit response"

	path := "/api/forms/" + url.PathEscape(id.String()) + "/responses"
	status, err := c.do(ctx, op, http.MethodPost, path, internal.SubmitResponseRequest{Answers: answers}, nil)
	if err != nil {
		return writeError(op, status, err)
	}

	return nil
}

// statusError carries the decoded body of a non-2xx response.
type statusError struct {
	detail string
}

func (e *statusError) Error() string {
	return e.detail
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		recordCall(ctx, op, 0, start)
		return 0, err
	}
	defer resp.Body.Close()
	recordCall(ctx, op, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, _maxErrorBody))
		return resp.StatusCode, &statusError{detail: errorDetail(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}

	return resp.StatusCode, nil
}

// errorDetail prefers the backend's {"message": ...}, then {"error": ...},
// then the raw body.
func errorDetail(raw []byte) string {
	var body internal.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func fetchError(op string, status int, err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return &usecases.FetchError{Op: op, StatusCode: status, Message: se.detail}
	}
	return &usecases.FetchError{Op: op, StatusCode: status, Err: err}
}

func writeError(op string, status int, err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return &usecases.WriteError{Op: op, StatusCode: status, Detail: se.detail}
	}
	return &usecases.WriteError{Op: op, StatusCode: status, Err: err}
}
