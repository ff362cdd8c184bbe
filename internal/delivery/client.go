package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/kontentsource/internal/config"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
	"git.home.luguber.info/inful/kontentsource/internal/logfields"
	"git.home.luguber.info/inful/kontentsource/internal/retry"
	"git.home.luguber.info/inful/kontentsource/internal/version"
)

// Client is the subset of the Delivery API the sourcing run needs.
type Client interface {
	Taxonomies(ctx context.Context) ([]Taxonomy, error)
	Types(ctx context.Context) ([]ContentType, error)
	Items(ctx context.Context, language string) ([]Item, error)
}

// RetryObserver is notified before a failed request is retried.
type RetryObserver func(resource string, attempt int, err error)

// HTTPClient implements Client against the Delivery REST API.
type HTTPClient struct {
	httpClient *http.Client
	apiURL     string
	token      string
	headers    []config.Header
	pageSize   int
	policy     retry.Policy
	onRetry    RetryObserver
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithRetryObserver registers a callback invoked before each retry.
func WithRetryObserver(fn RetryObserver) Option {
	return func(c *HTTPClient) { c.onRetry = fn }
}

// NewHTTPClient creates a Delivery API client for the configured project.
// The preview endpoint is used when a preview key is set.
func NewHTTPClient(dc config.DeliveryConfig, opts ...Option) (*HTTPClient, error) {
	if strings.TrimSpace(dc.ProjectID) == "" {
		return nil, errors.ConfigError("delivery project_id is required").Build()
	}

	base, token := dc.BaseURL, dc.SecureAPIKey
	if dc.UsePreview() {
		base, token = dc.PreviewURL, dc.PreviewAPIKey
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid delivery base url").
			Fatal().
			WithContext("base_url", base).
			Build()
	}

	pageSize := dc.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	c := &HTTPClient{
		httpClient: &http.Client{Timeout: dc.Timeout},
		apiURL:     strings.TrimSuffix(base, "/") + "/" + url.PathEscape(dc.ProjectID),
		token:      token,
		headers:    dc.Headers,
		pageSize:   pageSize,
		policy:     retry.FromConfig(dc.Retry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Taxonomies lists every taxonomy group of the project.
func (c *HTTPClient) Taxonomies(ctx context.Context) ([]Taxonomy, error) {
	return fetchAll(ctx, c, "taxonomies", nil, func(r *taxonomiesResponse) ([]Taxonomy, Pagination) {
		return r.Taxonomies, r.Pagination
	})
}

// Types lists every content type of the project.
func (c *HTTPClient) Types(ctx context.Context) ([]ContentType, error) {
	return fetchAll(ctx, c, "types", nil, func(r *typesResponse) ([]ContentType, Pagination) {
		return r.Types, r.Pagination
	})
}

// Items lists every content item in the given language.
func (c *HTTPClient) Items(ctx context.Context, language string) ([]Item, error) {
	q := url.Values{}
	q.Set("language", language)
	q.Set("depth", "0")
	return fetchAll(ctx, c, "items", q, func(r *itemsResponse) ([]Item, Pagination) {
		return r.Items, r.Pagination
	})
}

// fetchAll walks skip/limit pages of a listing endpoint until next_page is empty.
func fetchAll[T any, R any](
	ctx context.Context,
	c *HTTPClient,
	resource string,
	query url.Values,
	extract func(*R) ([]T, Pagination),
) ([]T, error) {
	var all []T
	skip := 0

	for {
		q := url.Values{}
		for k, v := range query {
			q[k] = append([]string(nil), v...)
		}
		q.Set("skip", strconv.Itoa(skip))
		q.Set("limit", strconv.Itoa(c.pageSize))

		var page []T
		var pagination Pagination
		err := c.policy.Do(ctx, func() error {
			var resp R
			req, err := c.newRequest(ctx, resource, q)
			if err != nil {
				return err
			}
			if err := c.doRequest(req, &resp); err != nil {
				return err
			}
			page, pagination = extract(&resp)
			return nil
		}, func(attempt int, err error) {
			slog.Warn("Retrying delivery request",
				logfields.Resource(resource),
				slog.Int("attempt", attempt),
				logfields.Error(err))
			if c.onRetry != nil {
				c.onRetry(resource, attempt, err)
			}
		})
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if pagination.NextPage == "" || len(page) == 0 {
			break
		}
		skip += len(page)
	}

	slog.Debug("Fetched delivery resource", logfields.Resource(resource), logfields.Count(len(all)))
	return all, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, resource string, query url.Values) (*http.Request, error) {
	endpoint := c.apiURL + "/" + strings.TrimPrefix(resource, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDelivery, "failed to create request").
			WithContext("url", endpoint).
			Build()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for _, h := range c.headers {
		req.Header.Set(h.Header, h.Value)
	}
	return req, nil
}

// apiError is the error body returned by the Delivery API.
type apiError struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	ErrorCode int    `json:"error_code"`
}

func (c *HTTPClient) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.NetworkError("failed to execute delivery request").
			WithCause(err).
			WithContext("url", req.URL.String()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		var apiErr apiError
		message := strings.ReplaceAll(string(limitedBody), "\n", " ")
		if json.Unmarshal(limitedBody, &apiErr) == nil && apiErr.Message != "" {
			message = apiErr.Message
		}
		return statusError(resp.StatusCode, resp.Status).
			WithContext("url", req.URL.String()).
			WithContext("code", resp.StatusCode).
			WithContext("response", message).
			WithContext("request_id", apiErr.RequestID).
			Build()
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return errors.WrapError(err, errors.CategoryDelivery, "failed to decode response").
			WithContext("url", req.URL.String()).
			Build()
	}
	return nil
}

func statusError(code int, status string) *errors.ErrorBuilder {
	message := fmt.Sprintf("delivery API error: %s", status)
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.AuthError(message)
	case code == http.StatusNotFound:
		return errors.NewError(errors.CategoryNotFound, message)
	case code == http.StatusTooManyRequests:
		return errors.DeliveryError(message).RateLimit()
	case code >= 500:
		return errors.DeliveryError(message).Retryable()
	default:
		return errors.DeliveryError(message)
	}
}
