package banner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MaxSteins36/OpenSeat/internal/metrics"
)

const (
	defaultBaseURL   = "https://registrationssb.ucr.edu/StudentRegistrationSsb/ssb"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"
)

// SSBClient implements Client against a Banner Student Self-Service
// deployment. It owns a cookie-bearing http.Client; the session cookies
// established by StartSession must survive into SelectTerm and Search, so
// one SSBClient is used strictly sequentially within a run.
type SSBClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// SSBOption configures the SSBClient.
type SSBOption func(*SSBClient)

// WithBaseURL overrides the default site base URL (everything up to and
// including the "/ssb" path segment).
func WithBaseURL(u string) SSBOption {
	return func(c *SSBClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithUserAgent overrides the User-Agent header sent on every request.
func WithUserAgent(ua string) SSBOption {
	return func(c *SSBClient) {
		c.userAgent = ua
	}
}

// WithHTTPClient overrides the default HTTP client. A cookie jar is added
// if the client has none, so session cookies still persist across requests.
func WithHTTPClient(hc *http.Client) SSBOption {
	return func(c *SSBClient) {
		c.client = hc
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) SSBOption {
	return func(c *SSBClient) {
		c.client.Timeout = d
	}
}

// NewSSBClient creates a new registration-site client with a fresh cookie
// jar.
func NewSSBClient(opts ...SSBOption) *SSBClient {
	c := &SSBClient{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client.Jar == nil {
		jar, _ := cookiejar.New(nil) // err is always nil for a nil PublicSuffixList
		c.client.Jar = jar
	}
	return c
}

// StartSession bootstraps the server-side session by fetching the class
// search page. The body is discarded; only the session cookies matter.
func (c *SSBClient) StartSession(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/classSearch/classSearch", "", nil)
	if err != nil {
		return fmt.Errorf("fetching search page: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp, "search page")
}

// SelectTerm activates the given term for the current session. Must be
// called after StartSession and before Search.
func (c *SSBClient) SelectTerm(ctx context.Context, term string) error {
	form := url.Values{}
	form.Set("term", term)

	resp, err := c.do(
		ctx,
		http.MethodPost,
		c.baseURL+"/term/search?mode=search",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("selecting term %s: %w", term, err)
	}
	defer resp.Body.Close()

	return checkStatus(resp, "term select")
}

// Search queries the searchResults endpoint for all sections matching the
// request and decodes the JSON envelope. At most PageMaxSize sections are
// returned; no further pages are fetched.
func (c *SSBClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("txt_subjectcoursecombo", req.Subject)
	params.Set("txt_term", req.Term)

	size := req.PageMaxSize
	if size <= 0 {
		size = 50
	}
	params.Set("pageMaxSize", strconv.Itoa(size))

	u := c.baseURL + "/searchResults/searchResults?" + params.Encode()

	resp, err := c.do(ctx, http.MethodGet, u, "", nil)
	if err != nil {
		return nil, fmt.Errorf("executing section search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"search returned %d: %s",
			resp.StatusCode,
			truncate(string(body), 200),
		)
	}

	var apiResp SearchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return &apiResp, nil
}

func (c *SSBClient) do(
	ctx context.Context,
	method, u, contentType string,
	body io.Reader,
) (*http.Response, error) {
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	metrics.BannerAPICallsTotal.Inc()

	return c.client.Do(req)
}

func checkStatus(resp *http.Response, step string) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %d", step, resp.StatusCode)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
