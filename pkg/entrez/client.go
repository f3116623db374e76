// Package entrez provides a client for the NCBI E-utilities API
// (PubMed esearch/efetch).
package entrez

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"
)

// Client defines the PubMed search and fetch operations.
type Client interface {
	// Search returns PubMed IDs matching any of the keywords, restricted to
	// a publication-date window of monthsBack months and ordered by relevance.
	Search(ctx context.Context, keywords []string, monthsBack, maxResults int) ([]string, error)
	// Fetch returns article records for the given PubMed IDs. Requests are
	// issued in batches; a failed batch is skipped, not fatal.
	Fetch(ctx context.Context, ids []string) ([]PubmedArticle, error)
}

// Option configures the entrez client.
type Option func(*httpClient)

// WithBaseURL sets a custom E-utilities base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithAPIKey sets an NCBI API key, which raises the allowed request rate.
func WithAPIKey(key string) Option {
	return func(c *httpClient) {
		c.apiKey = key
	}
}

// WithTool sets the tool name sent with each request per NCBI etiquette.
func WithTool(tool string) Option {
	return func(c *httpClient) {
		c.tool = tool
	}
}

// WithBatchSize sets the efetch batch size.
func WithBatchSize(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

type httpClient struct {
	baseURL   string
	email     string
	tool      string
	apiKey    string
	batchSize int
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a new E-utilities client. The email identifies the
// caller to NCBI and is required by their usage policy.
func NewClient(email string, opts ...Option) Client {
	c := &httpClient{
		baseURL:   "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
		email:     email,
		tool:      "leadscout",
		batchSize: 20,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	// NCBI allows 3 requests/sec anonymously, 10 with an API key.
	if c.apiKey != "" {
		c.limiter = rate.NewLimiter(10, 10)
	} else {
		c.limiter = rate.NewLimiter(3, 3)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo executes a rate-limited GET with exponential backoff retries on
// transient failures (429, 500, 502, 503). Returns the response body and
// status code on success, or the last error after exhausting retries.
func (c *httpClient) retryDo(ctx context.Context, reqURL string) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, eris.Wrap(err, "entrez: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, 0, eris.Wrap(err, "entrez: create request")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "entrez: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("entrez: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

// buildTerm composes the boolean-OR keyword query with a pdat range.
func buildTerm(keywords []string, monthsBack int, now time.Time) string {
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		quoted = append(quoted, fmt.Sprintf("%q", kw))
	}
	start := now.AddDate(0, 0, -monthsBack*30)
	dateRange := fmt.Sprintf("%s:%s[pdat]", start.Format("2006/01/02"), now.Format("2006/01/02"))
	return fmt.Sprintf("(%s) AND %s", strings.Join(quoted, " OR "), dateRange)
}

func (c *httpClient) commonParams() url.Values {
	v := url.Values{}
	v.Set("db", "pubmed")
	v.Set("tool", c.tool)
	v.Set("email", c.email)
	if c.apiKey != "" {
		v.Set("api_key", c.apiKey)
	}
	return v
}

func (c *httpClient) Search(ctx context.Context, keywords []string, monthsBack, maxResults int) ([]string, error) {
	term := buildTerm(keywords, monthsBack, time.Now().UTC())

	params := c.commonParams()
	params.Set("term", term)
	params.Set("retmax", fmt.Sprintf("%d", maxResults))
	params.Set("sort", "relevance")
	params.Set("retmode", "json")

	reqURL := c.baseURL + "/esearch.fcgi?" + params.Encode()

	body, statusCode, err := c.retryDo(ctx, reqURL)
	if err != nil {
		return nil, eris.Wrap(err, "entrez: search request failed")
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("entrez: search unexpected status %d: %s", statusCode, string(body))
	}

	var result esearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "entrez: unmarshal search response")
	}

	zap.L().Debug("entrez: search complete",
		zap.String("count", result.Result.Count),
		zap.Int("ids", len(result.Result.IDList)),
	)

	return result.Result.IDList, nil
}

func (c *httpClient) Fetch(ctx context.Context, ids []string) ([]PubmedArticle, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var articles []PubmedArticle
	for start := 0; start < len(ids); start += c.batchSize {
		end := min(start+c.batchSize, len(ids))
		batch := ids[start:end]

		got, err := c.fetchBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return articles, eris.Wrap(ctx.Err(), "entrez: fetch cancelled")
			}
			// One bad batch never fails the whole run.
			zap.L().Warn("entrez: fetch batch failed, skipping",
				zap.Int("batch_start", start),
				zap.Int("batch_size", len(batch)),
				zap.Error(err),
			)
			continue
		}
		articles = append(articles, got...)
	}

	zap.L().Info("entrez: fetch complete",
		zap.Int("requested", len(ids)),
		zap.Int("fetched", len(articles)),
	)

	return articles, nil
}

func (c *httpClient) fetchBatch(ctx context.Context, ids []string) ([]PubmedArticle, error) {
	params := c.commonParams()
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	reqURL := c.baseURL + "/efetch.fcgi?" + params.Encode()

	body, statusCode, err := c.retryDo(ctx, reqURL)
	if err != nil {
		return nil, eris.Wrap(err, "entrez: fetch request failed")
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("entrez: fetch unexpected status %d", statusCode)
	}

	return decodeArticleSet(body)
}

// decodeArticleSet parses an efetch XML payload. PubMed serves declared
// charsets other than UTF-8 for some records, so the decoder resolves them
// via htmlindex.
func decodeArticleSet(body []byte) ([]PubmedArticle, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(body)))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "entrez: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var set articleSet
	if err := decoder.Decode(&set); err != nil {
		return nil, eris.Wrap(err, "entrez: decode article set")
	}
	return set.Articles, nil
}
