package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html"

	"threestar/internal/domain"
	"threestar/internal/domain/value"
	"threestar/pkg/errcodes"
	"threestar/pkg/httpx"
	"threestar/pkg/logx"
)

const (
	DefaultTimeout    = 20 * time.Second
	DefaultMaxRetries = 1
	DefaultBackoff    = 500 * time.Millisecond
	DefaultMaxRows    = 8
	DefaultUserAgent  = "Mozilla/5.0"

	maxBodySize = 8 << 20
)

// DefaultURLs - страницы результатов 3 星彩 в порядке обхода.
func DefaultURLs() []string {
	return []string{
		"https://www.taiwanlottery.com/lotto/3D/history",
		"https://www.taiwanlottery.com/lotto/3d/history",
		"https://www.taiwanlottery.com/lotto/3D",
		"https://www.taiwanlottery.com/lotto/3d",
		"https://www.taiwanlottery.com/",
	}
}

//nolint:gochecknoglobals
var transientStatuses = map[int]struct{}{
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

type Config struct {
	URLs               []string
	Timeout            time.Duration
	MaxRetries         int
	Backoff            time.Duration
	MaxRows            int
	UserAgent          string
	InsecureSkipVerify bool
	LogFieldMaxLen     int
}

// Fetcher скачивает страницы результатов и вытаскивает последние тиражи.
type Fetcher struct {
	cfg        Config
	client     *http.Client
	extractors []RowExtractor
}

func New(cfg Config) *Fetcher {
	if len(cfg.URLs) == 0 {
		cfg.URLs = DefaultURLs()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = DefaultMaxRows
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: httpx.NewLoggingRoundTripper(
			transport,
			httpx.WithResponseBody(false),
			httpx.WithLogFieldMaxLen(cfg.LogFieldMaxLen),
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		),
	}

	return &Fetcher{
		cfg:        cfg,
		client:     client,
		extractors: DefaultExtractors(),
	}
}

func (f *Fetcher) WithHTTPClient(client *http.Client) *Fetcher {
	f.client = client
	return f
}

func (f *Fetcher) WithExtractors(extractors ...RowExtractor) *Fetcher {
	f.extractors = extractors
	return f
}

// Fetch обходит адреса по порядку (каждый сначала по https, потом по http)
// и возвращает строки первой страницы, где они нашлись, не больше MaxRows
// последних. Если страницы скачались, но строк нет, результат пустой.
// Если не скачалась ни одна, возвращается ErrFetchFailed с последней ошибкой.
func (f *Fetcher) Fetch(ctx context.Context) ([]value.Digits, error) {
	var (
		lastErr error
		reached bool
	)

	for _, base := range f.cfg.URLs {
		for _, url := range candidates(base) {
			if err := ctx.Err(); err != nil {
				return nil, domain.WrapError(err, errcodes.FetchFailed, "fetch draws")
			}

			rows, err := f.fetchPage(ctx, url)
			if err != nil {
				fetchPagesTotal.WithLabelValues(outcomeError).Inc()
				logger(ctx).Warn("fetch page failed", slog.String(logx.FieldURL, url), logx.Error(err))
				lastErr = err
				continue
			}

			reached = true

			if len(rows) == 0 {
				fetchPagesTotal.WithLabelValues(outcomeEmpty).Inc()
				continue
			}

			fetchPagesTotal.WithLabelValues(outcomeOK).Inc()

			if len(rows) > f.cfg.MaxRows {
				rows = rows[len(rows)-f.cfg.MaxRows:]
			}

			return rows, nil
		}
	}

	if !reached && lastErr != nil {
		return nil, domain.WrapError(lastErr, errcodes.FetchFailed, "fetch draws")
	}

	return nil, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, url string) ([]value.Digits, error) {
	body, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("html.Parse: %w", err)
	}

	for _, ex := range f.extractors {
		rows := ex.Extract(doc)

		valid := rows[:0]
		for _, r := range rows {
			if r.Valid() {
				valid = append(valid, r)
			}
		}

		if len(valid) > 0 {
			logger(ctx).Debug("rows extracted",
				slog.String(logx.FieldURL, url),
				slog.String(logx.FieldExtractor, ex.Name()),
				slog.Int(logx.FieldRows, len(valid)),
			)
			return valid, nil
		}
	}

	return nil, nil
}

// download повторяет запрос только на 429/500/502/503/504.
func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	var (
		body    string
		attempt int
	)

	operation := func() error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("http.NewRequestWithContext: %w", err))
		}
		req.Header.Set("User-Agent", f.cfg.UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("client.Do: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err = &StatusError{URL: url, StatusCode: resp.StatusCode}
			if _, transient := transientStatuses[resp.StatusCode]; transient {
				return err
			}
			return backoff.Permanent(err)
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("io.ReadAll: %w", err))
		}

		body = string(raw)

		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.cfg.Backoff

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(f.cfg.MaxRetries)), ctx) //nolint:gosec

	err := backoff.RetryNotify(operation, policy, func(err error, next time.Duration) {
		logger(ctx).Info("retry fetch",
			slog.String(logx.FieldURL, url),
			slog.Int(logx.FieldAttempt, attempt),
			slog.Duration("next", next),
			logx.Error(err),
		)
	})
	if err != nil {
		return "", err
	}

	return body, nil
}

// StatusError - сайт ответил не 2xx.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

func candidates(base string) []string {
	if rest, ok := strings.CutPrefix(base, "https://"); ok {
		return []string{base, "http://" + rest}
	}

	return []string{base}
}

func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
