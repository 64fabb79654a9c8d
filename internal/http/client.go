// Package http provides the transport used by the executor: retry policy,
// client-side rate limiting, and debug logging around a standard http.Client.
package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// Transport sends signed requests. It satisfies comms.HTTPDoer and is safe
// for concurrent use.
type Transport struct {
	client    *retryablehttp.Client
	limiter   *rate.Limiter
	logger    comms.Logger
	debug     bool
	userAgent string
}

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger used for debug output.
func WithLogger(logger comms.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(t *Transport) {
		t.debug = debug
	}
}

// WithRetryConfig enables retries of 5xx, 429 and connection errors.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(t *Transport) {
		t.client.RetryMax = maxRetries
		t.client.RetryWaitMin = waitMin
		t.client.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the whole-request timeout of each attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Transport) {
		t.client.HTTPClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Transport) {
		if client != nil {
			t.client.HTTPClient = client
		}
	}
}

// WithRateLimit bounds requests per second. A non-positive limit disables it.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(t *Transport) {
		if requestsPerSecond <= 0 {
			t.limiter = nil

			return
		}

		if burst < 1 {
			burst = 1
		}

		t.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithUserAgent sets User-Agent on requests that do not carry one.
func WithUserAgent(userAgent string) Option {
	return func(t *Transport) {
		t.userAgent = userAgent
	}
}

// NewTransport creates a Transport. Retries are off until WithRetryConfig.
func NewTransport(opts ...Option) *Transport {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	// Hand the final response back so error bodies reach the decoders.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	t := &Transport{
		client:    retryClient,
		userAgent: constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.debug && t.logger != nil {
		t.client.Logger = leveledLogger{logger: t.logger}
	}

	if t.limiter != nil {
		limited := *t.client.HTTPClient
		limited.Transport = &limitedRoundTripper{limiter: t.limiter, next: limited.Transport}
		t.client.HTTPClient = &limited
	}

	return t
}

// Do sends req. Every attempt, retries included, waits on the rate limiter.
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get(constants.HeaderUserAgent) == "" && t.userAgent != "" {
		req.Header.Set(constants.HeaderUserAgent, t.userAgent)
	}

	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("preparing request: %w", err)
	}

	start := time.Now()

	if t.debug && t.logger != nil {
		t.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.String(),
		})
	}

	resp, err := t.client.Do(retryReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if t.debug && t.logger != nil {
		t.logger.Debug("HTTP Response", map[string]interface{}{
			"status":     resp.StatusCode,
			"duration":   time.Since(start).String(),
			"request_id": resp.Header.Get(constants.HeaderRequestID),
		})
	}

	return resp, nil
}

// limitedRoundTripper waits on the limiter before each attempt.
type limitedRoundTripper struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

func (l *limitedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := l.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	next := l.next
	if next == nil {
		next = http.DefaultTransport
	}

	return next.RoundTrip(req)
}

// leveledLogger adapts comms.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger comms.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fields(keysAndValues))
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues))
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			out[key] = keysAndValues[i+1]
		}
	}

	return out
}
