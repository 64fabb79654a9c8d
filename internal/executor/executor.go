// Package executor runs one remote operation end to end: validate, resolve
// credentials, encode, sign, transmit, decode, and map failures onto the
// closed comms.ErrorKind taxonomy.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// Static errors for err113 compliance.
var (
	ErrNoCredentialsProvider = errors.New("no credentials provider configured")
	ErrEmptyCredentials      = errors.New("credentials provider returned no keys")
	ErrInvalidEndpoint       = errors.New("invalid endpoint")
	ErrNilWireRequest        = errors.New("encoder returned no request")
)

// Signer signs a built request in place. body is the exact payload sent.
type Signer interface {
	Sign(ctx context.Context, req *http.Request, body []byte, creds comms.Credentials, at time.Time) error
}

// SignerFunc adapts a function to Signer.
type SignerFunc func(ctx context.Context, req *http.Request, body []byte, creds comms.Credentials, at time.Time) error

// Sign calls f.
func (f SignerFunc) Sign(ctx context.Context, req *http.Request, body []byte, creds comms.Credentials, at time.Time) error {
	return f(ctx, req, body, creds, at)
}

// Operation describes one remote call. Values are meant to be package-level
// and are never modified by the executor.
type Operation[In, Out any] struct {
	Name   string
	Encode Encoder[In]
	Decode Decoder[Out]
	// Errors defaults to StandardErrorDecoders.
	Errors *ErrorDecoders
}

// Executor holds the collaborators shared by every call. It is immutable
// after New and safe for concurrent use when its collaborators are.
type Executor struct {
	endpoint        *url.URL
	transport       comms.HTTPDoer
	credentials     comms.CredentialsProvider
	signer          Signer
	instrumentation comms.Instrumentation
	logger          comms.Logger
	userAgent       string
	headers         http.Header
	now             func() time.Time
	validator       *Validator
}

// Option configures an Executor.
type Option func(*Executor)

// WithTransport sets the HTTP transport. Defaults to http.DefaultClient.
func WithTransport(transport comms.HTTPDoer) Option {
	return func(e *Executor) {
		e.transport = transport
	}
}

// WithCredentialsProvider sets the provider polled once per call.
func WithCredentialsProvider(provider comms.CredentialsProvider) Option {
	return func(e *Executor) {
		e.credentials = provider
	}
}

// WithSigner sets the request signer. Without one requests are sent unsigned.
func WithSigner(signer Signer) Option {
	return func(e *Executor) {
		e.signer = signer
	}
}

// WithInstrumentation sets the hook receiving call events.
func WithInstrumentation(instrumentation comms.Instrumentation) Option {
	return func(e *Executor) {
		e.instrumentation = instrumentation
	}
}

// WithLogger sets the logger.
func WithLogger(logger comms.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(e *Executor) {
		if userAgent != "" {
			e.userAgent = userAgent
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(e *Executor) {
		e.headers.Add(key, value)
	}
}

// WithClock overrides time.Now, used for signing and timings.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithValidator replaces the request validator.
func WithValidator(validator *Validator) Option {
	return func(e *Executor) {
		if validator != nil {
			e.validator = validator
		}
	}
}

// New creates an Executor for endpoint, an absolute http(s) URL.
func New(endpoint string, opts ...Option) (*Executor, error) {
	parsed, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidEndpoint, endpoint, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return nil, fmt.Errorf("%w %q: expected an absolute http(s) URL", ErrInvalidEndpoint, endpoint)
	}

	e := &Executor{
		endpoint:  parsed,
		transport: http.DefaultClient,
		logger:    noopLogger{},
		userAgent: constants.DefaultUserAgent,
		headers:   http.Header{},
		now:       time.Now,
		validator: NewValidator(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Endpoint returns the base URL requests are sent to.
func (e *Executor) Endpoint() string {
	return e.endpoint.String()
}

// Execute runs op for in. Exactly one of the result and the error is
// meaningful: on failure the result is the zero value and the error is a
// *comms.Error. Nothing is retried or cached between calls.
func Execute[In, Out any](ctx context.Context, e *Executor, op Operation[In, Out], in In) (Out, error) {
	c := &call{exec: e, ctx: ctx, operation: op.Name, start: e.now()}

	out, err := run(ctx, e, op, in, c)
	c.finish(err)

	if err != nil {
		var zero Out

		return zero, err
	}

	return out, nil
}

func run[In, Out any](ctx context.Context, e *Executor, op Operation[In, Out], in In, c *call) (Out, error) {
	var zero Out

	if err := e.validator.Validate(in); err != nil {
		return zero, clientError(op.Name, comms.ErrInvalidRequest, err)
	}

	phase := e.now()
	creds, err := e.resolveCredentials(ctx, in)

	if err != nil {
		credErr := clientError(op.Name, comms.ErrCredentials, err)
		c.phase(comms.PhaseCredentials, phase, credErr)

		return zero, credErr
	}

	c.phase(comms.PhaseCredentials, phase, nil)

	phase = e.now()
	req, err := prepare(ctx, e, op, in, creds)
	c.phase(comms.PhaseEncode, phase, err)

	if err != nil {
		return zero, err
	}

	phase = e.now()
	out, err := transmit(e, op, req, c)
	c.phase(comms.PhaseTransmit, phase, err)

	return out, err
}

func (e *Executor) resolveCredentials(ctx context.Context, in any) (comms.Credentials, error) {
	if overrider, ok := in.(interface{ CallCredentials() *comms.Credentials }); ok {
		if override := overrider.CallCredentials(); override != nil && override.HasKeys() {
			return *override, nil
		}
	}

	if e.credentials == nil {
		return comms.Credentials{}, ErrNoCredentialsProvider
	}

	creds, err := e.credentials.Retrieve(ctx)
	if err != nil {
		return comms.Credentials{}, fmt.Errorf("retrieving credentials: %w", err)
	}

	if !creds.HasKeys() {
		return comms.Credentials{}, ErrEmptyCredentials
	}

	return creds, nil
}

func prepare[In, Out any](ctx context.Context, e *Executor, op Operation[In, Out], in In, creds comms.Credentials) (*http.Request, error) {
	wire, err := op.Encode(in)
	if err == nil && wire == nil {
		err = ErrNilWireRequest
	}

	if err != nil {
		return nil, clientError(op.Name, comms.ErrInvalidRequest, fmt.Errorf("encoding request: %w", err))
	}

	target := e.endpoint.String() + wire.Path
	if len(wire.Query) > 0 {
		target += "?" + wire.Query.Encode()
	}

	var reader io.Reader
	if wire.Body != nil {
		reader = bytes.NewReader(wire.Body)
	}

	req, err := http.NewRequestWithContext(ctx, wire.Method, target, reader)
	if err != nil {
		return nil, clientError(op.Name, comms.ErrInvalidRequest, fmt.Errorf("creating request: %w", err))
	}

	for key, values := range e.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	for key, values := range wire.Header {
		req.Header.Del(key)

		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	if wire.Body != nil {
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}

	req.Header.Set(constants.HeaderUserAgent, e.userAgent)
	req.Header.Set(constants.HeaderInvocationID, uuid.NewString())

	if e.signer != nil {
		if err := e.signer.Sign(ctx, req, wire.Body, creds, e.now()); err != nil {
			return nil, clientError(op.Name, comms.ErrSigning, err)
		}
	}

	return req, nil
}

func transmit[In, Out any](e *Executor, op Operation[In, Out], req *http.Request, c *call) (Out, error) {
	var zero Out

	resp, err := e.transport.Do(req)
	if err != nil {
		return zero, clientError(op.Name, comms.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, clientError(op.Name, comms.ErrTransport, fmt.Errorf("reading response body: %w", err))
	}

	wire := &WireResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	c.statusCode = resp.StatusCode
	c.requestID = resp.Header.Get(constants.HeaderRequestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		decoders := op.Errors
		if decoders == nil {
			decoders = StandardErrorDecoders()
		}

		remote := decoders.Decode(wire)
		remote.Operation = op.Name
		remote.StatusCode = resp.StatusCode
		remote.RequestID = c.requestID

		return zero, remote
	}

	out, err := op.Decode(wire)
	if err != nil {
		decodeErr := clientError(op.Name, comms.ErrDecodeResponse, err)
		decodeErr.StatusCode = resp.StatusCode
		decodeErr.RequestID = c.requestID

		return zero, decodeErr
	}

	return out, nil
}

func clientError(operation string, cause, err error) *comms.Error {
	return comms.NewClientError(operation, fmt.Errorf("%w: %w", cause, err))
}

// call tracks the timings of one Execute.
type call struct {
	exec       *Executor
	ctx        context.Context //nolint:containedctx
	operation  string
	start      time.Time
	statusCode int
	requestID  string
}

func (c *call) phase(phase comms.Phase, started time.Time, err error) {
	c.exec.observe(c.ctx, comms.Event{
		Operation:  c.operation,
		Phase:      phase,
		Duration:   c.exec.now().Sub(started),
		Time:       started,
		StatusCode: c.statusCode,
		ErrorKind:  comms.KindOf(err),
		RequestID:  c.requestID,
	})
}

func (c *call) finish(err error) {
	c.phase(comms.PhaseTotal, c.start, err)

	fields := map[string]interface{}{
		"operation": c.operation,
		"status":    c.statusCode,
		"duration":  c.exec.now().Sub(c.start).String(),
	}

	if c.requestID != "" {
		fields["request_id"] = c.requestID
	}

	if err != nil {
		fields["kind"] = comms.KindOf(err).String()
		fields["error"] = err.Error()
		c.exec.logger.Debug("Operation failed", fields)

		return
	}

	c.exec.logger.Debug("Operation completed", fields)
}

// observe delivers an event. Hook panics are recovered and logged.
func (e *Executor) observe(ctx context.Context, event comms.Event) {
	if e.instrumentation == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Instrumentation hook panicked", map[string]interface{}{
				"operation": event.Operation,
				"phase":     string(event.Phase),
				"panic":     fmt.Sprint(r),
			})
		}
	}()

	e.instrumentation.Observe(ctx, event)
}

type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{}) {}
func (noopLogger) Info(string, map[string]interface{})  {}
func (noopLogger) Warn(string, map[string]interface{})  {}
func (noopLogger) Error(string, map[string]interface{}) {}
