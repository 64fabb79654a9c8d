package executor_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/comms-client/internal/executor"
	"github.com/fivetwenty-io/comms-client/internal/signer"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

var errBoom = errors.New("boom")

type echoRequest struct {
	comms.CallOptions

	Name  string   `json:"Name"           validate:"required"`
	Notes []string `json:"Notes,omitempty"`
}

type echoResult struct {
	Name  string   `json:"Name"`
	Notes []string `json:"Notes,omitempty"`
	Count int      `json:"Count"`
}

var echoOp = executor.Operation[*echoRequest, *echoResult]{
	Name: "Echo",
	Encode: func(in *echoRequest) (*executor.WireRequest, error) {
		return executor.NewJSONRequest(http.MethodPost, executor.PathOf("echo", in.Name), nil, in)
	},
	Decode: executor.DecodeField[echoResult]("Echo"),
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

type countingProvider struct {
	calls atomic.Int32
	creds func(n int32) (aws.Credentials, error)
}

func (p *countingProvider) Retrieve(context.Context) (aws.Credentials, error) {
	return p.creds(p.calls.Add(1))
}

func staticProvider(accessKey string) *countingProvider {
	return &countingProvider{creds: func(int32) (aws.Credentials, error) {
		return aws.Credentials{AccessKeyID: accessKey, SecretAccessKey: "secret"}, nil
	}}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []comms.Event
}

func (r *eventRecorder) Observe(_ context.Context, event comms.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func (r *eventRecorder) phases() []comms.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()

	phases := make([]comms.Phase, 0, len(r.events))
	for _, event := range r.events {
		phases = append(phases, event.Phase)
	}

	return phases
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, map[string]interface{}) {}
func (l *recordingLogger) Info(string, map[string]interface{})  {}
func (l *recordingLogger) Error(string, map[string]interface{}) {}

func (l *recordingLogger) Warn(msg string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.warns = append(l.warns, msg)
}

// echoServer answers every request with {"Echo": <request body + Count>}.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body echoResult

		if err := jsonDecode(request, &body); err != nil {
			writer.WriteHeader(http.StatusBadRequest)

			return
		}

		body.Count = len(body.Notes)

		writer.Header().Set("X-Amzn-RequestId", "req-"+body.Name)
		writeJSON(writer, http.StatusOK, map[string]interface{}{"Echo": body})
	}))
	t.Cleanup(server.Close)

	return server
}

func newExecutor(t *testing.T, endpoint string, opts ...executor.Option) *executor.Executor {
	t.Helper()

	base := []executor.Option{
		executor.WithCredentialsProvider(staticProvider("AKIDTEST")),
		executor.WithSigner(signer.NewSigV4("", "")),
	}

	exec, err := executor.New(endpoint, append(base, opts...)...)
	require.NoError(t, err)

	return exec
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		endpoint string
		want     string
		wantErr  bool
	}{
		{name: "https", endpoint: "https://comms.example.com", want: "https://comms.example.com"},
		{name: "trailing slash trimmed", endpoint: "http://localhost:8080/", want: "http://localhost:8080"},
		{name: "with base path", endpoint: "https://gw.example.com/comms", want: "https://gw.example.com/comms"},
		{name: "no scheme", endpoint: "comms.example.com", wantErr: true},
		{name: "unsupported scheme", endpoint: "ftp://comms.example.com", wantErr: true},
		{name: "empty", endpoint: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exec, err := executor.New(tt.endpoint)
			if tt.wantErr {
				require.ErrorIs(t, err, executor.ErrInvalidEndpoint)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, exec.Endpoint())
		})
	}
}

func TestExecute_RoundTrip(t *testing.T) {
	t.Parallel()

	exec := newExecutor(t, echoServer(t).URL)

	got, err := executor.Execute(context.Background(), exec, echoOp, &echoRequest{Name: "alpha", Notes: []string{"a", "b"}})
	require.NoError(t, err)

	want := &echoResult{Name: "alpha", Notes: []string{"a", "b"}, Count: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_RequestShape(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/base/echo/a%2Fb", request.URL.EscapedPath())
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
		assert.Equal(t, "custom-agent/2.0", request.Header.Get("User-Agent"))
		assert.Equal(t, "blue", request.Header.Get("X-Team"))
		assert.NotEmpty(t, request.Header.Get("Amz-Sdk-Invocation-Id"))
		assert.Equal(t, "20240102T030405Z", request.Header.Get("X-Amz-Date"))

		authorization := request.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(authorization, "AWS4-HMAC-SHA256 "))
		assert.Contains(t, authorization, "/20240102/us-west-2/chime/aws4_request")
		assert.Equal(t, "AKIDTEST", signer.AccessKeyFromAuthorization(authorization))

		writeJSON(writer, http.StatusOK, map[string]interface{}{"Echo": map[string]string{"Name": "a/b"}})
	}))
	defer server.Close()

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	exec := newExecutor(t, server.URL+"/base",
		executor.WithSigner(signer.NewSigV4("chime", "us-west-2")),
		executor.WithUserAgent("custom-agent/2.0"),
		executor.WithHeader("X-Team", "blue"),
		executor.WithClock(func() time.Time { return fixed }),
	)

	got, err := executor.Execute(context.Background(), exec, echoOp, &echoRequest{Name: "a/b"})
	require.NoError(t, err)
	assert.Equal(t, "a/b", got.Name)
}

func TestExecute_Unsigned(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Empty(t, request.Header.Get("Authorization"))
		writeJSON(writer, http.StatusOK, map[string]interface{}{"Echo": map[string]string{"Name": "x"}})
	}))
	defer server.Close()

	exec := newExecutor(t, server.URL, executor.WithSigner(nil))

	_, err := executor.Execute(context.Background(), exec, echoOp, &echoRequest{Name: "x"})
	require.NoError(t, err)
}

func TestExecute_RemoteKinds(t *testing.T) {
	t.Parallel()

	for _, kind := range comms.RemoteKinds() {
		wireType := executor.WireType(kind)
		require.NotEmpty(t, wireType, "kind %s has no wire type", kind)

		t.Run(string(kind)+"/header", func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.Header().Set("X-Amzn-ErrorType", wireType+":http://internal.example.com/")
				writer.Header().Set("X-Amzn-RequestId", "req-1")
				writeJSON(writer, http.StatusBadRequest, map[string]string{"Code": "Specific", "Message": "details"})
			}))
			defer server.Close()

			_, err := executor.Execute(context.Background(), newExecutor(t, server.URL), echoOp, &echoRequest{Name: "x"})
			require.Error(t, err)

			var commsErr *comms.Error

			require.ErrorAs(t, err, &commsErr)
			assert.Equal(t, kind, commsErr.Kind)
			assert.True(t, errors.Is(err, &comms.Error{Kind: kind}))
			assert.Equal(t, wireType, commsErr.Type)
			assert.Equal(t, "Specific", commsErr.Code)
			assert.Equal(t, "details", commsErr.Message)
			assert.Equal(t, "Echo", commsErr.Operation)
			assert.Equal(t, http.StatusBadRequest, commsErr.StatusCode)
			assert.Equal(t, "req-1", commsErr.RequestID)
		})

		t.Run(string(kind)+"/body code", func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writeJSON(writer, http.StatusInternalServerError, map[string]string{
					"Code":    strings.TrimSuffix(wireType, "Exception"),
					"message": "lower-case message",
				})
			}))
			defer server.Close()

			_, err := executor.Execute(context.Background(), newExecutor(t, server.URL), echoOp, &echoRequest{Name: "x"})
			assert.Equal(t, kind, comms.KindOf(err))
			assert.Contains(t, err.Error(), "lower-case message")
		})
	}
}

//nolint:funlen
func TestExecute_GenericFallback(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 400)

	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantCode    string
		wantMessage string
	}{
		{
			name:        "unknown type keeps code and message",
			status:      http.StatusBadGateway,
			contentType: "application/json",
			body:        `{"__type":"GatewayException","Message":"upstream down"}`,
			wantCode:    "GatewayException",
			wantMessage: "upstream down",
		},
		{
			name:        "status alone never selects a kind",
			status:      http.StatusNotFound,
			contentType: "application/json",
			body:        `{"Message":"no route"}`,
			wantMessage: "no route",
		},
		{
			name:        "plain text body becomes the message",
			status:      http.StatusBadRequest,
			contentType: "text/plain",
			body:        "rejected by proxy\n",
			wantMessage: "rejected by proxy",
		},
		{
			name:        "empty body uses the status text",
			status:      http.StatusMethodNotAllowed,
			wantMessage: http.StatusText(http.StatusMethodNotAllowed),
		},
		{
			name:        "long body is truncated on a rune boundary",
			status:      http.StatusRequestEntityTooLarge,
			contentType: "text/html",
			body:        long,
			wantMessage: strings.Repeat("é", 256) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				if tt.contentType != "" {
					writer.Header().Set("Content-Type", tt.contentType)
				}

				writer.WriteHeader(tt.status)
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := executor.Execute(context.Background(), newExecutor(t, server.URL), echoOp, &echoRequest{Name: "x"})
			require.Error(t, err)

			var commsErr *comms.Error

			require.ErrorAs(t, err, &commsErr)
			assert.Equal(t, comms.KindGeneric, commsErr.Kind)
			assert.Equal(t, tt.status, commsErr.StatusCode)
			assert.Equal(t, tt.wantCode, commsErr.Code)
			assert.Equal(t, tt.wantMessage, commsErr.Message)
		})
	}
}

func TestExecute_UntypedServerErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
	}{
		{
			name:        "plain text 502",
			status:      http.StatusBadGateway,
			contentType: "text/plain",
			body:        "bad gateway from proxy\n",
			wantMessage: "bad gateway from proxy",
		},
		{
			name:        "json message without a type",
			status:      http.StatusInternalServerError,
			contentType: "application/json",
			body:        `{"Message":"boom"}`,
			wantMessage: "boom",
		},
		{
			name:        "empty 503",
			status:      http.StatusServiceUnavailable,
			wantMessage: http.StatusText(http.StatusServiceUnavailable),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				if tt.contentType != "" {
					writer.Header().Set("Content-Type", tt.contentType)
				}

				writer.WriteHeader(tt.status)
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := executor.Execute(context.Background(), newExecutor(t, server.URL), echoOp, &echoRequest{Name: "x"})
			require.ErrorIs(t, err, comms.ErrServiceFailure)

			var commsErr *comms.Error

			require.ErrorAs(t, err, &commsErr)
			assert.Equal(t, tt.status, commsErr.StatusCode)
			assert.Empty(t, commsErr.Code)
			assert.Equal(t, tt.wantMessage, commsErr.Message)
		})
	}
}

func TestExecute_CustomErrorDecoders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, http.StatusBadRequest, map[string]string{"__type": "QuotaException", "Message": "quota"})
	}))
	defer server.Close()

	before := executor.StandardErrorDecoders().Len()

	op := echoOp
	op.Errors = executor.StandardErrorDecoders().With(executor.ErrorDecoder{
		Kind:  comms.KindResourceLimitExceeded,
		Match: executor.MatchType("QuotaException"),
	})

	_, err := executor.Execute(context.Background(), newExecutor(t, server.URL), op, &echoRequest{Name: "x"})
	require.ErrorIs(t, err, comms.ErrResourceLimitExceeded)

	_, err = executor.Execute(context.Background(), newExecutor(t, server.URL), echoOp, &echoRequest{Name: "x"})
	assert.Equal(t, comms.KindGeneric, comms.KindOf(err))
	assert.Equal(t, before, executor.StandardErrorDecoders().Len())
}

func TestExecute_ValidationNeverTransmits(t *testing.T) {
	t.Parallel()

	var transmitted atomic.Int32

	provider := staticProvider("AKIDTEST")
	exec := newExecutor(t, "https://comms.example.com",
		executor.WithCredentialsProvider(provider),
		executor.WithTransport(doerFunc(func(*http.Request) (*http.Response, error) {
			transmitted.Add(1)

			return nil, errBoom
		})),
	)

	tests := []struct {
		name string
		in   *echoRequest
	}{
		{name: "nil request", in: nil},
		{name: "missing name", in: &echoRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := executor.Execute(context.Background(), exec, echoOp, tt.in)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, comms.IsClientError(err))
			require.ErrorIs(t, err, comms.ErrInvalidRequest)
		})
	}

	assert.Zero(t, transmitted.Load())
	assert.Zero(t, provider.calls.Load())
}

func TestExecute_TransportFailure(t *testing.T) {
	t.Parallel()

	exec := newExecutor(t, "https://comms.example.com",
		executor.WithTransport(doerFunc(func(*http.Request) (*http.Response, error) {
			return nil, errBoom
		})),
	)

	_, err := executor.Execute(context.Background(), exec, echoOp, &echoRequest{Name: "x"})
	require.Error(t, err)
	assert.True(t, comms.IsClientError(err))
	require.ErrorIs(t, err, comms.ErrTransport)
	require.ErrorIs(t, err, errBoom)
	assert.True(t, comms.IsRetryable(err))

	var commsErr *comms.Error

	require.ErrorAs(t, err, &commsErr)
	assert.Zero(t, commsErr.StatusCode)
}

func TestExecute_DecodeFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("X-Amzn-RequestId", "req-bad")
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("{not json"))
	}))
	defer server.Close()

	_, err := executor.Execute(context.Background(), newExecutor(t, server.URL), echoOp, &echoRequest{Name: "x"})
	require.ErrorIs(t, err, comms.ErrDecodeResponse)

	var commsErr *comms.Error

	require.ErrorAs(t, err, &commsErr)
	assert.Equal(t, comms.KindClient, commsErr.Kind)
	assert.Equal(t, http.StatusOK, commsErr.StatusCode)
	assert.Equal(t, "req-bad", commsErr.RequestID)
}

func TestExecute_SigningFailure(t *testing.T) {
	t.Parallel()

	exec := newExecutor(t, "https://comms.example.com",
		executor.WithSigner(executor.SignerFunc(func(context.Context, *http.Request, []byte, comms.Credentials, time.Time) error {
			return errBoom
		})),
		executor.WithTransport(doerFunc(func(*http.Request) (*http.Response, error) {
			t.Error("transport must not be called")

			return nil, errBoom
		})),
	)

	_, err := executor.Execute(context.Background(), exec, echoOp, &echoRequest{Name: "x"})
	require.ErrorIs(t, err, comms.ErrSigning)
	require.ErrorIs(t, err, errBoom)
}

//nolint:funlen
func TestExecute_Credentials(t *testing.T) {
	t.Parallel()

	t.Run("resolved fresh on every call", func(t *testing.T) {
		t.Parallel()

		var seen sync.Map

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			seen.Store(signer.AccessKeyFromAuthorization(request.Header.Get("Authorization")), true)
			writeJSON(writer, http.StatusOK, map[string]interface{}{"Echo": map[string]string{"Name": "x"}})
		}))
		defer server.Close()

		provider := &countingProvider{creds: func(n int32) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: fmt.Sprintf("AKID%d", n), SecretAccessKey: "secret"}, nil
		}}
		exec := newExecutor(t, server.URL, executor.WithCredentialsProvider(provider))

		for range 3 {
			_, err := executor.Execute(context.Background(), exec, echoOp, &echoRequest{Name: "x"})
			require.NoError(t, err)
		}

		assert.Equal(t, int32(3), provider.calls.Load())

		for _, key := range []string{"AKID1", "AKID2", "AKID3"} {
			_, ok := seen.Load(key)
			assert.True(t, ok, "expected a request signed with %s", key)
		}
	})

	t.Run("per-call override wins", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "AKIDOVERRIDE", signer.AccessKeyFromAuthorization(request.Header.Get("Authorization")))
			assert.Equal(t, "token", request.Header.Get("X-Amz-Security-Token"))
			writeJSON(writer, http.StatusOK, map[string]interface{}{"Echo": map[string]string{"Name": "x"}})
		}))
		defer server.Close()

		provider := staticProvider("AKIDCLIENT")
		exec := newExecutor(t, server.URL, executor.WithCredentialsProvider(provider))

		in := &echoRequest{Name: "x"}
		in.Credentials = &comms.Credentials{AccessKeyID: "AKIDOVERRIDE", SecretAccessKey: "s", SessionToken: "token"}

		_, err := executor.Execute(context.Background(), exec, echoOp, in)
		require.NoError(t, err)
		assert.Zero(t, provider.calls.Load())
	})

	t.Run("empty override falls back to the provider", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "AKIDCLIENT", signer.AccessKeyFromAuthorization(request.Header.Get("Authorization")))
			writeJSON(writer, http.StatusOK, map[string]interface{}{"Echo": map[string]string{"Name": "x"}})
		}))
		defer server.Close()

		exec := newExecutor(t, server.URL, executor.WithCredentialsProvider(staticProvider("AKIDCLIENT")))

		in := &echoRequest{Name: "x"}
		in.Credentials = &comms.Credentials{}

		_, err := executor.Execute(context.Background(), exec, echoOp, in)
		require.NoError(t, err)
	})

	failures := []struct {
		name     string
		provider comms.CredentialsProvider
		want     error
	}{
		{
			name: "provider error",
			provider: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{}, errBoom
			}),
			want: errBoom,
		},
		{
			name: "provider returns no keys",
			provider: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{}, nil
			}),
			want: executor.ErrEmptyCredentials,
		},
		{
			name: "no provider",
			want: executor.ErrNoCredentialsProvider,
		},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exec := newExecutor(t, "https://comms.example.com",
				executor.WithCredentialsProvider(tt.provider),
				executor.WithTransport(doerFunc(func(*http.Request) (*http.Response, error) {
					t.Error("transport must not be called")

					return nil, errBoom
				})),
			)

			_, err := executor.Execute(context.Background(), exec, echoOp, &echoRequest{Name: "x"})
			assert.True(t, comms.IsClientError(err))
			require.ErrorIs(t, err, comms.ErrCredentials)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecute_Instrumentation(t *testing.T) {
	t.Parallel()

	t.Run("phases in order with total last", func(t *testing.T) {
		t.Parallel()

		recorder := &eventRecorder{}
		exec := newExecutor(t, echoServer(t).URL, executor.WithInstrumentation(recorder))

		_, err := executor.Execute(context.Background(), exec, echoOp, &echoRequest{Name: "abc"})
		require.NoError(t, err)

		assert.Equal(t, []comms.Phase{
			comms.PhaseCredentials,
			comms.PhaseEncode,
			comms.PhaseTransmit,
			comms.PhaseTotal,
		}, recorder.phases())

		total := recorder.events[len(recorder.events)-1]
		assert.Equal(t, "Echo", total.Operation)
		assert.Equal(t, http.StatusOK, total.StatusCode)
		assert.Equal(t, "req-abc", total.RequestID)
		assert.False(t, total.Failed())
	})

	t.Run("failures carry the kind", func(t *testing.T) {
		t.Parallel()

		recorder := &eventRecorder{}
		exec := newExecutor(t, "https://comms.example.com", executor.WithInstrumentation(recorder))

		_, err := executor.Execute(context.Background(), exec, echoOp, &echoRequest{})
		require.Error(t, err)

		require.Equal(t, []comms.Phase{comms.PhaseTotal}, recorder.phases())
		assert.Equal(t, comms.KindClient, recorder.events[0].ErrorKind)
		assert.True(t, recorder.events[0].Failed())
	})

	t.Run("panicking hook does not change the result", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{}
		exec := newExecutor(t, echoServer(t).URL,
			executor.WithLogger(logger),
			executor.WithInstrumentation(comms.InstrumentationFunc(func(context.Context, comms.Event) {
				panic("hook failure")
			})),
		)

		got, err := executor.Execute(context.Background(), exec, echoOp, &echoRequest{Name: "safe"})
		require.NoError(t, err)
		assert.Equal(t, "safe", got.Name)

		logger.mu.Lock()
		defer logger.mu.Unlock()

		assert.Len(t, logger.warns, 4)
		assert.Contains(t, logger.warns, "Instrumentation hook panicked")
	})
}

func TestExecute_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executor.Execute(ctx, newExecutor(t, echoServer(t).URL), echoOp, &echoRequest{Name: "x"})
	require.ErrorIs(t, err, comms.ErrTransport)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExecute_Concurrent(t *testing.T) {
	t.Parallel()

	recorder := &eventRecorder{}
	exec := newExecutor(t, echoServer(t).URL, executor.WithInstrumentation(recorder))

	const calls = 25

	group, ctx := errgroup.WithContext(context.Background())

	for i := range calls {
		group.Go(func() error {
			name := fmt.Sprintf("call-%d", i)
			notes := make([]string, i%5)

			got, err := executor.Execute(ctx, exec, echoOp, &echoRequest{Name: name, Notes: notes})
			if err != nil {
				return err
			}

			if got.Name != name || got.Count != len(notes) {
				return fmt.Errorf("call %d: got %+v", i, got)
			}

			return nil
		})
	}

	require.NoError(t, group.Wait())
	assert.Len(t, recorder.phases(), calls*4)
}
