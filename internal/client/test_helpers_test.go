package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/comms-client/internal/signer"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

const (
	testAccessKeyID     = "AKIDTEST"
	testSecretAccessKey = "secret"
)

// NewTestClient creates a client with static credentials pointed at baseURL.
func NewTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := New(&comms.Config{
		Endpoint:        baseURL,
		AccessKeyID:     testAccessKeyID,
		SecretAccessKey: testSecretAccessKey,
	})
	require.NoError(t, err)

	return client
}

// writeJSON writes status and payload as a JSON response.
func writeJSON(t *testing.T, writer http.ResponseWriter, status int, payload interface{}) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	writer.Header().Set("X-Amzn-RequestId", "req-test")
	writer.WriteHeader(status)

	if payload != nil {
		assert.NoError(t, json.NewEncoder(writer).Encode(payload))
	}
}

// notFoundBody is the error body the service returns for a missing resource.
func notFoundBody(message string) map[string]string {
	return map[string]string{"Code": "NotFound", "Message": message}
}

// assertSigned checks the request carries a SigV4 signature for the test key.
func assertSigned(t *testing.T, request *http.Request) {
	t.Helper()

	assert.Equal(t, testAccessKeyID, signer.AccessKeyFromAuthorization(request.Header.Get("Authorization")))
	assert.NotEmpty(t, request.Header.Get("X-Amz-Date"))
	assert.NotEmpty(t, request.Header.Get("Amz-Sdk-Invocation-Id"))
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TRequest, TResponse any] struct {
	Name         string
	Request      *TRequest
	ExpectedPath string
	StatusCode   int
	Response     interface{}
	WantErr      bool
	WantKind     comms.ErrorKind
	Check        func(t *testing.T, result *TResponse)
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TRequest, TResponse any](
	t *testing.T,
	tests []TestGetOperation[TRequest, TResponse],
	getFunc func(*Client) func(context.Context, *TRequest) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodGet, request.Method)
				assertSigned(t, request)
				writeJSON(t, writer, testCase.StatusCode, testCase.Response)
			}))
			defer server.Close()

			client := NewTestClient(t, server.URL)

			result, err := getFunc(client)(context.Background(), testCase.Request)

			if testCase.WantErr {
				require.Error(t, err)
				assert.Nil(t, result)

				if testCase.WantKind != "" {
					assert.Equal(t, testCase.WantKind, comms.KindOf(err))
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)

			if testCase.Check != nil {
				testCase.Check(t, result)
			}
		})
	}
}

// TestDeleteOperation represents a generic delete operation test case.
type TestDeleteOperation[TRequest any] struct {
	Name         string
	Request      *TRequest
	ExpectedPath string
	StatusCode   int
	Response     interface{}
	WantErr      bool
	WantKind     comms.ErrorKind
}

// RunDeleteTests runs a series of delete operation tests.
func RunDeleteTests[TRequest any](
	t *testing.T,
	tests []TestDeleteOperation[TRequest],
	deleteFunc func(*Client) func(context.Context, *TRequest) error,
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodDelete, request.Method)
				assertSigned(t, request)
				writeJSON(t, writer, testCase.StatusCode, testCase.Response)
			}))
			defer server.Close()

			client := NewTestClient(t, server.URL)

			err := deleteFunc(client)(context.Background(), testCase.Request)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.WantKind != "" {
					assert.Equal(t, testCase.WantKind, comms.KindOf(err))
				}

				return
			}

			require.NoError(t, err)
		})
	}
}
