package comms_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *comms.Error
		want string
	}{
		{
			name: "remote with code and request id",
			err: &comms.Error{
				Kind:       comms.KindNotFound,
				Operation:  "GetAccount",
				StatusCode: http.StatusNotFound,
				Code:       "AccountNotFound",
				Message:    "no such account",
				RequestID:  "req-1",
			},
			want: "GetAccount: NotFound (code: AccountNotFound): no such account (status: 404, request id: req-1)",
		},
		{
			name: "code equal to kind is omitted",
			err:  &comms.Error{Kind: comms.KindConflict, Code: "Conflict", Message: "busy", StatusCode: http.StatusConflict},
			want: "Conflict: busy (status: 409)",
		},
		{
			name: "client error shows its cause",
			err:  comms.NewClientError("ListMeetings", fmt.Errorf("%w: dial tcp: refused", comms.ErrTransport)),
			want: "ListMeetings: Client: transport failure: dial tcp: refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", &comms.Error{Kind: comms.KindThrottledClient, Code: "Throttled"})

	assert.True(t, errors.Is(err, comms.ErrThrottledClient))
	assert.True(t, errors.Is(err, &comms.Error{Kind: comms.KindThrottledClient, Code: "Throttled"}))
	assert.False(t, errors.Is(err, &comms.Error{Kind: comms.KindThrottledClient, Code: "Other"}))
	assert.False(t, errors.Is(err, comms.ErrServiceFailure))
	assert.False(t, errors.Is(err, errors.New("throttled")))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, comms.KindNotFound, comms.KindOf(fmt.Errorf("x: %w", comms.ErrNotFound)))
	assert.Equal(t, comms.ErrorKind(""), comms.KindOf(errors.New("plain")))
	assert.Equal(t, comms.ErrorKind(""), comms.KindOf(nil))

	assert.True(t, comms.IsNotFound(comms.ErrNotFound))
	assert.True(t, comms.IsThrottled(comms.ErrThrottledClient))
	assert.True(t, comms.IsClientError(comms.NewClientError("op", comms.ErrSigning)))
	assert.False(t, comms.IsClientError(comms.ErrGeneric))
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{err: comms.ErrThrottledClient, want: true},
		{err: comms.ErrServiceUnavailable, want: true},
		{err: comms.ErrServiceFailure, want: true},
		{err: comms.NewClientError("op", comms.ErrTransport), want: true},
		{err: comms.NewClientError("op", comms.ErrInvalidRequest), want: false},
		{err: comms.ErrBadRequest, want: false},
		{err: comms.ErrGeneric, want: false},
		{err: errors.New("plain"), want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, comms.IsRetryable(tt.err), "%v", tt.err)
	}
}

func TestRemoteKinds(t *testing.T) {
	t.Parallel()

	kinds := comms.RemoteKinds()
	assert.Len(t, kinds, 11)
	assert.NotContains(t, kinds, comms.KindGeneric)
	assert.NotContains(t, kinds, comms.KindClient)
}
