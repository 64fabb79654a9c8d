package executor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// WireRequest is the encoded form of a request, relative to the endpoint.
type WireRequest struct {
	Method string
	// Path is already escaped, see PathOf.
	Path   string
	Query  url.Values
	Header http.Header
	// Body is nil for requests without a payload.
	Body []byte
}

// WireResponse is a fully read response.
type WireResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Encoder turns a request value into a WireRequest. It must not modify in.
type Encoder[In any] func(in In) (*WireRequest, error)

// Decoder turns a successful response into a result.
type Decoder[Out any] func(resp *WireResponse) (Out, error)

// PathOf joins escaped path segments into an absolute path.
func PathOf(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}

	return "/" + strings.Join(escaped, "/")
}

// NewRequest returns a bodiless WireRequest.
func NewRequest(method, path string, query url.Values) *WireRequest {
	return &WireRequest{
		Method: method,
		Path:   path,
		Query:  query,
		Header: http.Header{},
	}
}

// NewJSONRequest returns a WireRequest whose body is payload marshalled as JSON.
func NewJSONRequest(method, path string, query url.Values, payload any) (*WireRequest, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s %s body: %w", method, path, err)
	}

	req := NewRequest(method, path, query)
	req.Body = body

	return req, nil
}

// DecodeJSON unmarshals the body into a new T. An empty body yields a zero T.
func DecodeJSON[T any](resp *WireResponse) (*T, error) {
	result := new(T)

	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return result, nil
	}

	if err := json.Unmarshal(resp.Body, result); err != nil {
		return nil, fmt.Errorf("unmarshaling %T: %w", result, err)
	}

	return result, nil
}

// DecodeField unmarshals the member named field of a JSON object body, the
// shape used by single-resource responses such as {"Account": {...}}.
func DecodeField[T any](field string) Decoder[*T] {
	return func(resp *WireResponse) (*T, error) {
		var envelope map[string]json.RawMessage

		if err := json.Unmarshal(resp.Body, &envelope); err != nil {
			return nil, fmt.Errorf("unmarshaling response envelope: %w", err)
		}

		raw, ok := envelope[field]
		if !ok || string(raw) == "null" {
			return nil, fmt.Errorf("%w: %q", ErrMissingField, field)
		}

		result := new(T)
		if err := json.Unmarshal(raw, result); err != nil {
			return nil, fmt.Errorf("unmarshaling %s: %w", field, err)
		}

		return result, nil
	}
}

// DiscardBody is the decoder for operations without a result.
func DiscardBody(*WireResponse) (struct{}, error) {
	return struct{}{}, nil
}
