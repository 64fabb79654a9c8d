package comms

import (
	"net/url"
	"strconv"
)

// CallOptions is embedded in every request. It is never serialised.
type CallOptions struct {
	// Credentials, when set, sign this call instead of the client's provider.
	Credentials *Credentials `json:"-" yaml:"-"`
}

// CallCredentials returns the per-call credential override, or nil.
func (o CallOptions) CallCredentials() *Credentials {
	return o.Credentials
}

// ListParams holds the pagination parameters shared by list requests.
type ListParams struct {
	MaxResults int    `json:"-" validate:"omitempty,min=1,max=99"`
	NextToken  string `json:"-"`
}

// ToValues converts the pagination parameters to query values.
func (p ListParams) ToValues() url.Values {
	values := url.Values{}

	if p.MaxResults > 0 {
		values.Set("max-results", strconv.Itoa(p.MaxResults))
	}

	if p.NextToken != "" {
		values.Set("next-token", p.NextToken)
	}

	return values
}

// ListResponse represents one page of a list call.
type ListResponse[T any] struct {
	Items     []T     `json:"Items"               yaml:"items"`
	NextToken *string `json:"NextToken,omitempty" yaml:"next_token,omitempty"`
}

// HasNext reports whether another page is available.
func (r *ListResponse[T]) HasNext() bool {
	return r != nil && r.NextToken != nil && *r.NextToken != ""
}
