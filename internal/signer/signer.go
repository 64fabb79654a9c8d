// Package signer implements request signing for the control plane.
package signer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// ErrNoKeys is returned when signing with empty credentials.
var ErrNoKeys = errors.New("credentials have no keys")

// SigV4 signs requests with AWS Signature Version 4.
type SigV4 struct {
	signer      *v4.Signer
	signingName string
	region      string
}

// NewSigV4 creates a signer for the given service name and region. Empty
// values fall back to the control-plane defaults.
func NewSigV4(signingName, region string) *SigV4 {
	if signingName == "" {
		signingName = constants.DefaultSigningName
	}

	if region == "" {
		region = constants.DefaultRegion
	}

	return &SigV4{
		signer:      v4.NewSigner(),
		signingName: signingName,
		region:      region,
	}
}

// Region returns the signing region.
func (s *SigV4) Region() string {
	return s.region
}

// SigningName returns the signing service name.
func (s *SigV4) SigningName() string {
	return s.signingName
}

// Sign adds X-Amz-Date, Authorization and, for temporary credentials,
// X-Amz-Security-Token to req.
func (s *SigV4) Sign(ctx context.Context, req *http.Request, body []byte, creds comms.Credentials, at time.Time) error {
	if !creds.HasKeys() {
		return ErrNoKeys
	}

	if err := s.signer.SignHTTP(ctx, creds, req, PayloadHash(body), s.signingName, s.region, at.UTC()); err != nil {
		return fmt.Errorf("signing %s %s: %w", req.Method, req.URL.Path, err)
	}

	return nil
}

// PayloadHash returns the hex SHA-256 of body.
func PayloadHash(body []byte) string {
	sum := sha256.Sum256(body)

	return hex.EncodeToString(sum[:])
}

// AccessKeyFromAuthorization extracts the access key id from a SigV4
// Authorization header, or "" when the header is not SigV4.
func AccessKeyFromAuthorization(header string) string {
	const credentialPrefix = "Credential="

	if !strings.HasPrefix(header, constants.AuthorizationScheme) {
		return ""
	}

	i := strings.Index(header, credentialPrefix)
	if i < 0 {
		return ""
	}

	scope := header[i+len(credentialPrefix):]
	if end := strings.IndexAny(scope, "/,"); end >= 0 {
		scope = scope[:end]
	}

	return scope
}
