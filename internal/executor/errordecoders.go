package executor

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// Discriminator is the signal used to pick an error decoder.
type Discriminator struct {
	StatusCode int
	// Type is the error type without namespace or suffix, e.g. "NotFoundException".
	Type string
}

// ParseDiscriminator reads the error type from the X-Amzn-ErrorType header,
// then the body's __type, then the body's Code.
func ParseDiscriminator(resp *WireResponse) Discriminator {
	d := Discriminator{StatusCode: resp.StatusCode}

	if header := resp.Header.Get(constants.HeaderErrorType); header != "" {
		d.Type = sanitizeErrorType(header)

		return d
	}

	if !gjson.ValidBytes(resp.Body) {
		return d
	}

	body := gjson.ParseBytes(resp.Body)

	for _, path := range []string{"__type", "Code", "code"} {
		if value := body.Get(path); value.Type == gjson.String && value.Str != "" {
			d.Type = sanitizeErrorType(value.Str)

			return d
		}
	}

	return d
}

// sanitizeErrorType strips "ns#" prefixes and ":uri" suffixes.
func sanitizeErrorType(raw string) string {
	t := strings.TrimSpace(raw)

	if i := strings.IndexByte(t, ':'); i >= 0 {
		t = t[:i]
	}

	if i := strings.LastIndexByte(t, '#'); i >= 0 {
		t = t[i+1:]
	}

	return t
}

// ErrorDecoder turns a matching error response into a kinded error.
type ErrorDecoder struct {
	Kind   comms.ErrorKind
	Match  func(d Discriminator) bool
	Decode func(d Discriminator, body []byte) *comms.Error
}

// ErrorDecoders is an ordered, immutable set of decoders. The zero value and
// nil decode everything as KindGeneric.
type ErrorDecoders struct {
	decoders []ErrorDecoder
}

// NewErrorDecoders copies decoders into a new set. Decoders without Match are skipped.
func NewErrorDecoders(decoders ...ErrorDecoder) *ErrorDecoders {
	kept := make([]ErrorDecoder, 0, len(decoders))

	for _, decoder := range decoders {
		if decoder.Match == nil {
			continue
		}

		kept = append(kept, decoder)
	}

	return &ErrorDecoders{decoders: kept}
}

// Len returns the number of decoders.
func (s *ErrorDecoders) Len() int {
	if s == nil {
		return 0
	}

	return len(s.decoders)
}

// With returns a new set with extra decoders tried before the existing ones.
func (s *ErrorDecoders) With(decoders ...ErrorDecoder) *ErrorDecoders {
	combined := make([]ErrorDecoder, 0, len(decoders)+s.Len())
	combined = append(combined, decoders...)

	if s != nil {
		combined = append(combined, s.decoders...)
	}

	return NewErrorDecoders(combined...)
}

// Decode picks the first matching decoder, or DecodeGenericError.
func (s *ErrorDecoders) Decode(resp *WireResponse) *comms.Error {
	d := ParseDiscriminator(resp)

	if s != nil {
		for _, decoder := range s.decoders {
			if !decoder.Match(d) {
				continue
			}

			var decoded *comms.Error
			if decoder.Decode != nil {
				decoded = decoder.Decode(d, resp.Body)
			} else {
				decoded = decodeKinded(decoder.Kind, d, resp.Body)
			}

			if decoded != nil {
				return decoded
			}
		}
	}

	return DecodeGenericError(d, resp.Body)
}

// wireTypes maps each remote kind to the error type the service sends.
var wireTypes = map[comms.ErrorKind]string{
	comms.KindAccessDenied:          "AccessDeniedException",
	comms.KindBadRequest:            "BadRequestException",
	comms.KindConflict:              "ConflictException",
	comms.KindForbidden:             "ForbiddenException",
	comms.KindNotFound:              "NotFoundException",
	comms.KindResourceLimitExceeded: "ResourceLimitExceededException",
	comms.KindServiceFailure:        "ServiceFailureException",
	comms.KindServiceUnavailable:    "ServiceUnavailableException",
	comms.KindThrottledClient:       "ThrottledClientException",
	comms.KindUnauthorizedClient:    "UnauthorizedClientException",
	comms.KindUnprocessableEntity:   "UnprocessableEntityException",
}

// WireType returns the error type the service uses for kind, or "".
func WireType(kind comms.ErrorKind) string {
	return wireTypes[kind]
}

// MatchType matches the wire type, with or without its "Exception" suffix.
func MatchType(wireType string) func(Discriminator) bool {
	short := strings.TrimSuffix(wireType, "Exception")

	return func(d Discriminator) bool {
		return d.Type == wireType || d.Type == short
	}
}

// KindDecoder is the decoder for one of the remote kinds. The ServiceFailure
// decoder also takes 5xx responses that carry no error type at all.
func KindDecoder(kind comms.ErrorKind) ErrorDecoder {
	if kind == comms.KindServiceFailure {
		return ErrorDecoder{
			Kind:   kind,
			Match:  matchServiceFailure,
			Decode: decodeServiceFailure,
		}
	}

	return ErrorDecoder{
		Kind:  kind,
		Match: MatchType(wireTypes[kind]),
	}
}

var matchServiceFailureType = MatchType(wireTypes[comms.KindServiceFailure])

func matchServiceFailure(d Discriminator) bool {
	return matchServiceFailureType(d) || (d.Type == "" && d.StatusCode >= http.StatusInternalServerError)
}

func decodeServiceFailure(d Discriminator, body []byte) *comms.Error {
	decoded := decodeKinded(comms.KindServiceFailure, d, body)
	fillMessage(decoded, d, body)

	return decoded
}

var standardErrorDecoders = func() *ErrorDecoders {
	kinds := comms.RemoteKinds()
	decoders := make([]ErrorDecoder, 0, len(kinds))

	for _, kind := range kinds {
		decoders = append(decoders, KindDecoder(kind))
	}

	return NewErrorDecoders(decoders...)
}()

// StandardErrorDecoders returns the shared set covering every remote kind.
func StandardErrorDecoders() *ErrorDecoders {
	return standardErrorDecoders
}

// DecodeGenericError extracts whatever code and message the body carries.
func DecodeGenericError(d Discriminator, body []byte) *comms.Error {
	decoded := decodeKinded(comms.KindGeneric, d, body)
	fillMessage(decoded, d, body)

	return decoded
}

// fillMessage falls back to the raw body, then to the status text.
func fillMessage(decoded *comms.Error, d Discriminator, body []byte) {
	if decoded.Message == "" {
		decoded.Message = rawMessage(body)
	}

	if decoded.Message == "" {
		decoded.Message = http.StatusText(d.StatusCode)
	}
}

func decodeKinded(kind comms.ErrorKind, d Discriminator, body []byte) *comms.Error {
	decoded := &comms.Error{
		Kind:       kind,
		StatusCode: d.StatusCode,
		Type:       d.Type,
	}

	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		decoded.Code = firstString(parsed, "Code", "code", "__type")
		decoded.Message = firstString(parsed, "Message", "message", "errorMessage")
	}

	if decoded.Code == "" {
		decoded.Code = d.Type
	}

	return decoded
}

func firstString(parsed gjson.Result, paths ...string) string {
	for _, path := range paths {
		if value := parsed.Get(path); value.Exists() && value.String() != "" {
			return value.String()
		}
	}

	return ""
}

func rawMessage(body []byte) string {
	message := strings.TrimSpace(string(body))
	if len(message) <= constants.MaxErrorMessageLength {
		return message
	}

	cut := constants.MaxErrorMessageLength
	for back := 0; back < utf8.UTFMax-1 && cut > 0 && !utf8.RuneStart(message[cut]); back++ {
		cut--
	}

	return message[:cut] + "..."
}
