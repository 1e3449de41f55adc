package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kusitms-com/meetupd/internal/errcode"
)

const (
	// AuthHeader carries the bearer credential.
	AuthHeader = "Authorization"
	// TokenScheme is the expected credential scheme.
	TokenScheme = "Bearer"
)

var (
	// ErrNoAuthHeader is returned when the request carries no credential.
	ErrNoAuthHeader = errors.New("no authorization header")
	// ErrInvalidScheme is returned when the credential is not a bearer token.
	ErrInvalidScheme = errors.New("invalid authorization scheme")
)

type gateOptions struct {
	header            string
	scheme            string
	missingCredential errcode.Code
}

// GateOption customises the behaviour of the authentication gate.
type GateOption func(*gateOptions)

// WithHeader overrides the header the bearer token is read from.
func WithHeader(header string) GateOption {
	return func(o *gateOptions) {
		if header != "" {
			o.header = header
		}
	}
}

// WithMissingCredentialCode sets the code returned when the credential is
// absent or malformed. The default is errcode.Forbidden.
func WithMissingCredentialCode(code errcode.Code) GateOption {
	return func(o *gateOptions) {
		if code.Name != "" {
			o.missingCredential = code
		}
	}
}

// Gate decides, per request, whether a bearer token is required and valid.
// It holds no per-request state and is safe for concurrent use.
type Gate struct {
	allowlist *Allowlist
	tokens    TokenProvider
	opts      gateOptions
}

// NewGate builds a gate over an allowlist and a token provider.
func NewGate(allowlist *Allowlist, tokens TokenProvider, opts ...GateOption) *Gate {
	o := gateOptions{
		header:            AuthHeader,
		scheme:            TokenScheme,
		missingCredential: errcode.Forbidden,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Gate{allowlist: allowlist, tokens: tokens, opts: o}
}

// Authenticate evaluates r and returns exactly one outcome.
func (g *Gate) Authenticate(r *http.Request) Outcome {
	if r.Method == http.MethodOptions {
		return Allowlisted("")
	}
	if pattern, ok := g.allowlist.Match(r.URL.Path); ok {
		return Allowlisted(pattern)
	}

	token, err := ExtractBearer(r.Header.Get(g.opts.header), g.opts.scheme)
	if err != nil {
		return Rejected(g.opts.missingCredential, err)
	}

	if err := g.tokens.ValidateAccessToken(token); err != nil {
		return Rejected(rejectionCode(err), err)
	}

	subject, err := g.tokens.Subject(token)
	if err != nil {
		return Rejected(rejectionCode(err), err)
	}
	return Authenticated(subject)
}

// ExtractBearer returns the token following scheme in an Authorization
// header value. The header is split on the first space.
func ExtractBearer(header, scheme string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrNoAuthHeader
	}
	if !strings.HasPrefix(header, scheme) {
		return "", ErrInvalidScheme
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != scheme {
		return "", ErrInvalidScheme
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrInvalidScheme
	}
	return token, nil
}

// rejectionCode keeps validator codes in the unauthorized class.
func rejectionCode(err error) errcode.Code {
	code := errcode.CodeOf(err)
	if code.Class != errcode.ClassUnauthorized {
		return errcode.Unauthorized
	}
	return code
}
