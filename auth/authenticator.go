package auth

import (
	"context"
	"strings"
	"time"
)

const bearerPrefix = "Bearer "

// PrincipalStore resolves a token subject into the principal's current
// identity. A nil identity with a nil error means the subject is unknown;
// a non-nil error is an infrastructure failure.
type PrincipalStore interface {
	FindIdentityBySubject(ctx context.Context, subject string) (*Identity, error)
}

// Authenticator is the per-request gate: it extracts a bearer token from the
// Authorization header, validates it and resolves the subject into an
// Identity. It never halts the pipeline itself; requests with missing or
// invalid tokens proceed unauthenticated and downstream route policies reject
// them where identity is required. Validation failures are logged for
// observability but deliberately not surfaced to the client at this layer.
type Authenticator struct {
	codec          *Codec
	store          PrincipalStore
	exemptPrefixes []string
	logf           func(format string, args ...any)
	now            func() time.Time
}

func NewAuthenticator(codec *Codec, store PrincipalStore, exemptPrefixes []string, logf func(format string, args ...any)) *Authenticator {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Authenticator{
		codec:          codec,
		store:          store,
		exemptPrefixes: exemptPrefixes,
		logf:           logf,
		now:            time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// Exempt reports whether the path is excluded from token processing entirely
// (documentation and static-resource routes).
func (a *Authenticator) Exempt(path string) bool {
	for _, prefix := range a.exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Authenticate establishes the identity for one request. It returns
// (nil, nil) when the request is unauthenticated: exempt path, absent token,
// or a token that failed validation. Only principal-store infrastructure
// failures are returned as errors.
func (a *Authenticator) Authenticate(ctx context.Context, path string, authorization string) (*Identity, error) {
	if a.Exempt(path) {
		return nil, nil
	}

	tokenText, ok := extractBearerToken(authorization)
	if !ok {
		return nil, nil
	}

	subject, err := a.codec.Validate(tokenText, a.now())
	if err != nil {
		a.logf("rejected bearer token for %s: %v", path, err)
		return nil, nil
	}

	identity, err := a.store.FindIdentityBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		a.logf("token subject %q no longer resolves to a principal", subject)
		return nil, nil
	}

	return identity, nil
}

// extractBearerToken recognizes only the exact "Bearer <token>" shape. Any
// other header value is treated as no token present, not as an error.
func extractBearerToken(authorization string) (string, bool) {
	token, ok := strings.CutPrefix(authorization, bearerPrefix)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
