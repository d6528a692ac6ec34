// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified subject of a bearer token.
type Identity struct {
	UID  string  // stable identity provider user ID
	Name *string // optional display name
}

// TokenVerifier checks a bearer token against the identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ErrNoVerificationKey is returned when no shared secret, public key or
// key set is configured.
var ErrNoVerificationKey = errors.New("auth: no token verification key configured")

// clockSkew is the leeway allowed on exp, nbf and iat against the
// provider's clock.
const clockSkew = 30 * time.Second

// claims are the token claims the verifier reads. Identity provider tokens
// carry the user ID in "sub" and optionally a display name in "name".
type claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates signed JWTs locally. It accepts exactly one
// signing method: HS256 when built with a secret, RS256 otherwise.
type JWTVerifier struct {
	keyFunc jwt.Keyfunc
	parser  *jwt.Parser
}

// VerifierOptions configure a JWTVerifier. Exactly one of JWKS, PublicKey
// or Secret is used, in that order of preference. Empty Issuer or Audience
// disables that check.
type VerifierOptions struct {
	Secret    []byte
	PublicKey *rsa.PublicKey
	// JWKS resolves RS256 keys by the token's "kid" header and follows the
	// provider's key rotation.
	JWKS     keyfunc.Keyfunc
	Issuer   string
	Audience string
}

// NewJWTVerifier builds a verifier from the given options.
func NewJWTVerifier(opts VerifierOptions) (*JWTVerifier, error) {
	var (
		keyFunc jwt.Keyfunc
		method  string
	)
	switch {
	case opts.JWKS != nil:
		keyFunc, method = opts.JWKS.Keyfunc, jwt.SigningMethodRS256.Alg()
	case opts.PublicKey != nil:
		keyFunc, method = staticKey(opts.PublicKey), jwt.SigningMethodRS256.Alg()
	case len(opts.Secret) > 0:
		keyFunc, method = staticKey(opts.Secret), jwt.SigningMethodHS256.Alg()
	default:
		return nil, ErrNoVerificationKey
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}

	return &JWTVerifier{keyFunc: keyFunc, parser: jwt.NewParser(parserOpts...)}, nil
}

func staticKey(key any) jwt.Keyfunc {
	return func(*jwt.Token) (any, error) { return key, nil }
}

// VerifierConfig names where verification keys come from. JWKSURL wins
// over PublicKeyFile, which wins over Secret.
type VerifierConfig struct {
	JWKSURL       string // remote JWK set, refreshed in the background
	PublicKeyFile string // PEM-encoded RSA public key
	Secret        string // HS256 shared secret
	Issuer        string
	Audience      string
}

// NewJWTVerifierFromConfig builds a verifier from cfg. With a JWKS URL the
// key set is fetched before returning and refreshed until ctx is done.
func NewJWTVerifierFromConfig(ctx context.Context, cfg VerifierConfig) (*JWTVerifier, error) {
	opts := VerifierOptions{Issuer: cfg.Issuer, Audience: cfg.Audience}
	switch {
	case cfg.JWKSURL != "":
		jwks, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.JWKSURL})
		if err != nil {
			return nil, fmt.Errorf("load key set %s: %w", cfg.JWKSURL, err)
		}
		opts.JWKS = jwks
	case cfg.PublicKeyFile != "":
		pub, err := LoadPublicKey(cfg.PublicKeyFile)
		if err != nil {
			return nil, err
		}
		opts.PublicKey = pub
	default:
		opts.Secret = []byte(cfg.Secret)
	}
	return NewJWTVerifier(opts)
}

// LoadPublicKey reads a PEM-encoded RSA public key or certificate.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("parse public key %s: %w", path, err)
	}
	return pub, nil
}

// Verify parses and validates token. The signature, expiry, issuer and
// audience are checked; the subject must be non-empty.
func (v *JWTVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	var c claims
	if _, err := v.parser.ParseWithClaims(token, &c, v.keyFunc); err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}

	if strings.TrimSpace(c.Subject) == "" {
		return nil, fmt.Errorf("verify token: %w", jwt.ErrTokenInvalidSubject)
	}

	id := &Identity{UID: c.Subject}
	if name := strings.TrimSpace(c.Name); name != "" {
		id.Name = &name
	}
	return id, nil
}
