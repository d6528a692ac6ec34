// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-signing-secret")

const (
	testIssuer   = "https://securetoken.google.com/hostelhub-test"
	testAudience = "hostelhub-test"
)

// signHS256 mints a token signed with testSecret.
func signHS256(t *testing.T, c jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// validClaims returns claims that pass every check of testVerifier.
func validClaims(sub, name string) jwt.MapClaims {
	now := time.Now()
	c := jwt.MapClaims{
		"sub": sub,
		"iss": testIssuer,
		"aud": testAudience,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if name != "" {
		c["name"] = name
	}
	return c
}

func testVerifier(t *testing.T) *JWTVerifier {
	t.Helper()
	v, err := NewJWTVerifier(VerifierOptions{Secret: testSecret, Issuer: testIssuer, Audience: testAudience})
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	return v
}

func TestNewJWTVerifierRequiresKey(t *testing.T) {
	_, err := NewJWTVerifier(VerifierOptions{Issuer: testIssuer})
	if !errors.Is(err, ErrNoVerificationKey) {
		t.Errorf("expected ErrNoVerificationKey, got %v", err)
	}
}

func TestJWTVerifierValid(t *testing.T) {
	v := testVerifier(t)

	id, err := v.Verify(context.Background(), signHS256(t, validClaims("uid-123", "Alice")))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UID != "uid-123" {
		t.Errorf("UID: got %q", id.UID)
	}
	if id.Name == nil || *id.Name != "Alice" {
		t.Errorf("Name: got %v", id.Name)
	}
}

func TestJWTVerifierWithoutName(t *testing.T) {
	v := testVerifier(t)

	id, err := v.Verify(context.Background(), signHS256(t, validClaims("uid-123", "")))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Name != nil {
		t.Errorf("expected nil name, got %q", *id.Name)
	}
}

func TestJWTVerifierRejects(t *testing.T) {
	v := testVerifier(t)

	expired := validClaims("uid-1", "")
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noExp := validClaims("uid-1", "")
	delete(noExp, "exp")

	wrongIssuer := validClaims("uid-1", "")
	wrongIssuer["iss"] = "https://evil.example.com"

	wrongAudience := validClaims("uid-1", "")
	wrongAudience["aud"] = "another-project"

	noSubject := validClaims("", "")

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("uid-1", "")).
		SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims("uid-1", "")).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired", signHS256(t, expired)},
		{"missing expiry", signHS256(t, noExp)},
		{"wrong issuer", signHS256(t, wrongIssuer)},
		{"wrong audience", signHS256(t, wrongAudience)},
		{"empty subject", signHS256(t, noSubject)},
		{"wrong key", otherKey},
		{"alg none", unsigned},
		{"garbage", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(context.Background(), tt.token); err == nil {
				t.Error("expected verification error")
			}
		})
	}
}

func TestJWTVerifierRS256(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "pub.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	v, err := NewJWTVerifierFromConfig(context.Background(), VerifierConfig{
		PublicKeyFile: path,
		Secret:        string(testSecret),
		Issuer:        testIssuer,
		Audience:      testAudience,
	})
	if err != nil {
		t.Fatalf("NewJWTVerifierFromConfig: %v", err)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims("uid-rsa", "")).SignedString(priv)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UID != "uid-rsa" {
		t.Errorf("UID: got %q", id.UID)
	}

	// An HS256 token must not be accepted by an RS256 verifier.
	if _, err := v.Verify(context.Background(), signHS256(t, validClaims("uid-rsa", ""))); err == nil {
		t.Error("expected HS256 token to be rejected")
	}
}

func TestJWTVerifierClockSkew(t *testing.T) {
	v := testVerifier(t)

	// Issued a few seconds "in the future" by a provider whose clock runs ahead.
	early := validClaims("uid-skew", "")
	early["iat"] = time.Now().Add(10 * time.Second).Unix()
	if _, err := v.Verify(context.Background(), signHS256(t, early)); err != nil {
		t.Errorf("token within clock skew rejected: %v", err)
	}

	justExpired := validClaims("uid-skew", "")
	justExpired["exp"] = time.Now().Add(-5 * time.Second).Unix()
	if _, err := v.Verify(context.Background(), signHS256(t, justExpired)); err != nil {
		t.Errorf("token expired within clock skew rejected: %v", err)
	}

	future := validClaims("uid-skew", "")
	future["iat"] = time.Now().Add(5 * time.Minute).Unix()
	if _, err := v.Verify(context.Background(), signHS256(t, future)); err == nil {
		t.Error("expected token issued far in the future to be rejected")
	}
}

// rsaJWK renders pub as a public RS256 JWK.
func rsaJWK(kid string, pub *rsa.PublicKey) map[string]string {
	return map[string]string{
		"kty": "RSA",
		"kid": kid,
		"alg": "RS256",
		"use": "sig",
		"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

// testKeySet generates two signing keys and the JWK set publishing both.
func testKeySet(t *testing.T) (map[string]*rsa.PrivateKey, []byte) {
	t.Helper()
	keys := map[string]*rsa.PrivateKey{}
	var jwks []map[string]string
	for _, kid := range []string{"key-2025", "key-2026"} {
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("generate key: %v", err)
		}
		keys[kid] = priv
		jwks = append(jwks, rsaJWK(kid, &priv.PublicKey))
	}
	raw, err := json.Marshal(map[string]any{"keys": jwks})
	if err != nil {
		t.Fatalf("marshal key set: %v", err)
	}
	return keys, raw
}

// signRS256 mints a token signed by priv and labelled with kid.
func signRS256(t *testing.T, priv *rsa.PrivateKey, kid string, c jwt.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, c)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	s, err := tok.SignedString(priv)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestJWTVerifierKeySetSelectsByKid(t *testing.T) {
	keys, raw := testKeySet(t)
	jwks, err := keyfunc.NewJWKSetJSON(raw)
	if err != nil {
		t.Fatalf("NewJWKSetJSON: %v", err)
	}
	v, err := NewJWTVerifier(VerifierOptions{JWKS: jwks, Issuer: testIssuer, Audience: testAudience})
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}

	// Both the current and the rotated-in key verify.
	for kid, priv := range keys {
		id, err := v.Verify(context.Background(), signRS256(t, priv, kid, validClaims("uid-"+kid, "")))
		if err != nil {
			t.Fatalf("Verify with %s: %v", kid, err)
		}
		if id.UID != "uid-"+kid {
			t.Errorf("UID: got %q", id.UID)
		}
	}

	stranger, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"kid of the other key", signRS256(t, keys["key-2025"], "key-2026", validClaims("uid-1", ""))},
		{"unknown kid", signRS256(t, stranger, "key-1999", validClaims("uid-1", ""))},
		{"missing kid", signRS256(t, keys["key-2025"], "", validClaims("uid-1", ""))},
		{"hs256", signHS256(t, validClaims("uid-1", ""))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(context.Background(), tt.token); err == nil {
				t.Error("expected verification error")
			}
		})
	}
}

func TestNewJWTVerifierFromConfigKeySetURL(t *testing.T) {
	keys, raw := testKeySet(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// The key set wins over a configured secret.
	v, err := NewJWTVerifierFromConfig(ctx, VerifierConfig{
		JWKSURL:  srv.URL,
		Secret:   string(testSecret),
		Issuer:   testIssuer,
		Audience: testAudience,
	})
	if err != nil {
		t.Fatalf("NewJWTVerifierFromConfig: %v", err)
	}

	if _, err := v.Verify(context.Background(), signRS256(t, keys["key-2026"], "key-2026", validClaims("uid-url", ""))); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if _, err := v.Verify(context.Background(), signHS256(t, validClaims("uid-url", ""))); err == nil {
		t.Error("expected HS256 token to be rejected when a key set is configured")
	}
}

func TestLoadPublicKeyErrors(t *testing.T) {
	if _, err := LoadPublicKey(filepath.Join(t.TempDir(), "missing.pem")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.pem")
	os.WriteFile(path, []byte("not a key"), 0o600)
	if _, err := LoadPublicKey(path); err == nil {
		t.Error("expected error for invalid PEM")
	}
}
