package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// StandardClaims holds the RFC 7519 registered claims this service
// understands. Application-specific claims embed StandardClaims.
type StandardClaims struct {
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

var header = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

// Service signs and verifies HMAC-SHA256 JWTs.
type Service struct {
	key []byte
}

// New builds a Service from a raw signing key.
func New(key []byte) (*Service, error) {
	if len(key) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &Service{key: key}, nil
}

// NewFromString builds a Service from a string signing key.
func NewFromString(key string) (*Service, error) {
	return New([]byte(key))
}

// Generate signs claims and returns the encoded compact JWT.
func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)

	signingInput := header + "." + encodedPayload
	sig := s.sign(signingInput)

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// Parse verifies the token's signature and temporal claims, then unmarshals
// its payload into claims (a pointer to a struct embedding StandardClaims or
// matching its field layout).
func (s *Service) Parse(token string, claims any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	signingInput := parts[0] + "." + parts[1]
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return ErrInvalidToken
	}

	expected := s.sign(signingInput)
	if subtle.ConstantTimeCompare(sig, expected) != 1 {
		return ErrInvalidSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrInvalidToken
	}

	if err := json.Unmarshal(payload, claims); err != nil {
		return ErrInvalidToken
	}

	var std StandardClaims
	if err := json.Unmarshal(payload, &std); err != nil {
		return ErrInvalidToken
	}

	now := time.Now().Unix()
	if std.ExpiresAt != 0 && now >= std.ExpiresAt {
		return ErrExpiredToken
	}
	if std.NotBefore != 0 && now < std.NotBefore {
		return ErrNotYetValid
	}

	return nil
}

func (s *Service) sign(signingInput string) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(signingInput))
	return mac.Sum(nil)
}
