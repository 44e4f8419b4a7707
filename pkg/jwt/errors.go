package jwt

import "errors"

var (
	ErrInvalidToken            = errors.New("jwt: invalid token structure")
	ErrExpiredToken            = errors.New("jwt: token has expired")
	ErrInvalidSignature        = errors.New("jwt: signature verification failed")
	ErrUnexpectedSigningMethod = errors.New("jwt: unexpected signing method")
	ErrMissingSigningKey       = errors.New("jwt: missing signing key")
	ErrMissingClaims           = errors.New("jwt: claims cannot be nil")
	ErrNotYetValid             = errors.New("jwt: token not valid yet")
)
