// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec verifies the access tokens presented to the API.
//
// # Architecture
//
// Tokens are issued by the identity service; this service only holds the
// RSA public key. The verified claims provide the creator id stamped on new
// zones and adventures.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// TokenVerifier checks RS256 access tokens against a public key.
type TokenVerifier struct {
	publicKey *rsa.PublicKey
	issuer    string
}

// NewTokenVerifier reads a PEM encoded RSA public key from disk.
func NewTokenVerifier(publicKeyPath, issuer string) (*TokenVerifier, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to parse public key: %w", err)
	}

	return NewTokenVerifierFromKey(publicKey, issuer), nil
}

// NewTokenVerifierFromKey builds a verifier around an already parsed key.
func NewTokenVerifierFromKey(publicKey *rsa.PublicKey, issuer string) *TokenVerifier {
	return &TokenVerifier{publicKey: publicKey, issuer: issuer}
}

// VerifyToken checks the signature, expiry and issuer of a JWT string.
func (verifier *TokenVerifier) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
		}
		return verifier.publicKey, nil
	}, jwt.WithIssuer(verifier.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	return claims, nil
}
