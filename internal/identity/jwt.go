package identity

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier checks provider-issued HS256 tokens locally using the shared
// signing secret.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for HMAC-signed provider tokens.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token, returning the identity from its
// sub and email claims.
func (v *JWTVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if rawToken == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)

	return &Identity{UserID: sub, Email: email}, nil
}
