package auth

import (
	"crypto/rsa"
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoKey          = errors.New("jwt: neither public key nor secret configured")
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("user id not found in token")
)

// JWTVerifier verifies RS256 tokens against a public key, or HS256 tokens
// against a shared secret when no key is configured, and returns the user id claim.
type JWTVerifier struct {
	pub    *rsa.PublicKey
	secret []byte
	parser *jwt.Parser
}

func NewJWTVerifier(pubPath, secret string) (*JWTVerifier, error) {
	v := &JWTVerifier{}
	switch {
	case pubPath != "":
		b, err := os.ReadFile(pubPath)
		if err != nil {
			return nil, err
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM(b)
		if err != nil {
			return nil, err
		}
		v.pub = pub
		v.parser = jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}), jwt.WithExpirationRequired())
	case secret != "":
		v.secret = []byte(secret)
		v.parser = jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	default:
		return nil, ErrNoKey
	}
	return v, nil
}

func NewRSAVerifier(pub *rsa.PublicKey) *JWTVerifier {
	return &JWTVerifier{pub: pub, parser: jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}), jwt.WithExpirationRequired())}
}

func (j *JWTVerifier) key(*jwt.Token) (interface{}, error) {
	if j.pub != nil {
		return j.pub, nil
	}
	return j.secret, nil
}

// VerifyToken returns the caller id (user_id, _id or sub claim) of a valid token.
func (j *JWTVerifier) VerifyToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := j.parser.ParseWithClaims(token, claims, j.key)
	if err != nil {
		return "", err
	}
	if !t.Valid {
		return "", ErrInvalidToken
	}
	for _, k := range []string{"user_id", "_id", "sub"} {
		if v, ok := claims[k].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", ErrMissingSubject
}
