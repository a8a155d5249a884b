package workspace

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid workspace token")

// Claims is the payload of a workspace token. Subject carries the uid the
// token was issued to, so a leaked token cannot be replayed by another caller.
type Claims struct {
	WorkspaceID string `json:"workspace_id"`
	Role        string `json:"role"`
	Generation  int64  `json:"generation"`
	jwt.RegisteredClaims
}

// Codec signs and verifies workspace tokens (HS256).
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl}
}

// Issue signs a token binding uid to a role within workspaceID at the given
// generation.
func (c *Codec) Issue(workspaceID, uid string, role Role, generation int64) (string, error) {
	now := time.Now()
	claims := Claims{
		WorkspaceID: workspaceID,
		Role:        string(role),
		Generation:  generation,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode parses and verifies a token, returning its claims.
func (c *Codec) Decode(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errInvalidToken
	}
	if claims.WorkspaceID == "" || claims.Subject == "" {
		return nil, errInvalidToken
	}
	return &claims, nil
}
