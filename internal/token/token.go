// Package token implements the signed, expiring tokens used to build
// tamper-resistant exercise delete links. A token embeds the exercise id and
// a purpose string; expiry is evaluated from the embedded issue timestamp so
// no server-side state is needed.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PurposeExerciseDelete namespaces tokens minted for exercise delete links.
const PurposeExerciseDelete = "exercise-delete"

// ExerciseDeleteMaxAge is the fixed lifetime of a delete-link token.
const ExerciseDeleteMaxAge = 3600 * time.Second

// ErrInvalidToken covers every decode failure: bad signature, wrong purpose,
// malformed payload, or expiry. Callers treat it as "link invalid or
// expired" and must not produce side effects.
var ErrInvalidToken = errors.New("token invalid or expired")

type claims struct {
	EID     int64  `json:"eid"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Codec encodes and decodes exercise-id tokens with an HMAC key.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a codec signing with the given secret.
func NewCodec(secret string) *Codec {
	if secret == "" {
		panic("token secret cannot be empty")
	}
	return &Codec{secret: []byte(secret), now: time.Now}
}

// Encode serializes the exercise id into a URL-safe signed string scoped to
// purpose.
func (c *Codec) Encode(exerciseID int64, purpose string) (string, error) {
	cl := &claims{
		EID:     exerciseID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	return t.SignedString(c.secret)
}

// Decode verifies the signature and purpose and checks that the token is no
// older than maxAge. Every failure maps to ErrInvalidToken.
func (c *Codec) Decode(tokenString, purpose string, maxAge time.Duration) (int64, error) {
	cl := &claims{}
	t, err := jwt.ParseWithClaims(tokenString, cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil || !t.Valid {
		return 0, ErrInvalidToken
	}
	if cl.Purpose != purpose {
		return 0, ErrInvalidToken
	}
	if cl.IssuedAt == nil || c.now().Sub(cl.IssuedAt.Time) > maxAge {
		return 0, ErrInvalidToken
	}
	return cl.EID, nil
}
