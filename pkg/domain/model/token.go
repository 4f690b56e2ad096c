package model

import (
	"time"

	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// UserToken holds the HR provider OAuth credential set for one Slack user.
// There is at most one record per subject; writes have upsert semantics.
// The access/refresh tokens are tagged so the masq log filter redacts them.
type UserToken struct {
	Sub          types.SlackUserID `firestore:"sub" json:"sub"`
	AccessToken  string            `firestore:"access_token" json:"access_token" masq:"secret"`
	RefreshToken string            `firestore:"refresh_token" json:"refresh_token" masq:"secret"`
	IssuedAt     time.Time         `firestore:"issued_at" json:"issued_at"`
	ExpiresIn    int64             `firestore:"expires_in" json:"expires_in"` // seconds
}

// NewUserToken creates a token record issued at the given time
func NewUserToken(sub types.SlackUserID, accessToken, refreshToken string, issuedAt time.Time, expiresIn int64) *UserToken {
	return &UserToken{
		Sub:          sub,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		IssuedAt:     issuedAt,
		ExpiresIn:    expiresIn,
	}
}

// ExpiresAt returns the absolute expiry time of the access token
func (t *UserToken) ExpiresAt() time.Time {
	return t.IssuedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// Expired reports whether the access token has expired at the given time
func (t *UserToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt())
}

// Validate checks if the token record is valid
func (t *UserToken) Validate() error {
	if err := t.Sub.Validate(); err != nil {
		return goerr.Wrap(err, "invalid subject")
	}
	if t.AccessToken == "" {
		return goerr.New("access token is empty", goerr.V("sub", t.Sub))
	}
	if t.RefreshToken == "" {
		return goerr.New("refresh token is empty", goerr.V("sub", t.Sub))
	}
	if t.IssuedAt.IsZero() {
		return goerr.New("issued_at is zero", goerr.V("sub", t.Sub))
	}
	if t.ExpiresIn <= 0 {
		return goerr.New("expires_in must be positive", goerr.V("sub", t.Sub), goerr.V("expires_in", t.ExpiresIn))
	}
	return nil
}
