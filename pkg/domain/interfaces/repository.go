package interfaces

import (
	"context"

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
)

// Repository defines the interface for data persistence. The only
// long-lived state is the per-user OAuth token store.
type Repository interface {
	// PutUserToken inserts or overwrites the token record keyed by
	// token.Sub. The write must be atomic per subject.
	PutUserToken(ctx context.Context, token *model.UserToken) error

	// GetUserToken returns the token record for the subject, or
	// (nil, nil) when the subject has never linked an account.
	GetUserToken(ctx context.Context, sub types.SlackUserID) (*model.UserToken, error)

	Close() error
}
