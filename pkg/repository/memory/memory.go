package memory

import (
	"context"
	"sync"

	"github.com/kintai-dev/workstamper/pkg/domain/interfaces"
	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Repository is an in-memory token store for development and tests
type Repository struct {
	mu     sync.RWMutex
	tokens map[types.SlackUserID]model.UserToken
}

var _ interfaces.Repository = &Repository{}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		tokens: make(map[types.SlackUserID]model.UserToken),
	}
}

func (r *Repository) PutUserToken(ctx context.Context, token *model.UserToken) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token.Sub] = *token
	return nil
}

func (r *Repository) GetUserToken(ctx context.Context, sub types.SlackUserID) (*model.UserToken, error) {
	if err := sub.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid subject")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokens[sub]
	if !ok {
		return nil, nil
	}

	return &token, nil
}

func (r *Repository) Close() error {
	return nil
}
