package firestore

import (
	"context"

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const userTokensCollection = "user_tokens"

func (f *Firestore) tokenCollection() string {
	return f.collectionPrefix + userTokensCollection
}

func (f *Firestore) PutUserToken(ctx context.Context, token *model.UserToken) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user token")
	}

	docRef := f.client.Collection(f.tokenCollection()).Doc(token.Sub.String())
	if _, err := docRef.Set(ctx, token); err != nil {
		return goerr.Wrap(err, "failed to put user token to firestore", goerr.V("sub", token.Sub))
	}

	return nil
}

func (f *Firestore) GetUserToken(ctx context.Context, sub types.SlackUserID) (*model.UserToken, error) {
	if err := sub.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid subject")
	}

	docRef := f.client.Collection(f.tokenCollection()).Doc(sub.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get user token from firestore", goerr.V("sub", sub))
	}

	var token model.UserToken
	if err := doc.DataTo(&token); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user token", goerr.V("sub", sub))
	}

	return &token, nil
}
