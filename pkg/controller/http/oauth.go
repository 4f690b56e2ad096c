package http

import (
	"net/http"

	"github.com/kintai-dev/workstamper/pkg/usecase"
	"github.com/kintai-dev/workstamper/pkg/utils/errutil"
	"github.com/kintai-dev/workstamper/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const linkedPage = `<!DOCTYPE html>
<html><body>
<p>Your freee account is now linked. You can close this tab and return to Slack.</p>
</body></html>`

// oauthCallbackHandler receives the HR provider's authorization redirect.
// The state parameter carries the Slack user ID set when the link was
// issued, so the exchanged token can be stored under that subject.
func oauthCallbackHandler(authUC *usecase.AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		code := r.URL.Query().Get("code")
		if code == "" {
			errutil.HandleHTTP(ctx, w, goerr.New("missing authorization code"), http.StatusBadRequest)
			return
		}

		state := r.URL.Query().Get("state")
		if state == "" {
			errutil.HandleHTTP(ctx, w, goerr.New("missing state parameter"), http.StatusBadRequest)
			return
		}

		if err := authUC.HandleCallback(ctx, code, state); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		safe.Write(ctx, w, []byte(linkedPage))
	}
}
