package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer. ErrNotLinked and ErrReauthRequired
// are deliberately distinct: the first means the user never authorized the
// HR provider, the second means a stored credential was rejected on
// refresh. Both end in an authorization link, with different wording.
var (
	ErrNotLinked              = goerr.New("freee account is not linked")
	ErrReauthRequired         = goerr.New("freee token refresh was rejected")
	ErrUnsupportedApplication = goerr.New("application type is not supported")
)
