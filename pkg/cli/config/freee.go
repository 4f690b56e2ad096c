package config

import (
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/kintai-dev/workstamper/pkg/service/freee"
)

// Freee holds CLI flags for the freee HR API client
type Freee struct {
	clientID     string
	clientSecret string
	companyID    int
	apiBaseURL   string
	oauthBaseURL string
}

func (x *Freee) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "freee-client-id",
			Usage:       "freee OAuth application client ID",
			Category:    "freee",
			Destination: &x.clientID,
			Sources:     cli.EnvVars("WORKSTAMPER_FREEE_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "freee-client-secret",
			Usage:       "freee OAuth application client secret",
			Category:    "freee",
			Destination: &x.clientSecret,
			Sources:     cli.EnvVars("WORKSTAMPER_FREEE_CLIENT_SECRET"),
		},
		&cli.IntFlag{
			Name:        "freee-company-id",
			Usage:       "freee company ID used for all HR API calls",
			Category:    "freee",
			Destination: &x.companyID,
			Sources:     cli.EnvVars("WORKSTAMPER_FREEE_COMPANY_ID"),
		},
		&cli.StringFlag{
			Name:        "freee-api-base-url",
			Usage:       "freee HR API host (for testing)",
			Category:    "freee",
			Value:       freee.DefaultAPIBaseURL,
			Destination: &x.apiBaseURL,
			Sources:     cli.EnvVars("WORKSTAMPER_FREEE_API_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "freee-oauth-base-url",
			Usage:       "freee accounts host (for testing)",
			Category:    "freee",
			Value:       freee.DefaultOAuthBaseURL,
			Destination: &x.oauthBaseURL,
			Sources:     cli.EnvVars("WORKSTAMPER_FREEE_OAUTH_BASE_URL"),
		},
	}
}

func (x Freee) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("client-id.len", len(x.clientID)),
		slog.Int("client-secret.len", len(x.clientSecret)),
		slog.Int("company-id", x.companyID),
	)
}

// Configure builds the freee service client. The OAuth redirect URI is
// derived from the public base URL of this service.
func (x *Freee) Configure(baseURL string) (freee.Service, error) {
	if x.clientID == "" || x.clientSecret == "" {
		return nil, goerr.New("freee-client-id and freee-client-secret are required")
	}
	if x.companyID == 0 {
		return nil, goerr.New("freee-company-id is required")
	}

	redirectURL := strings.TrimSuffix(baseURL, "/") + "/api/oauth/callback"

	return freee.New(x.clientID, x.clientSecret, redirectURL, int64(x.companyID),
		freee.WithAPIBaseURL(x.apiBaseURL),
		freee.WithOAuthBaseURL(x.oauthBaseURL),
	)
}
