package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/kintai-dev/workstamper/pkg/cli/config"
	httpctrl "github.com/kintai-dev/workstamper/pkg/controller/http"
	"github.com/kintai-dev/workstamper/pkg/usecase"
	"github.com/kintai-dev/workstamper/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var tagConfigPath string
	var slackCfg config.Slack
	var freeeCfg config.Freee
	var googleCfg config.Google
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("WORKSTAMPER_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public base URL of this service (used for the OAuth redirect URI)",
			Sources:     cli.EnvVars("WORKSTAMPER_BASE_URL"),
			Destination: &baseURL,
		},
		&cli.StringFlag{
			Name:        "work-tag-config",
			Usage:       "TOML file defining work-mode tag options (built-in defaults when unset)",
			Sources:     cli.EnvVars("WORKSTAMPER_WORK_TAG_CONFIG"),
			Destination: &tagConfigPath,
		},
	}

	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, freeeCfg.Flags()...)
	flags = append(flags, googleCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if baseURL == "" {
				return goerr.New("--base-url is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack service")
			}

			freeeSvc, err := freeeCfg.Configure(baseURL)
			if err != nil {
				return goerr.Wrap(err, "failed to configure freee service")
			}

			workTags, err := config.LoadWorkTags(tagConfigPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load work-mode tag configuration")
			}

			ucOpts := []usecase.Option{
				usecase.WithWorkTags(workTags),
			}

			calendarSvc, err := googleCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure calendar service")
			}
			if calendarSvc != nil {
				ucOpts = append(ucOpts, usecase.WithCalendar(calendarSvc))
				logging.Default().Info("Calendar mirroring enabled", "calendar_id", googleCfg.CalendarID())
			} else {
				logging.Default().Info("Calendar not configured, leave requests will not be mirrored")
			}

			uc := usecase.New(repo, freeeSvc, slackSvc, ucOpts...)

			handler := httpctrl.New(uc, slackCfg.SigningSecret())
			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
