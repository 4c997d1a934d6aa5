// cmd/requestctl/root.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/July173/autogestionFrontWeb-sub002/internal/backend"
	"github.com/July173/autogestionFrontWeb-sub002/internal/config"
	"github.com/July173/autogestionFrontWeb-sub002/internal/i18n"
	"github.com/July173/autogestionFrontWeb-sub002/internal/logging"
)

type globalOptions struct {
	BackendURL string
	Token      string
	Lang       string
	Timeout    time.Duration
	Verbose    bool
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:           "requestctl",
		Short:         "Browse catalogs and submit practical-stage requests against the backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			logging.Configure(logrus.StandardLogger(), config.LogConfig{Level: level}, os.Stderr)
			return i18n.Initialize(opts.Lang)
		},
	}

	defaults := config.BackendConfig{
		BaseURL: envOr("BACKEND_BASE_URL", "http://localhost:8000/api"),
		Timeout: 20,
	}
	cmd.PersistentFlags().StringVar(&opts.BackendURL, "backend-url", defaults.BaseURL, "backend base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("REQUESTCTL_TOKEN"), "bearer token forwarded to the backend")
	cmd.PersistentFlags().StringVar(&opts.Lang, "lang", i18n.DefaultLang, "message language (es|en)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", defaults.TimeoutDuration(), "timeout of each backend call")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log backend traffic to stderr")

	cmd.AddCommand(newCatalogsCmd(&opts))
	cmd.AddCommand(newSubmitCmd(&opts))
	return cmd
}

func (o *globalOptions) client() *backend.Client {
	return backend.NewClient(o.BackendURL, o.Timeout)
}

func (o *globalOptions) context(ctx context.Context) context.Context {
	if o.Token == "" {
		return ctx
	}
	return backend.WithToken(ctx, o.Token)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
