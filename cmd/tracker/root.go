package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNotAccepted = errors.New("tracking service did not accept the payload")

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tracker",
		Short:         "Send analytics events to a Mixpanel-compatible tracking service.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./.mixpanel.yaml or $HOME/.mixpanel.yaml)")
	flags.String("token", "", "project token")
	flags.Bool("test", false, "mark requests as test data")
	flags.Bool("use-get", false, "send single events with GET")
	flags.String("proxy-url", "", "override the tracking service base URL")
	flags.Bool("literal", false, "send property names as is")
	flags.String("failure-policy", "", "what to do with a failed batch: discard, retry or dead_letter")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	bindings := map[string]string{
		"token":                 "token",
		"test":                  "test",
		"use_get":               "use-get",
		"proxy_url":             "proxy-url",
		"literal_serialization": "literal",
		"failure_policy":        "failure-policy",
		"metrics_addr":          "metrics-addr",
		"verbose":               "verbose",
	}
	for key, flag := range bindings {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			zap.L().Fatal(err.Error())
		}
	}

	cmd.AddCommand(
		newTrackCmd(a),
		newImportCmd(a),
		newGenerateCmd(a),
		newDecodeCmd(),
	)

	return cmd
}

// withTracker оборачивает команду, которой нужен готовый трекер:
// собирает его перед запуском и закрывает после, даже при ошибке.
func (a *app) withTracker(run func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.setup(); err != nil {
			return err
		}

		ctx := cmd.Context()
		err := run(ctx, cmd, args)

		return errors.Join(err, a.teardown(ctx))
	}
}
