package main

import (
	"context"
	"fmt"
	"math"
	"mixpanel-tracker/internal/property"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newTrackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "track <event> [key=value ...]",
		Short: "Send a single event immediately.",
		Long: `Send a single event immediately.

Property values are parsed as bool, integer, float or RFC 3339 date,
anything else is sent as a string.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withTracker(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			props, err := parseProps(args[1:])
			if err != nil {
				return err
			}

			ok, err := a.tracker.Track(ctx, args[0], props)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "rejected")
				return errNotAccepted
			}

			fmt.Fprintln(cmd.OutOrStdout(), "accepted")
			return nil
		}),
	}
}

func parseProps(args []string) (*property.Properties, error) {
	props := property.New()

	for _, arg := range args {
		key, raw, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("property %q: expected key=value", arg)
		}
		props.Set(key, parseValue(raw))
	}

	return props, nil
}

func parseValue(raw string) property.Value {
	switch raw {
	case "true":
		return property.Bool(true)
	case "false":
		return property.Bool(false)
	}

	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return property.Int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return property.Float(f)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return property.Date(t)
	}

	return property.String(raw)
}
