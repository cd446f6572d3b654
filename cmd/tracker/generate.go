package main

import (
	"context"
	"fmt"
	"mixpanel-tracker/internal/event"
	"mixpanel-tracker/internal/generator"
	"mixpanel-tracker/internal/publisher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const generateBufferSize = 4096

func newGenerateCmd(a *app) *cobra.Command {
	var (
		count      int
		workers    int
		users      int
		bounceRate float32
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Send synthetic page view events through the batch.",
		Args:  cobra.NoArgs,
		RunE: a.withTracker(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			gen := generator.NewEventGenerator().
				SetUserCount(users).
				SetBounceRate(bounceRate)

			pub := publisher.NewPublisher[event.PageViewEvent](ctx, func(ctx context.Context, ev event.PageViewEvent) (bool, error) {
				return a.tracker.AddBatchEvent(ctx, ev)
			}, workers, generateBufferSize)

			for ev := range gen.Events(ctx, count) {
				if err := pub.SendAsync(ctx, ev, func(ctx context.Context, message event.PageViewEvent, ok bool, err error) {
					zap.L().Debug(
						"event added",
						zap.String("user_id", message.UserID),
						zap.Bool("success", ok && err == nil),
					)
				}); err != nil {
					zap.L().Error(err.Error())
					break
				}
			}

			if err := pub.Close(); err != nil {
				zap.L().Error(err.Error())
				return err
			}

			if err := a.flushPending(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.stats)
			return ctx.Err()
		}),
	}

	cmd.Flags().IntVarP(&count, "count", "n", 100, "number of events to generate")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "number of goroutines adding events to the batch")
	cmd.Flags().IntVar(&users, "users", 100, "size of the synthetic user pool")
	cmd.Flags().Float32Var(&bounceRate, "bounce-rate", 0.3, "probability that a long view is a bounce")

	return cmd
}
