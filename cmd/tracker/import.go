package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mixpanel-tracker/internal/event"
	"mixpanel-tracker/internal/property"
	"mixpanel-tracker/internal/publisher"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	importBufferSize = 1024
	maxLineSize      = 1 << 20
)

func newImportCmd(a *app) *cobra.Command {
	var (
		file    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Send JSON lines events through the batch.",
		Long: `Read events as JSON lines {"event": "...", "properties": {...}}
from stdin or --file, add them to the batch and flush the rest at the end.`,
		Args: cobra.NoArgs,
		RunE: a.withTracker(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					zap.L().Error(err.Error())
					return err
				}
				defer f.Close()
				in = f
			}

			if err := a.importLines(ctx, in, workers); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.stats)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read events from file instead of stdin")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "number of goroutines adding events to the batch")

	return cmd
}

func (a *app) importLines(ctx context.Context, in io.Reader, workers int) error {
	pub := publisher.NewPublisher[event.Record](ctx, func(ctx context.Context, r event.Record) (bool, error) {
		return a.tracker.AddBatch(ctx, r.Event, r.Properties)
	}, workers, importBufferSize)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var r event.Record
		if err := json.Unmarshal([]byte(text), &r); err != nil || r.Event == "" {
			if err == nil {
				err = errors.New("event name is empty")
			}
			zap.L().Warn("skip invalid line", zap.Int("line", line), zap.Error(err))
			a.stats.invalid.Add(1)
			continue
		}

		if err := pub.SendAsync(ctx, r, a.logAddResult); err != nil {
			zap.L().Error(err.Error())
			_ = pub.Close()
			return err
		}
	}

	if err := pub.Close(); err != nil {
		zap.L().Error(err.Error())
		return err
	}

	if err := scanner.Err(); err != nil {
		zap.L().Error(err.Error())
		return fmt.Errorf("read events: %w", err)
	}

	return a.flushPending(ctx)
}

func (a *app) logAddResult(_ context.Context, r event.Record, ok bool, err error) {
	if err != nil {
		// ошибки отправки батча уже учтены по отчету трекера
		if errors.Is(err, property.ErrUnsupportedType) {
			a.stats.invalid.Add(1)
		}
		zap.L().Warn("event not added", zap.String("event", r.Event), zap.Error(err))
		return
	}
	if !ok {
		zap.L().Warn("batch not accepted", zap.String("event", r.Event))
	}
}

// flushPending отправляет остаток батча, если он есть.
func (a *app) flushPending(ctx context.Context) error {
	if a.tracker.Pending() == 0 {
		return nil
	}

	ok, err := a.tracker.Flush(ctx)
	if err != nil {
		return err
	}
	if !ok {
		zap.L().Warn("final batch not accepted")
	}

	return nil
}
