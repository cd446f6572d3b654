package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mixpanel-tracker/internal/codec"
	"strings"

	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <payload>",
		Short: "Print the JSON inside a data= payload or a bare base64 string.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := args[0]
			if !strings.Contains(payload, "data=") {
				payload = codec.Payload(payload, false)
			}

			b, err := codec.DecodePayload(payload)
			if err != nil {
				return err
			}

			var out bytes.Buffer
			if err := json.Indent(&out, b, "", "  "); err != nil {
				return fmt.Errorf("decoded payload is not json: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
}
