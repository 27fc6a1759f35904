package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/go-chat-translate/internal/hangul"
)

// newCorrectCmd runs only the particle agreement pass, for inspecting
// model output by hand.
func newCorrectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correct [text]",
		Short: "Fix Korean particle agreement in a line of text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := resolveText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hangul.Correct(text))
			return nil
		},
	}
}
