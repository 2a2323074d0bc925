package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docqa/internal/common/fsutil"
	"docqa/internal/extract"
)

func newExtractCmd() *cobra.Command {
	var mediaType string
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the text docqa would append to a prompt for FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := fsutil.ReadLimited(args[0], 0)
			if err != nil {
				return err
			}
			if mediaType == "" {
				mediaType = extract.MediaTypeFor(args[0])
			}
			res := extract.Extract(mediaType, data)
			if res.Kind == extract.KindDecodeFailure {
				return res.Err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Display())
			return err
		},
	}
	cmd.Flags().StringVar(&mediaType, "type", "", "Declared media type, guessed from the extension when empty")
	return cmd
}
