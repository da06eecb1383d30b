package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/speeddial/internal/capture"
	"github.com/nikbrunner/speeddial/internal/model"
)

// NewCaptureCmd creates the capture command.
func NewCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Capture a page thumbnail",
		Long: `Render a page in the headless browser and write a JPEG snapshot.
Without --output the image is printed as a data URI.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			url, err := model.NormalizeURL(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, func(a *app) error {
				if a.controller == nil {
					return fmt.Errorf("page capture is disabled in %s", configPathFlag(cmd))
				}

				image, err := a.controller.Capture(cmd.Context(), url)
				if err != nil {
					return err
				}

				if output == "" {
					fmt.Fprintln(cmd.OutOrStdout(), capture.DataURI(capture.FormatJPEG, image))
					return nil
				}
				if err := os.WriteFile(output, image, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(image), output)
				return nil
			})
		},
	}

	cmd.Flags().StringP("output", "o", "", "Write the JPEG to this file")
	return cmd
}

func configPathFlag(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
