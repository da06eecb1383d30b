package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/speeddial/internal/exporter"
	"github.com/nikbrunner/speeddial/internal/importer"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import sites from a browser bookmark export",
		Long: `Import a Netscape bookmark HTML file. Each folder becomes a group
(nested folders are joined with " / "), bookmarks outside folders go to
the "Imported" group. Sites already in the target group are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer file.Close()

			groups, err := importer.ParseHTMLGroups(file)
			if err != nil {
				return fmt.Errorf("failed to parse HTML: %w", err)
			}

			return withApp(cmd, func(a *app) error {
				result, err := a.store.ImportSites(cmd.Context(), groups)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sites, %d new groups", result.SitesAdded, result.GroupsAdded)
				if result.Skipped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), " (%d skipped)", result.Skipped)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export all groups as bookmark HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				outputPath, err = exporter.DefaultExportPath()
				if err != nil {
					return fmt.Errorf("failed to get default export path: %w", err)
				}
			}

			return withApp(cmd, func(a *app) error {
				view := a.store.View()
				html := exporter.ExportHTML(view.Groups)

				if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
					return fmt.Errorf("failed to write file: %w", err)
				}

				sites := 0
				for _, g := range view.Groups {
					sites += len(g.Sites)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sites, %d groups to %s\n", sites, len(view.Groups), outputPath)
				return nil
			})
		},
	}
}
