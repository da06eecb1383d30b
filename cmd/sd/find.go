package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/speeddial/internal/model"
	"github.com/nikbrunner/speeddial/internal/picker"
	"github.com/nikbrunner/speeddial/internal/search"
)

// NewFindCmd creates the find command.
func NewFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find [query...]",
		Short: "Fuzzy find a site and open it",
		Long: `Search site names across all groups. A single match is opened directly,
several matches open an interactive picker.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			copyURL, _ := cmd.Flags().GetBool("copy")
			printOnly, _ := cmd.Flags().GetBool("print")

			return withApp(cmd, func(a *app) error {
				groups := a.store.View().Groups

				var selected *model.Site
				results := search.FuzzySearchSites(groups, query)
				switch {
				case query != "" && len(results) == 0:
					fmt.Fprintf(cmd.OutOrStdout(), "No sites found for '%s'\n", query)
					return nil
				case len(results) == 1:
					selected = &results[0].Site
				default:
					program := tea.NewProgram(picker.New(groups, query),
						tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.ErrOrStderr()))
					finalModel, err := program.Run()
					if err != nil {
						return fmt.Errorf("failed to run picker: %w", err)
					}
					selected = finalModel.(picker.Picker).SelectedSite()
				}

				if selected == nil {
					return nil
				}

				switch {
				case printOnly:
					fmt.Fprintln(cmd.OutOrStdout(), selected.URL)
				case copyURL:
					if err := clipboard.WriteAll(selected.URL); err != nil {
						return fmt.Errorf("failed to copy to clipboard: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Copied: %s\n", selected.URL)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "Opening: %s\n", selected.Name)
					openURL(selected.URL)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolP("copy", "y", false, "Copy the URL to the clipboard instead of opening it")
	cmd.Flags().BoolP("print", "p", false, "Print the URL instead of opening it")
	return cmd
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}
