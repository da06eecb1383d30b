package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/speeddial/internal/health"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that every site still responds",
		Long: `Probe every site URL with HEAD (falling back to GET) and report dead
(404/410) and unreachable sites. Domains listed under health.exclude_domains
report 404s as possibly private instead of dead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")

			return withApp(cmd, func(a *app) error {
				checker := health.NewChecker(health.Options{
					Concurrency:    a.cfg.Health.Concurrency,
					Timeout:        a.cfg.Health.Timeout,
					ExcludeDomains: a.cfg.Health.ExcludeDomains,
					OnProgress: func(completed, total int) {
						fmt.Fprintf(cmd.ErrOrStderr(), "\rChecked %d/%d", completed, total)
					},
				})

				results := checker.Check(cmd.Context(), a.store.View().Groups)
				if len(results) > 0 {
					fmt.Fprintln(cmd.ErrOrStderr())
				}
				printHealth(cmd.OutOrStdout(), results, all)
				return nil
			})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Also list healthy sites")
	return cmd
}

func printHealth(w io.Writer, results []health.Result, all bool) {
	for _, r := range results {
		if r.Status == health.Healthy && !all {
			continue
		}
		detail := r.Error
		if detail == "" && r.StatusCode != 0 {
			detail = fmt.Sprintf("HTTP %d", r.StatusCode)
		}
		fmt.Fprintf(w, "%-11s %s / %s  %s  %s\n", r.Status, r.GroupName, r.Site.Name, r.Site.URL, detail)
	}

	counts := health.Summarize(results)
	fmt.Fprintf(w, "%d healthy, %d dead, %d unreachable\n",
		counts[health.Healthy], counts[health.Dead], counts[health.Unreachable])
}
