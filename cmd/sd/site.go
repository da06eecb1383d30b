package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/speeddial/internal/speeddial"
)

// NewSiteCmd creates the site command and its subcommands.
func NewSiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage sites",
	}

	cmd.AddCommand(newSiteAddCmd())
	cmd.AddCommand(newSiteEditCmd())
	cmd.AddCommand(newSiteMoveCmd())
	cmd.AddCommand(&cobra.Command{
		Use:     "rm <site-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a site",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				return a.store.RemoveSite(cmd.Context(), args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "refresh <site-id>",
		Short: "Re-resolve a site's thumbnail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				site, err := a.store.RefreshThumbnail(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %q: %s\n", site.Name, summarizeThumbnail(site.Thumbnail))
				return nil
			})
		},
	})
	cmd.AddCommand(newSiteListCmd())

	return cmd
}

func newSiteAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a site",
		Long: `Add a site to a group. URLs without a scheme get https://.
Without --name the page title is used, falling back to the hostname.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupRef, _ := cmd.Flags().GetString("group")
			name, _ := cmd.Flags().GetString("name")

			return withApp(cmd, func(a *app) error {
				var groupID string
				if groupRef != "" {
					group, err := findGroup(a.store.View(), groupRef)
					if err != nil {
						return err
					}
					groupID = group.ID
				}

				site, err := a.store.AddSite(cmd.Context(), groupID, args[0], name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q %s (%s)\n", site.Name, site.URL, site.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringP("group", "g", "", "Group id or name (default: first group)")
	cmd.Flags().StringP("name", "n", "", "Display name")
	return cmd
}

func newSiteEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <site-id>",
		Short: "Change a site's URL or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var newURL, newName *string
			if cmd.Flags().Changed("url") {
				u, _ := cmd.Flags().GetString("url")
				newURL = &u
			}
			if cmd.Flags().Changed("name") {
				n, _ := cmd.Flags().GetString("name")
				newName = &n
			}
			if newURL == nil && newName == nil {
				return fmt.Errorf("nothing to change: use --url or --name")
			}

			return withApp(cmd, func(a *app) error {
				site, err := a.store.EditSite(cmd.Context(), args[0], newURL, newName)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %q %s\n", site.Name, site.URL)
				return nil
			})
		},
	}

	cmd.Flags().String("url", "", "New URL")
	cmd.Flags().String("name", "", "New name (empty: use the page title)")
	return cmd
}

func newSiteMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "mv <site-id> <group>",
		Aliases: []string{"move"},
		Short:   "Move a site to another group",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				view := a.store.View()
				to, err := findGroup(view, args[1])
				if err != nil {
					return err
				}

				var fromID string
				for _, g := range view.Groups {
					if g.GetSiteByID(args[0]) != nil {
						fromID = g.ID
						break
					}
				}

				if fromID == "" {
					return fmt.Errorf("%w: %s", speeddial.ErrSiteNotFound, args[0])
				}

				if err := a.store.MoveSite(cmd.Context(), args[0], fromID, to.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved to %q\n", to.Name)
				return nil
			})
		},
	}
}

func newSiteListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List sites",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			groupRef, _ := cmd.Flags().GetString("group")

			return withApp(cmd, func(a *app) error {
				view := a.store.View()
				if groupRef != "" {
					group, err := findGroup(view, groupRef)
					if err != nil {
						return err
					}
					printSites(cmd.OutOrStdout(), group.Sites)
					return nil
				}
				for _, g := range view.Groups {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", g.Name)
					printSites(cmd.OutOrStdout(), g.Sites)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringP("group", "g", "", "Only list this group")
	return cmd
}

// summarizeThumbnail shortens data URIs for display.
func summarizeThumbnail(thumb string) string {
	const maxLen = 60
	if len(thumb) <= maxLen {
		return thumb
	}
	return thumb[:maxLen] + "..."
}
