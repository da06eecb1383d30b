package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/speeddial/internal/model"
	"github.com/nikbrunner/speeddial/internal/speeddial"
)

// NewGroupCmd creates the group command and its subcommands.
func NewGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add an empty group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				group, err := a.store.AddGroup(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added group %q (%s)\n", group.Name, group.ID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <group>",
		Aliases: []string{"remove"},
		Short:   "Remove a group and all of its sites",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				group, err := findGroup(a.store.View(), args[0])
				if err != nil {
					return err
				}
				if err := a.store.RemoveGroup(cmd.Context(), group.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed group %q (%d sites)\n", group.Name, len(group.Sites))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <group> <name>",
		Short: "Rename a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				group, err := findGroup(a.store.View(), args[0])
				if err != nil {
					return err
				}
				return a.store.RenameGroup(cmd.Context(), group.ID, args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select <group>",
		Short: "Select a group and list its sites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				group, err := findGroup(a.store.View(), args[0])
				if err != nil {
					return err
				}
				if err := a.store.SelectGroup(group.ID); err != nil {
					return err
				}
				active := a.store.View().ActiveGroup()
				printSites(cmd.OutOrStdout(), active.Sites)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List groups",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				printGroups(cmd.OutOrStdout(), a.store.View())
				return nil
			})
		},
	})

	return cmd
}

func printGroups(w io.Writer, view speeddial.View) {
	for _, g := range view.Groups {
		marker := " "
		if g.ID == view.ActiveGroupID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s  %s (%d sites)\n", marker, g.ID, g.Name, len(g.Sites))
	}
}

func printSites(w io.Writer, sites []model.Site) {
	if len(sites) == 0 {
		fmt.Fprintln(w, "No sites")
		return
	}
	for _, s := range sites {
		fmt.Fprintf(w, "%s  %s  %s\n", s.ID, s.Name, s.URL)
	}
}
