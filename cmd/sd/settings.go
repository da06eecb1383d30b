package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/speeddial/internal/model"
)

// NewSettingsCmd creates the settings command.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change display settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				return printJSON(cmd, a.store.View().Settings)
			})
		},
	})

	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Example: `  sd settings set --use-thumbnails
  sd settings set --column-size 300 --show-urls=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			patch, err := settingsPatchFromFlags(cmd)
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				settings, err := a.store.UpdateSettings(cmd.Context(), patch)
				if err != nil {
					return err
				}
				return printJSON(cmd, settings)
			})
		},
	}
	set.Flags().Int("column-size", 0, "Tile width in pixels")
	set.Flags().Int("thumbnail-height", 0, "Thumbnail height in pixels")
	set.Flags().Bool("show-thumbnails", true, "Show thumbnails on tiles")
	set.Flags().Bool("show-urls", true, "Show URLs on tiles")
	set.Flags().Bool("use-thumbnails", true, "Capture page thumbnails instead of icons")
	cmd.AddCommand(set)

	return cmd
}

// settingsPatchFromFlags builds a patch from the flags that were set.
func settingsPatchFromFlags(cmd *cobra.Command) (model.SettingsPatch, error) {
	var patch model.SettingsPatch
	flags := cmd.Flags()

	intFlags := map[string]**int{
		"column-size":      &patch.ColumnSize,
		"thumbnail-height": &patch.ThumbnailHeight,
	}
	for name, dst := range intFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return patch, err
		}
		*dst = &v
	}

	boolFlags := map[string]**bool{
		"show-thumbnails": &patch.ShowThumbnails,
		"show-urls":       &patch.ShowURLs,
		"use-thumbnails":  &patch.UseThumbnails,
	}
	for name, dst := range boolFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return patch, err
		}
		*dst = &v
	}

	if patch == (model.SettingsPatch{}) {
		return patch, fmt.Errorf("no settings given")
	}
	return patch, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
