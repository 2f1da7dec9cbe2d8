package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openswim/swimsync/internal/webdav"
)

func init() {
	rootCmd.AddCommand(newFoldersCmd())
}

func newFoldersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Manage the remote folders registered for syncing",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, store, _, err := openStack()
			if err != nil {
				return err
			}
			defer database.Close()

			folders, err := store.Folders(false)
			if err != nil {
				return err
			}
			if len(folders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no folders registered")
				return nil
			}
			for _, f := range folders {
				state := green("enabled")
				if !f.Enabled {
					state = red("disabled")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", state, cyan(f.Folder), f.Note)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <folder>...",
		Short: "Register remote folders for syncing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, _ := cmd.Flags().GetString("note")
			_, database, store, _, err := openStack()
			if err != nil {
				return err
			}
			defer database.Close()

			for _, folder := range args {
				if err := store.AddFolder(folder, note); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), green("added"), folder)
			}
			return nil
		},
	}
	add.Flags().String("note", "", "free-form note stored with the folder")

	remove := &cobra.Command{
		Use:   "remove <folder>...",
		Short: "Unregister remote folders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, store, _, err := openStack()
			if err != nil {
				return err
			}
			defer database.Close()

			for _, folder := range args {
				if err := store.RemoveFolder(folder); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "removed", folder)
			}
			return nil
		},
	}

	setEnabled := func(use, short string, enabled bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <folder>...",
			Short: short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, database, store, _, err := openStack()
				if err != nil {
					return err
				}
				defer database.Close()

				for _, folder := range args {
					if err := store.SetFolderEnabled(folder, enabled); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), use+"d", folder)
				}
				return nil
			},
		}
	}

	discover := &cobra.Command{
		Use:   "discover [base]",
		Short: "Browse folders available on the share",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := ""
			if len(args) == 1 {
				base = args[0]
			}
			depth, _ := cmd.Flags().GetInt("depth")

			shareCfg, err := shareConfig()
			if err != nil {
				return err
			}
			dav, err := webdav.New(shareCfg)
			if err != nil {
				return err
			}

			folders, err := dav.ListFoldersRecursive(cmd.Context(), base, depth)
			if err != nil {
				return err
			}
			for _, f := range folders {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	discover.Flags().Int("depth", 0, "maximum folder depth to descend (0 = default)")

	cmd.AddCommand(list, add, remove,
		setEnabled("enable", "Enable registered folders for syncing", true),
		setEnabled("disable", "Disable registered folders without removing them", false),
		discover)
	return cmd
}
