package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marisa/noteflow/internal/notes"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List the note folders in a notes directory",
	Long:  "List every folder in the notes directory, one per line, in the order the export stage would visit them.",
	RunE:  runFolders,
}

var foldersNotesDir string

func init() {
	foldersCmd.Flags().StringVarP(&foldersNotesDir, "notes-dir", "n", "", "Path to the notes directory (required)")

	foldersCmd.MarkFlagRequired("notes-dir")

	rootCmd.AddCommand(foldersCmd)
}

func runFolders(cmd *cobra.Command, _ []string) error {
	store, err := notes.NewVaultStore(foldersNotesDir)
	if err != nil {
		return err
	}

	folders, err := store.Folders(context.Background())
	if err != nil {
		return err
	}

	if len(folders) == 0 {
		fmt.Fprintln(os.Stdout, "No folders found.")
		return nil
	}

	for _, folder := range folders {
		fmt.Fprintln(os.Stdout, folder.Name)
	}

	return nil
}
