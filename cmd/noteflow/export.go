package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marisa/noteflow/internal/export"
	"github.com/marisa/noteflow/internal/notes"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export note bodies to text artifacts and write the manifest",
	Long:  "Export every note, or only the notes in a single folder, into per-note text files and record their paths in the artifact manifest for later dispatch.",
	RunE:  runExport,
}

var (
	exportNotesDir string
	exportFolder   string
	exportOut      string
)

func init() {
	exportCmd.Flags().StringVarP(&exportNotesDir, "notes-dir", "n", "", "Path to the notes directory (required)")
	exportCmd.Flags().StringVarP(&exportFolder, "notes-folder", "f", "", "Export only this folder (case-sensitive, default all notes)")
	exportCmd.Flags().StringVarP(&exportOut, "output-dir", "o", "./output", "Output directory")

	exportCmd.MarkFlagRequired("notes-dir")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	store, err := notes.NewVaultStore(exportNotesDir)
	if err != nil {
		return err
	}

	summary, err := export.NewExporter(store, exportOut).Run(context.Background(), exportFolder)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Exported %d of %d notes\n", summary.Exported, summary.Total)
	fmt.Fprintf(os.Stdout, "Text artifacts: %s\n", summary.TextDir)
	fmt.Fprintf(os.Stdout, "Manifest: %s\n", summary.ManifestPath)

	return nil
}
