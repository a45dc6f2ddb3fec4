package commands

import (
	"fmt"
	"io"

	"github.com/latoulicious/anglerslog/pkg/backup"
	"github.com/spf13/cobra"
)

// importOrder is the order import results are printed in
var importOrder = []string{
	backup.KeySpecies,
	backup.KeyBaitCategories,
	backup.KeyBaits,
	backup.KeyWaterClarities,
	backup.KeyFishingMethods,
	backup.KeyAnglers,
	backup.KeyLocations,
	backup.KeyFishingSpots,
	backup.KeyCatches,
	backup.KeyTrips,
}

func exportCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the whole logbook as a JSON document",
		Long:  `Export writes every entity of the logbook to a JSON document. With no file, or "-", the document goes to standard output.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger(cmd, args)

			lb, err := app.openLogbook()
			if err != nil {
				return err
			}

			if len(args) == 0 || args[0] == "-" {
				return backup.NewExporter(lb, app.backupLogger("stdout")).Export(cmd.Context(), cmd.OutOrStdout())
			}

			path := args[0]
			if err := backup.NewExporter(lb, app.backupLogger(path)).ExportFile(cmd.Context(), path); err != nil {
				logger.Error("Export failed", err, map[string]interface{}{"file": path})
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", lb.Name(), path)
			return nil
		},
	}
}

func importCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a JSON document into the logbook",
		Long: `Import adds every entity of a JSON document that the logbook does not already hold.
Entities are matched by name, catches by date. The import is all or nothing: any
error leaves the logbook unchanged. Use "-" to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger(cmd, args)

			lb, err := app.openLogbook()
			if err != nil {
				return err
			}

			path := args[0]
			importer := backup.NewImporter(lb, app.backupLogger(path))

			var res *backup.Result
			if path == "-" {
				res, err = importer.Import(cmd.Context(), cmd.InOrStdin())
			} else {
				res, err = importer.ImportFile(cmd.Context(), path)
			}
			if err != nil {
				logger.Error("Import failed", err, map[string]interface{}{"file": path})
				return err
			}

			printImportResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func printImportResult(w io.Writer, res *backup.Result) {
	fmt.Fprintf(w, "Imported %q: %d created, %d already present\n", res.Journal, res.TotalCreated(), res.TotalSkipped())
	for _, key := range importOrder {
		created, skipped := res.Created[key], res.Skipped[key]
		if created == 0 && skipped == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-16s %4d created %4d skipped\n", key, created, skipped)
	}
}
