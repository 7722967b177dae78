package cmd

import (
	"fmt"

	"football-sync/core/engine"
	"football-sync/core/storage"
	"football-sync/feature/football"
	"football-sync/feature/football/models"

	"github.com/spf13/cobra"
)

var exportKinds []string

// exportCmd uploads JSON dataset snapshots of the local store.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export active local entities as JSON datasets to object storage",
	Long: `Serialize the active entities of each kind to a JSON dataset snapshot
and upload it to the configured object-storage bucket, one object per
kind under datasets/.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringSliceVar(&exportKinds, "kind", nil,
		"Entity kind(s) to export (default: all kinds)")
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, l, db, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	kinds := models.Kinds()
	if len(exportKinds) > 0 {
		kinds = make([]engine.EntityKind, 0, len(exportKinds))
		for _, name := range exportKinds {
			kind := engine.EntityKind(name)
			if _, ok := models.New(kind); !ok {
				return fmt.Errorf("unknown entity kind %q", name)
			}
			kinds = append(kinds, kind)
		}
	}

	exporter := football.NewExporter(db, client, cfg.Storage.Bucket, l)
	objects, err := exporter.Export(cmd.Context(), kinds)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	for _, object := range objects {
		fmt.Println(object)
	}
	fmt.Printf("\n%d dataset(s) uploaded to bucket %s\n", len(objects), cfg.Storage.Bucket)
	return nil
}
