package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haggleworks/cartwheel/internal/cli"
	"github.com/haggleworks/cartwheel/internal/common"
	"github.com/haggleworks/cartwheel/internal/csvimport"
	"github.com/haggleworks/cartwheel/internal/ingest"
)

const saveBatchSize = 100

func importCmd() *cobra.Command {
	var sellerID string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a product catalog from a CSV file",
		Long: `Import reads a CSV export, auto-maps its headers onto the canonical
product fields, and saves every valid row. Rows that cannot be imported
are reported individually; they never abort the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = file.Close() }()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			importer := csvimport.NewImporter(slog.Default())
			result, err := importer.Import(file, sellerID)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			// Parsed rows carry no ids yet; the ingestion engine assigns
			// them and normalizes variants before anything is persisted.
			ingested, err := ingest.NewEngine(slog.Default()).Ingest(ctx, result.Products)
			if err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}
			result.Errors = append(result.Errors, ingested.Errors...)
			result.ImportedRows = len(ingested.Products)
			products := ingested.Products

			prompter := cli.NewPrompter(os.Stdin, os.Stdout)
			if len(products) > 0 {
				prompter.StartProgress(len(products), "saving products")
				for start := 0; start < len(products); start += saveBatchSize {
					end := min(start+saveBatchSize, len(products))
					if err := store.SaveProducts(ctx, products[start:end]); err != nil {
						return fmt.Errorf("failed to save products: %w", err)
					}
					for range products[start:end] {
						prompter.IncrementProgress()
					}
				}
				prompter.FinishProgress()

				if _, err := rebuildSnapshot(ctx, store); err != nil {
					return fmt.Errorf("failed to rebuild index: %w", err)
				}
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Imported %d of %d rows", result.ImportedRows, result.TotalRows)))
			for _, rowErr := range result.Errors {
				common.LogError(errors.New(rowErr.Message), "row skipped",
					common.Fields{"row": rowErr.Row, "file": args[0]})
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"row %d: %s", rowErr.Row, rowErr.Message)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sellerID, "seller", "", "seller id to stamp on imported products")
	return cmd
}
