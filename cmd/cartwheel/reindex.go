package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haggleworks/cartwheel/internal/cli"
)

func reindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the lookup index from the product table",
		Long: `Reindex reads every active product, builds a fresh lookup index, and
replaces the persisted snapshot. Searches keep serving the old snapshot
until the rebuild completes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snapshot, err := rebuildSnapshot(ctx, store)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Indexed %d products, %d variants (%d tokens)",
				snapshot.Index.ProductCount,
				snapshot.Index.VariantCount,
				len(snapshot.Index.TokenMap))))
			return nil
		},
	}
}
