package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haggleworks/cartwheel/internal/cli"
	"github.com/haggleworks/cartwheel/internal/common"
	"github.com/haggleworks/cartwheel/internal/search"
)

func searchCmd() *cobra.Command {
	var (
		useVector bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Long: `Search runs a lexical query against the lookup index. With --vector it
uses embedding similarity instead, degrading to a fuzzy token match when
no embedding provider is configured.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			catalog, err := loadCatalog(ctx, store)
			if err != nil {
				return err
			}
			if len(catalog.Products) == 0 {
				return common.NewUserError("import a catalog before searching", common.ErrEmptyCatalog)
			}

			if useVector {
				embedder, embErr := createEmbedder()
				if embErr != nil {
					return embErr
				}
				results := search.NewVector(embedder, slog.Default()).
					Search(ctx, catalog.Products, query, search.Options{
						UseVector: true,
						Limit:     limit,
					})
				if len(results) == 0 {
					fmt.Println(cli.FormatInfo("No matches"))
					return nil
				}
				for _, r := range results {
					fmt.Printf("%.3f  %-30s  %s\n", r.Score, r.Product.Name, r.Product.SKU)
				}
				return nil
			}

			products := search.NewLexical().Search(query, catalog.Index, catalog.Products)
			if limit > 0 && len(products) > limit {
				products = products[:limit]
			}
			if len(products) == 0 {
				fmt.Println(cli.FormatInfo("No matches"))
				return nil
			}
			for _, p := range products {
				fmt.Printf("%-30s  %-12s  $%.2f\n", p.Name, p.SKU, p.Price)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useVector, "vector", false, "use embedding similarity")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results")
	return cmd
}
