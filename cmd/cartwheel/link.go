package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haggleworks/cartwheel/internal/common"
	"github.com/haggleworks/cartwheel/internal/match"
	"github.com/haggleworks/cartwheel/internal/model"
)

func linkCmd() *cobra.Command {
	var (
		platform string
		storeURL string
		quantity int
		variant  string
	)

	cmd := &cobra.Command{
		Use:   "link <sku-or-product-id>",
		Short: "Generate a checkout link for a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			product, err := store.GetProductBySKU(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				product, err = store.GetProductByID(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("product %q: %w", args[0], err)
			}

			order := model.ParsedOrder{
				ProductName: product.Name,
				Variant:     variant,
				Quantity:    quantity,
			}
			m := match.NewMatcher(slog.Default()).
				WithMinSimilarity(0).
				FindBestMatch(order, []model.Product{*product})
			if m == nil {
				return fmt.Errorf("product %q has no linkable record", args[0])
			}

			if storeURL == "" {
				storeURL = viper.GetString("store.url")
			}

			link, err := match.CartLink(storeURL, m, quantity, model.Platform(platform))
			if err != nil {
				return err
			}

			fmt.Println(link)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&platform, "platform", string(model.PlatformGeneric), "checkout platform (shopify, stripe, generic)")
	cmd.Flags().StringVar(&storeURL, "store", "", "store base url (defaults to store.url config)")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "quantity to link")
	cmd.Flags().StringVar(&variant, "variant", "", "variant text to confirm (e.g. \"red large\")")
	return cmd
}
