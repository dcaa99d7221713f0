package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haggleworks/cartwheel/internal/canonical"
	"github.com/haggleworks/cartwheel/internal/cli"
	"github.com/haggleworks/cartwheel/internal/common"
	"github.com/haggleworks/cartwheel/internal/ingest"
	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/service"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the product catalog",
	}

	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogAddCmd())
	cmd.AddCommand(catalogRemoveCmd())
	return cmd
}

func catalogListCmd() *cobra.Command {
	var (
		sellerID        string
		includeInactive bool
		limit           int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			products, err := store.GetProducts(ctx, service.ProductFilter{
				SellerID:        sellerID,
				IncludeInactive: includeInactive,
				Limit:           limit,
			})
			if err != nil {
				return err
			}
			if len(products) == 0 {
				fmt.Println(cli.FormatInfo("Catalog is empty"))
				return nil
			}

			for _, p := range products {
				line := fmt.Sprintf("%-36s  %-30s  %-12s  $%.2f  (%d variants)",
					p.ID, p.Name, p.SKU, p.Price, len(p.Variants))
				if !p.IsActive {
					line += "  [inactive]"
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sellerID, "seller", "", "filter by seller id")
	cmd.Flags().BoolVar(&includeInactive, "all", false, "include soft-deleted products")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum products to list")
	return cmd
}

func catalogAddCmd() *cobra.Command {
	var (
		entry    canonical.ManualEntry
		sellerID string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single product by hand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			c, err := canonical.MapProduct(entry, model.SourceManual)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if entry.SKU != "" {
				if existing, skuErr := store.GetProductBySKU(ctx, entry.SKU); skuErr == nil {
					return common.NewUserError(
						fmt.Sprintf("sku %s already belongs to %s", entry.SKU, existing.Name),
						common.ErrDuplicateEntry)
				} else if !errors.Is(skuErr, common.ErrNotFound) {
					return skuErr
				}
			}

			product := canonical.ToProduct(c, sellerID)
			result, err := ingest.NewEngine(nil).Ingest(ctx, []model.Product{product})
			if err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("invalid product: %s", result.Errors[0].Message)
			}

			if err := store.SaveProducts(ctx, result.Products); err != nil {
				return err
			}
			if _, err := rebuildSnapshot(ctx, store); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Added %s (%s)", result.Products[0].Name, result.Products[0].ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&entry.Title, "name", "", "product name (required)")
	cmd.Flags().StringVar(&entry.SKU, "sku", "", "product sku")
	cmd.Flags().Float64Var(&entry.Price, "price", 0, "product price")
	cmd.Flags().StringVar(&entry.Size, "size", "", "variant size")
	cmd.Flags().StringVar(&entry.Color, "color", "", "variant color")
	cmd.Flags().StringVar(&sellerID, "seller", "", "seller id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func catalogRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Soft-delete a product, keeping its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeactivateProduct(ctx, args[0]); err != nil {
				return err
			}
			if _, err := rebuildSnapshot(ctx, store); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Removed " + args[0]))
			return nil
		},
	}
}
