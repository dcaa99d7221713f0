package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haggleworks/cartwheel/internal/analyzer"
	"github.com/haggleworks/cartwheel/internal/cli"
	"github.com/haggleworks/cartwheel/internal/match"
	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/search"
	"github.com/haggleworks/cartwheel/internal/tui"
)

func analyzeCmd() *cobra.Command {
	var (
		interactive bool
		usePicker   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <message>...",
		Short: "Analyze customer messages for purchase intent",
		Long: `Analyze runs one or more chat messages through intent extraction and
catalog matching. By default it prints the AnalysisResult as JSON; with
--interactive it walks through confirming the match.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			catalog, err := loadCatalog(ctx, store)
			if err != nil {
				return err
			}

			client, err := createCompletionClient()
			if err != nil {
				return err
			}
			embedder, err := createEmbedder()
			if err != nil {
				return err
			}

			a := analyzer.New(client, embedder, analyzerConfig(), slog.Default())
			result := a.Analyze(ctx, args, catalog)

			if !interactive {
				encoded, encErr := json.MarshalIndent(result, "", "  ")
				if encErr != nil {
					return encErr
				}
				fmt.Println(string(encoded))
				return nil
			}

			candidates := candidateMatches(result, catalog)

			if usePicker {
				return reviewWithPicker(result, candidates)
			}

			prompter := cli.NewPrompter(os.Stdin, os.Stdout)
			review, err := prompter.ReviewMatch(ctx, result, candidates)
			if err != nil {
				return err
			}
			if review.Decision == cli.DecisionAccepted && review.Match != nil {
				printConfirmed(review.Match, result.Quantity)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&interactive, "interactive", false, "confirm the match interactively")
	cmd.Flags().BoolVar(&usePicker, "picker", false, "use the full-screen picker for disambiguation")
	return cmd
}

// candidateMatches scores the lexical candidates for interactive review,
// best first. An empty result means nothing in the catalog came close.
func candidateMatches(result model.AnalysisResult, catalog *model.CatalogSnapshot) []*model.ProductMatch {
	if !result.IntentDetected || result.ProductTitle == "" {
		return nil
	}

	order := model.ParsedOrder{
		ProductName: result.ProductTitle,
		Variant:     result.VariantTitle,
		Quantity:    result.Quantity,
	}
	products := search.NewLexical().Search(result.ProductTitle, catalog.Index, catalog.Products)
	if len(products) == 0 {
		products = catalog.Products
	}

	scorer := match.NewMatcher(slog.Default()).WithMinSimilarity(0)
	candidates := make([]*model.ProductMatch, 0, len(products))
	for i := range products {
		if m := scorer.FindBestMatch(order, products[i:i+1]); m != nil {
			candidates = append(candidates, m)
		}
	}

	// Highest score first; the slice is small.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].Score > candidates[j-1].Score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
	return candidates
}

func reviewWithPicker(result model.AnalysisResult, candidates []*model.ProductMatch) error {
	if len(candidates) == 0 {
		fmt.Println(cli.FormatWarning("No candidates to pick from"))
		return nil
	}

	choice, err := tui.Pick(result, candidates)
	if err != nil {
		return err
	}
	if choice == nil {
		fmt.Println(cli.FormatInfo("Skipped"))
		return nil
	}
	printConfirmed(choice, result.Quantity)
	return nil
}

func printConfirmed(m *model.ProductMatch, quantity int) {
	label := m.Product.Name
	if m.VariantLabel != "" {
		label += " (" + m.VariantLabel + ")"
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Confirmed: %d × %s", quantity, label)))
}
