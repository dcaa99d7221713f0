package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/haggleworks/cartwheel/internal/model"
)

// Confidence tiers for match review. Above the accept threshold the match
// is taken without asking; below the reject threshold it is dropped
// without asking; in between the user disambiguates.
const (
	DefaultAutoAcceptThreshold = 0.75
	DefaultRejectThreshold     = 0.45
)

// Decision is the outcome of reviewing one analysis.
type Decision string

// Review outcomes.
const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
	DecisionSkipped  Decision = "skipped"
)

// Review pairs a decision with the match it applies to.
type Review struct {
	Match    *model.ProductMatch
	Decision Decision
}

// Prompter runs the confidence-tiered review loop on a terminal.
type Prompter struct {
	writer      io.Writer
	reader      *NonBlockingReader
	progressBar *progressbar.ProgressBar
	acceptAbove float64
	rejectBelow float64
}

// NewPrompter creates a prompter with the default tier thresholds.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		writer:      writer,
		reader:      NewNonBlockingReader(reader),
		acceptAbove: DefaultAutoAcceptThreshold,
		rejectBelow: DefaultRejectThreshold,
	}
}

// WithThresholds overrides the tier boundaries.
func (p *Prompter) WithThresholds(acceptAbove, rejectBelow float64) *Prompter {
	p.acceptAbove = acceptAbove
	p.rejectBelow = rejectBelow
	return p
}

// ReviewMatch resolves one analysis against its candidate matches. High
// confidence auto-accepts the best candidate, low confidence rejects, and
// the middle tier asks the user to pick.
func (p *Prompter) ReviewMatch(ctx context.Context, result model.AnalysisResult, candidates []*model.ProductMatch) (Review, error) {
	select {
	case <-ctx.Done():
		return Review{}, ctx.Err()
	default:
	}

	if len(candidates) == 0 || result.Confidence < p.rejectBelow {
		fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf(
			"No confident match (confidence %.2f), nothing to confirm", result.Confidence)))
		return Review{Decision: DecisionRejected}, nil
	}

	if result.Confidence > p.acceptAbove {
		fmt.Fprintln(p.writer, FormatSuccess(fmt.Sprintf(
			"Auto-accepted %s (confidence %.2f)", candidates[0].Product.Name, result.Confidence)))
		return Review{Match: candidates[0], Decision: DecisionAccepted}, nil
	}

	return p.disambiguate(ctx, result, candidates)
}

func (p *Prompter) disambiguate(ctx context.Context, result model.AnalysisResult, candidates []*model.ProductMatch) (Review, error) {
	fmt.Fprintln(p.writer, RenderBox("Possible Match", p.formatAnalysis(result)))
	fmt.Fprintln(p.writer, FormatPrompt("Candidates:"))

	for i, c := range candidates {
		label := c.Product.Name
		if c.VariantLabel != "" {
			label += " (" + c.VariantLabel + ")"
		}
		fmt.Fprintf(p.writer, "  [%d] %s %s\n", i+1, BoldStyle.Render(label),
			SubtleStyle.Render(fmt.Sprintf("score %.2f, sku %s", c.Score, c.Product.SKU)))
	}
	fmt.Fprintln(p.writer, "  [s] Skip")
	fmt.Fprintln(p.writer)

	for {
		fmt.Fprint(p.writer, FormatPrompt("Choice"))

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return Review{}, err
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		if choice == "s" {
			return Review{Decision: DecisionSkipped}, nil
		}
		if n, convErr := strconv.Atoi(choice); convErr == nil && n >= 1 && n <= len(candidates) {
			fmt.Fprintln(p.writer, FormatSuccess("Confirmed "+candidates[n-1].Product.Name))
			return Review{Match: candidates[n-1], Decision: DecisionAccepted}, nil
		}

		fmt.Fprintln(p.writer, FormatError(fmt.Sprintf(
			"Enter a number between 1 and %d, or s to skip", len(candidates))))
	}
}

func (p *Prompter) formatAnalysis(result model.AnalysisResult) string {
	lines := []string{
		"Message:    " + result.TriggerMessage,
		"Product:    " + result.ProductTitle,
	}
	if result.VariantTitle != "" {
		lines = append(lines, "Variant:    "+result.VariantTitle)
	}
	lines = append(lines,
		fmt.Sprintf("Quantity:   %d", result.Quantity),
		fmt.Sprintf("Confidence: %.2f", result.Confidence),
	)
	if result.Reasoning != "" {
		lines = append(lines, SubtleStyle.Render(result.Reasoning))
	}
	return strings.Join(lines, "\n")
}

// StartProgress begins a progress bar for a batch operation.
func (p *Prompter) StartProgress(total int, description string) {
	p.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// IncrementProgress advances the bar by one step.
func (p *Prompter) IncrementProgress() {
	if p.progressBar != nil {
		_ = p.progressBar.Add(1)
	}
}

// FinishProgress completes and clears the bar.
func (p *Prompter) FinishProgress() {
	if p.progressBar != nil {
		_ = p.progressBar.Finish()
		fmt.Fprintln(p.writer)
		p.progressBar = nil
	}
}
