package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contextiq-labs/contextiq/internal/core/ports/driving"
)

var (
	askTopK     int
	askDocs     []string
	askCombined bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question over the ingested documents",
	Long: `Retrieves the most relevant chunks for the question and asks the
configured generation provider for an answer grounded in them. Each
answer carries page-level attribution and a confidence label.

Questions mentioning "these papers", "all documents", "combined" or
"together" are answered once across all documents; otherwise documents
are answered separately.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default 10)")
	askCmd.Flags().StringSliceVar(&askDocs, "doc", nil, "restrict to these document IDs")
	askCmd.Flags().BoolVar(&askCombined, "combined", false, "force one answer across all documents")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("no generation provider configured: set generation.provider " +
			"to groq or gemini in " + configStore.Path())
	}

	answer, err := answerService.Answer(cmd.Context(), args[0], driving.AnswerOptions{
		TopK:            askTopK,
		TargetDocuments: askDocs,
		Combined:        askCombined,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	switch answer.Mode {
	case driving.AnswerModePerDocument:
		for _, docID := range dedupeDocuments(answer) {
			cmd.Printf("=== %s ===\n%s\n\n", docID, answer.PerDocument[docID])
		}
	default:
		cmd.Printf("%s\n\n", answer.Text)
	}

	if len(answer.Attributions) > 0 {
		cmd.Println("Sources:")
		for _, att := range answer.Attributions {
			cmd.Printf("  - %s, page %d (%.3f)\n", att.DocumentID, att.Page, att.Score)
		}
		cmd.Println()
	}

	cmd.Printf("Confidence: %s (%s)\n", answer.Confidence, confidenceHint(answer.Confidence))
	return nil
}

// dedupeDocuments lists attribution document IDs in first-seen order,
// which is descending by best score.
func dedupeDocuments(answer *driving.Answer) []string {
	seen := make(map[string]bool)
	var order []string
	for _, att := range answer.Attributions {
		if !seen[att.DocumentID] {
			seen[att.DocumentID] = true
			order = append(order, att.DocumentID)
		}
	}
	return order
}
