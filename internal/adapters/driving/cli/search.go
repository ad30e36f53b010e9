package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
)

var (
	searchLimit int
	searchDocs  []string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents by semantic similarity",
	Long: `Retrieves the most similar chunks for a query without generating an
answer. Useful for inspecting what 'ask' would be grounded on.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().StringSliceVar(&searchDocs, "doc", nil, "restrict to these document IDs")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	result, err := retrieveService.Retrieve(cmd.Context(), args[0], searchLimit, searchDocs)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if result.Empty() {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (confidence: %s, max: %.3f, avg: %.3f):\n\n",
		result.Confidence, result.MaxScore, result.AvgScore)
	for i, chunk := range result.Chunks {
		cmd.Printf("  [%d] %s page %d, chunk %d (%.3f)\n",
			i+1, chunk.DocumentID, chunk.Page, chunk.ChunkIndex, chunk.Score)
		cmd.Printf("      %s\n\n", snippet(chunk.Content, 160))
	}
	return nil
}

// snippet trims a chunk to a single display line.
func snippet(content string, limit int) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}

// confidenceHint explains a label to the user.
func confidenceHint(confidence domain.Confidence) string {
	switch confidence {
	case domain.ConfidenceHigh:
		return "strong match in the ingested documents"
	case domain.ConfidenceMedium:
		return "partial match; verify against the cited pages"
	default:
		return "weak grounding; the answer may be incomplete"
	}
}
