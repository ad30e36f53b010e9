package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var docsJSON bool

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage ingested documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsRemoveCmd = &cobra.Command{
	Use:   "remove [document-id]",
	Short: "Remove a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsRemove,
}

func init() {
	docsListCmd.Flags().BoolVar(&docsJSON, "json", false, "output as JSON")
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsRemoveCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	docs, err := docStore.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if docsJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	cmd.Printf("Documents (%d):\n\n", len(docs))
	for _, doc := range docs {
		cmd.Printf("  %s  %s\n", doc.ID, doc.Title)
		cmd.Printf("      %s (ingested %s)\n\n", doc.URI, doc.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDocsRemove(cmd *cobra.Command, args []string) error {
	if err := docStore.DeleteDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("remove document: %w", err)
	}

	// The in-memory index is append-only; the removed chunks disappear
	// when the index is rebuilt on the next run.
	cmd.Printf("Removed %s.\n", args[0])
	return nil
}
