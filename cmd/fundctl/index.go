package main

import (
	"fmt"

	"github.com/futig/fund-faq/internal/builder"
	"github.com/futig/fund-faq/internal/usecase/indexing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vector index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed the scheme dataset and publish a new index",
	Long: `Reads the extracted scheme dataset, builds one chunk per fact and one overview
chunk per scheme, embeds them and publishes the result to the configured backend.
A directory resolves to its newest all_schemes_*.json file.`,
	Args: cobra.NoArgs,
	RunE: runIndexBuild,
}

var (
	indexDataPath  string
	indexOverwrite bool
)

func init() {
	indexBuildCmd.Flags().StringVar(&indexDataPath, "data", "", "dataset file or directory (default INDEX_DATA_PATH)")
	indexBuildCmd.Flags().BoolVar(&indexOverwrite, "overwrite", false, "replace an existing index")
	indexCmd.AddCommand(indexBuildCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	ix, err := builder.BuildIndexer(ctx, environment)
	if err != nil {
		return err
	}
	defer ix.Close()

	path := indexDataPath
	if path == "" {
		path = ix.DataPath
	}

	ds, resolved, err := indexing.LoadDataset(path)
	if err != nil {
		return err
	}
	ix.Logger.Info("dataset loaded", zap.String("path", resolved), zap.Int("schemes", len(ds.Schemes)))

	snap, err := ix.Usecase.Build(ctx, ds, indexOverwrite)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %s with %s (dimension %d)\n",
		len(snap.Chunks), resolved, snap.EmbeddingModel, snap.Dimension)
	return nil
}
