package cmd

import (
	"context"
	"encoding/json"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Print the skills, experience and education found in a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extract(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func extract(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	text, err := readDocument(path, redactor(config, logger))
	if err != nil {
		logger.Fatal("reading document", zap.String("path", path), zap.Error(err))
	}

	annotator, err := newModelSet(ctx, config, logger).annotator()
	if err != nil {
		logger.Fatal("loading annotator", zap.Error(err))
	}

	bundle, err := matching.NewExtractor(annotator).Extract(ctx, text)
	if err != nil {
		logger.Fatal("extracting entities", zap.Error(err))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		logger.Fatal("printing entities", zap.Error(err))
	}
}
