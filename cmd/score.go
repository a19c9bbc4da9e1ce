package cmd

import (
	"context"
	"encoding/json"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/logger"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume file against a job posting file",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("job", "", "job posting file (.txt, .md or .html)")
	scoreCmd.Flags().String("resume", "", "resume file (.txt, .md or .html)")
	scoreCmd.MarkFlagRequired("job")
	scoreCmd.MarkFlagRequired("resume")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	jobPath, _ := cmd.Flags().GetString("job")
	resumePath, _ := cmd.Flags().GetString("resume")

	job, err := document.ExtractFile(jobPath)
	if err != nil {
		logger.Fatal("reading job posting", zap.String("path", jobPath), zap.Error(err))
	}

	resume, err := readDocument(resumePath, redactor(config, logger))
	if err != nil {
		logger.Fatal("reading resume", zap.String("path", resumePath), zap.Error(err))
	}

	engine, err := newModelSet(ctx, config, logger).engine()
	if err != nil {
		logger.Fatal("loading models", zap.Error(err))
	}

	breakdown, err := engine.Score(ctx, job, resume)
	if err != nil {
		logger.Fatal("scoring", zap.Error(err))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(breakdown); err != nil {
		logger.Fatal("printing score", zap.Error(err))
	}
}
