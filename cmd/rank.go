package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/catalog"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/ranking"
)

const (
	PromptDone                = "Done"
	PromptBreakdown           = "Show score breakdown of a profile"
	PromptAppendToExcludeFile = "Append ranked profiles to exclude file"
	PromptApplicationsToFile  = "Dump applications to file"
	PromptBack                = "back"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank catalog profiles against a catalog job",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("catalog", "c", "catalog.yaml", "catalog file with jobs and profiles")
	rankCmd.Flags().String("job", "", "id of the job to rank profiles for. Prompted when unset.")
	rankCmd.Flags().BoolP("yes", "y", false, "do not ask anything, print the ranking and exit")
	rankCmd.Flags().StringP("exclude-file", "e", "", "special file with profiles to exclude. Default is unset.")
	rankCmd.Flags().Float64("minimum-score", 0, "drop profiles scoring below this value")
	rankCmd.Flags().Int("top", 0, "keep only the best N profiles, 0 keeps all")

	viper.BindPFlag("ranking.exclude-file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("ranking.minimum-score", rankCmd.Flags().Lookup("minimum-score"))
	viper.BindPFlag("ranking.top", rankCmd.Flags().Lookup("top"))
}

func rank(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-matcher", zap.String("version", version))

	catalogPath, _ := cmd.Flags().GetString("catalog")
	jobID, _ := cmd.Flags().GetString("job")
	autoApprove, _ := cmd.Flags().GetBool("yes")

	c, err := catalog.Load(catalogPath)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	job, err := selectJob(c, jobID, autoApprove)
	if err != nil {
		logger.Fatal("selecting a job", zap.Error(err))
	}

	if len(c.Profiles) == 0 {
		logger.Info("exiting", zap.String("reason", "no profiles in catalog"))
		return
	}

	engine, err := newModelSet(ctx, config, logger).engine()
	if err != nil {
		logger.Fatal("loading models", zap.Error(err))
	}

	ranker := ranking.NewRanker(engine, ranking.Options{
		Workers:     config.Ranking.Workers,
		Redactor:    redactor(config, logger),
		ExcludeFile: config.Ranking.ExcludeFile,
	}, logger)

	apps, err := ranker.Rank(ctx, job, c.Profiles)
	if err != nil {
		logger.Fatal("ranking profiles", zap.Error(err))
	}

	steps := prepareFilters(config.Ranking)
	for _, status := range ranking.Describe(steps) {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.Any("details", status.Details),
		)
	}

	apps, err = ranking.Run(ctx, logger, steps, apps)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if apps.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no profiles left after filters"))
		return
	}

	out := cmd.OutOrStdout()
	printRanking(out, job, apps)

	if autoApprove {
		return
	}

	if err := review(out, logger, config.Ranking.ExcludeFile, apps); err != nil && !errors.Is(err, promptui.ErrInterrupt) {
		logger.Fatal("reviewing ranking", zap.Error(err))
	}
}

func prepareFilters(cfg *RankingConfig) []ranking.Filter {
	steps := []ranking.Filter{
		ranking.NewMinimumScore(cfg.MinimumScore),
		ranking.NewTop(cfg.Top),
	}
	if cfg.MinimumScore == 0 {
		ranking.DisableByName(steps, "minimum_score", "minimum score is not set")
	}
	return steps
}

func selectJob(c *catalog.Catalog, id string, autoApprove bool) (catalog.Job, error) {
	if id != "" {
		job, ok := c.Job(id)
		if !ok {
			return catalog.Job{}, fmt.Errorf("there is no such job id %s", id)
		}
		return job, nil
	}

	switch {
	case len(c.Jobs) == 0:
		return catalog.Job{}, errors.New("catalog has no jobs")
	case len(c.Jobs) == 1:
		return c.Jobs[0], nil
	case autoApprove:
		return catalog.Job{}, errors.New("several jobs in catalog, choose one with --job")
	}

	items := make([]string, 0, len(c.Jobs))
	for _, job := range c.Jobs {
		items = append(items, jobLabel(job))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: items,
	}

	idx, _, err := jobPrompt.Run()
	if err != nil {
		return catalog.Job{}, err
	}

	return c.Jobs[idx], nil
}

func jobLabel(job catalog.Job) string {
	label := job.ID + " " + job.Title
	if job.Company != "" {
		label += " / " + job.Company
	}
	return label
}

func printRanking(w io.Writer, job catalog.Job, apps *ranking.Applications) {
	fmt.Fprintf(w, "%s\n", jobLabel(job))
	for i, app := range apps.Items {
		name := app.ProfileID
		if app.ProfileName != "" {
			name = fmt.Sprintf("%s (%s)", app.ProfileID, app.ProfileName)
		}
		fmt.Fprintf(w, "%3d. %.4f  %s\n", i+1, app.Score, name)
	}
}

func printBreakdown(w io.Writer, app *ranking.Application) {
	fmt.Fprintf(w, "%s\n", app.ProfileID)
	if app.Breakdown == nil {
		return
	}
	for _, c := range app.Breakdown.Components() {
		fmt.Fprintf(w, "  %-16s %.4f\n", c.Signal, c.Value)
	}
	fmt.Fprintf(w, "  skills:     %s\n", strings.Join(app.Breakdown.ResumeEntities.Skills, ", "))
	fmt.Fprintf(w, "  education:  %s\n", strings.Join(app.Breakdown.ResumeEntities.Education, ", "))
	for _, statement := range app.Breakdown.ResumeEntities.Experience {
		fmt.Fprintf(w, "  experience: %s\n", statement)
	}
}

func review(out io.Writer, logger *zap.Logger, excludeFile string, apps *ranking.Applications) error {
	for {
		items := []string{PromptDone, PromptBreakdown, PromptApplicationsToFile}
		if excludeFile != "" {
			items = append(items, PromptAppendToExcludeFile)
		}

		prompt := promptui.Select{
			Label: "Proceed?",
			Items: items,
		}

		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptDone:
			return nil
		case PromptBreakdown:
			if err := chooseBreakdown(out, apps); err != nil {
				return err
			}
		case PromptApplicationsToFile:
			filename, err := apps.DumpToTmpFile()
			if err != nil {
				return fmt.Errorf("dump applications to file: %w", err)
			}
			logger.Info("dumping applications to file", zap.String("filename", filename))
		case PromptAppendToExcludeFile:
			excluded, err := ranking.LoadExclusions(excludeFile)
			if err != nil {
				return err
			}

			excluded.Append(apps.ToExcluded())

			if err = excluded.ToFile(excludeFile); err != nil {
				return err
			}

			logger.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("count", apps.Len()))
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func chooseBreakdown(out io.Writer, apps *ranking.Applications) error {
	items := make([]string, 0, apps.Len()+1)
	for _, app := range apps.Items {
		items = append(items, app.ProfileID)
	}

	profilePrompt := promptui.Select{
		Label: "Choose a profile and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := profilePrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	if app := apps.FindByProfile(selected); app != nil {
		printBreakdown(out, app)
	}
	return nil
}
