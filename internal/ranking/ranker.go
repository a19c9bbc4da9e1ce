// Package ranking scores catalog profiles against a job and narrows the ranked
// list down through filter steps.
package ranking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/catalog"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
)

const defaultWorkers = 4

// Scorer produces the score breakdown of a (job, resume) pair.
type Scorer interface {
	Score(ctx context.Context, job, resume string) (*matching.Breakdown, error)
}

type Options struct {
	// Workers bounds the number of pairs scored at once.
	Workers  int
	Redactor catalog.Redactor
	// ExcludeFile lists profiles that are skipped before any model is called.
	ExcludeFile string
}

type Ranker struct {
	scorer      Scorer
	workers     int
	redactor    catalog.Redactor
	excludeFile string
	logger      *zap.Logger
}

func NewRanker(scorer Scorer, opts Options, log *zap.Logger) *Ranker {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Ranker{
		scorer:      scorer,
		workers:     workers,
		redactor:    opts.Redactor,
		excludeFile: opts.ExcludeFile,
		logger:      logger.WithFields(log),
	}
}

// Rank scores every profile that is not excluded against job exactly once and
// returns the applications sorted best first. Any failure aborts the whole run.
func (r *Ranker) Rank(ctx context.Context, job catalog.Job, profiles []catalog.Profile) (*Applications, error) {
	profiles, err := r.skipExcluded(job.ID, profiles)
	if err != nil {
		return nil, err
	}

	jobText := job.Text()
	items := make([]*Application, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, profile := range profiles {
		g.Go(func() error {
			resume, err := profile.ResumeText(r.redactor)
			if err != nil {
				return err
			}

			breakdown, err := r.scorer.Score(gctx, jobText, resume)
			if err != nil {
				return fmt.Errorf("score profile %s: %w", profile.ID, err)
			}

			items[i] = &Application{
				ID:          uuid.NewString(),
				JobID:       job.ID,
				ProfileID:   profile.ID,
				ProfileName: profile.Name,
				Score:       breakdown.Final.Value,
				Breakdown:   breakdown,
				ScoredAt:    now().UTC(),
			}

			r.logger.Debug("application scored",
				zap.String("job_id", job.ID),
				zap.String("profile_id", profile.ID),
				zap.Float64("score", breakdown.Final.Value),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	apps := &Applications{Items: items}
	apps.Sort()

	r.logger.Info("ranked profiles", zap.String("job_id", job.ID), zap.Int("count", apps.Len()))

	return apps, nil
}

// skipExcluded drops the profiles listed in the exclude file for jobID.
func (r *Ranker) skipExcluded(jobID string, profiles []catalog.Profile) ([]catalog.Profile, error) {
	if r.excludeFile == "" || len(profiles) == 0 {
		return profiles, nil
	}

	excluded, err := LoadExclusions(r.excludeFile)
	if err != nil {
		return nil, fmt.Errorf("getting excluded profiles from file: %w", err)
	}

	skip := make(map[string]struct{})
	for _, id := range excluded.ProfileIDs(jobID) {
		skip[id] = struct{}{}
	}

	kept := make([]catalog.Profile, 0, len(profiles))
	var removed []string
	for _, profile := range profiles {
		if _, ok := skip[profile.ID]; ok {
			removed = append(removed, profile.ID)
			continue
		}
		kept = append(kept, profile)
	}

	if len(removed) > 0 {
		r.logger.Info("excluding profiles based on exclude file",
			zap.String("path", r.excludeFile),
			zap.Strings("excluded_profiles", removed),
			zap.Int("profiles_left", len(kept)),
		)
	}

	return kept, nil
}
