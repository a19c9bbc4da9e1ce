package matching

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Bucket weights of the entity-weighted score. They sum to 1.
const (
	SkillsWeight     = 0.4
	ExperienceWeight = 0.5
	EducationWeight  = 0.1
)

type bucketScores struct {
	skills, experience, education float64
	job, resume                   EntityBundle
}

func (s bucketScores) weighted() float64 {
	return SkillsWeight*s.skills + ExperienceWeight*s.experience + EducationWeight*s.education
}

// EntityWeightedScore extracts entities from both documents and combines the
// per-bucket similarities with fixed weights.
func (e *Engine) EntityWeightedScore(ctx context.Context, job, resume string) (float64, error) {
	scores, err := e.bucketScores(ctx, job, resume)
	if err != nil {
		return 0, err
	}
	return scores.weighted(), nil
}

func (e *Engine) bucketScores(ctx context.Context, job, resume string) (bucketScores, error) {
	jobBundle, resumeBundle, err := e.extractPair(ctx, job, resume)
	if err != nil {
		return bucketScores{}, err
	}

	buckets := []struct {
		signal      Signal
		job, resume string
	}{
		{SignalSkills, joinBucket(jobBundle.Skills), joinBucket(resumeBundle.Skills)},
		{SignalExperience, joinBucket(jobBundle.Experience), joinBucket(resumeBundle.Experience)},
		{SignalEducation, joinBucket(jobBundle.Education), joinBucket(resumeBundle.Education)},
	}

	sims := make([]float64, len(buckets))
	g, gctx := errgroup.WithContext(ctx)
	for i, bucket := range buckets {
		// An empty side degrades the bucket to 0 without touching the encoder.
		if bucket.job == "" || bucket.resume == "" {
			continue
		}
		g.Go(func() error {
			sim, err := e.similarity.Similarity(gctx, bucket.job, bucket.resume)
			if err != nil {
				return fmt.Errorf("%s similarity: %w", bucket.signal, err)
			}
			sims[i] = sim
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return bucketScores{}, err
	}

	return bucketScores{
		skills:     sims[0],
		experience: sims[1],
		education:  sims[2],
		job:        jobBundle,
		resume:     resumeBundle,
	}, nil
}

func (e *Engine) extractPair(ctx context.Context, job, resume string) (EntityBundle, EntityBundle, error) {
	var jobBundle, resumeBundle EntityBundle

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bundle, err := e.extractor.Extract(gctx, job)
		if err != nil {
			return fmt.Errorf("extract job entities: %w", err)
		}
		jobBundle = bundle
		return nil
	})
	g.Go(func() error {
		bundle, err := e.extractor.Extract(gctx, resume)
		if err != nil {
			return fmt.Errorf("extract resume entities: %w", err)
		}
		resumeBundle = bundle
		return nil
	})

	if err := g.Wait(); err != nil {
		return EntityBundle{}, EntityBundle{}, err
	}

	return jobBundle, resumeBundle, nil
}
