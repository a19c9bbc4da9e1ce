package matching

import "github.com/spigell/resume-matcher/internal/logger"

// Signal names the scorer that produced a ScoreComponent.
type Signal string

const (
	SignalPairwise       Signal = "pairwise"
	SignalSkills         Signal = "skills"
	SignalExperience     Signal = "experience"
	SignalEducation      Signal = "education"
	SignalEntityWeighted Signal = "entity_weighted"
	SignalFinal          Signal = "final"
)

// ScoreComponent is one tagged score.
type ScoreComponent struct {
	Signal Signal  `json:"signal"`
	Value  float64 `json:"value"`
}

// Breakdown bundles every component of one scoring call together with the
// extracted entities of both documents.
type Breakdown struct {
	Pairwise       ScoreComponent `json:"pairwise"`
	Skills         ScoreComponent `json:"skills"`
	Experience     ScoreComponent `json:"experience"`
	Education      ScoreComponent `json:"education"`
	EntityWeighted ScoreComponent `json:"entity_weighted"`
	Final          ScoreComponent `json:"final"`

	JobEntities    EntityBundle `json:"job_entities"`
	ResumeEntities EntityBundle `json:"resume_entities"`
}

// Components lists the score components in a stable order.
func (b *Breakdown) Components() []ScoreComponent {
	return []ScoreComponent{b.Pairwise, b.Skills, b.Experience, b.Education, b.EntityWeighted, b.Final}
}

// LogFields renders the components as structured log fields.
func (b *Breakdown) LogFields() []logger.ScoreField {
	components := b.Components()
	fields := make([]logger.ScoreField, 0, len(components))
	for _, c := range components {
		fields = append(fields, logger.ScoreField{Key: string(c.Signal), Value: c.Value})
	}
	return fields
}
