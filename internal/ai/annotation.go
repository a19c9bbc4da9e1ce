package ai

// Entity labels produced by annotators. They follow the OntoNotes names used by
// common NER models.
const (
	LabelPerson       = "PERSON"
	LabelOrganization = "ORG"
	LabelProduct      = "PRODUCT"
	LabelWorkOfArt    = "WORK_OF_ART"
	LabelGPE          = "GPE"
	LabelLanguage     = "LANGUAGE"
	LabelDate         = "DATE"
)

// Entity is a typed named-entity span.
type Entity struct {
	Text  string `json:"text" mapstructure:"text"`
	Label string `json:"label" mapstructure:"label"`
}

// Annotation is the result of an annotation pass: typed entity spans in document
// order and the document segmented into sentences.
type Annotation struct {
	Entities  []Entity `json:"entities" mapstructure:"entities"`
	Sentences []string `json:"sentences" mapstructure:"sentences"`
}
