package domain

// TagKind discriminates the four categorized tag lists attached to a workflow.
type TagKind string

const (
	TagWhenToUse    TagKind = "when_to_use"
	TagWhenNotToUse TagKind = "when_not_to_use"
	TagAlternatives TagKind = "alternatives"
	TagPatternTags  TagKind = "pattern_tags"
)

// TagKinds lists every kind in storage order. Hydration guarantees a list
// (possibly empty) for each of these on every document.
var TagKinds = []TagKind{TagWhenToUse, TagWhenNotToUse, TagAlternatives, TagPatternTags}

// Step is one ordered action inside a workflow. Tool is free text and is not
// required to match an entry in the workflow's tool list.
type Step struct {
	Step    int    `json:"step"`
	Action  string `json:"action"`
	Tool    string `json:"tool"`
	Details string `json:"details"`
}

// WorkflowAggregate is the full in-memory representation of one extracted
// automation procedure before persistence. The caller owns it until
// InsertWorkflow returns.
type WorkflowAggregate struct {
	SourceURL    string
	SourceTitle  string
	ChannelName  string
	Published    string // ISO-8601, sortable lexicographically
	UseCase      string
	SkillLevel   string
	Overview     string
	CostEstimate string
	Complexity   string
	ValueScore   int
	DocPath      string
	ProcessedAt  string

	Tools        []string
	Steps        []Step
	WhenToUse    []string
	WhenNotToUse []string
	Alternatives []string
	PatternTags  []string
}

// Tags returns the aggregate's tag list for a kind.
func (a *WorkflowAggregate) Tags(kind TagKind) []string {
	switch kind {
	case TagWhenToUse:
		return a.WhenToUse
	case TagWhenNotToUse:
		return a.WhenNotToUse
	case TagAlternatives:
		return a.Alternatives
	case TagPatternTags:
		return a.PatternTags
	}
	return nil
}

// WorkflowDocument is the fully hydrated workflow shape served to the
// dashboard and the doc generator. Field names are part of the API contract.
type WorkflowDocument struct {
	Slug         string `db:"slug" json:"slug"`
	SourceURL    string `db:"source_url" json:"source_url"`
	SourceTitle  string `db:"source_title" json:"source_title"`
	ChannelName  string `db:"channel_name" json:"channel_name"`
	Published    string `db:"published" json:"published"`
	UseCase      string `db:"use_case" json:"use_case"`
	SkillLevel   string `db:"skill_level" json:"skill_level"`
	Overview     string `db:"overview" json:"overview"`
	CostEstimate string `db:"cost_estimate" json:"cost_estimate"`
	Complexity   string `db:"complexity" json:"complexity"`
	ValueScore   int    `db:"value_score" json:"value_score"`
	DocPath      string `db:"doc_path" json:"doc_path"`
	ProcessedAt  string `db:"processed_at" json:"processed_at"`

	Tools        []string `json:"tools"`
	Steps        []Step   `json:"workflow_steps"`
	WhenToUse    []string `json:"when_to_use"`
	WhenNotToUse []string `json:"when_not_to_use"`
	Alternatives []string `json:"alternatives"`
	PatternTags  []string `json:"pattern_tags"`
}

// VideoInfo is what the discovery collaborator produces per candidate video.
type VideoInfo struct {
	VideoID     string
	Title       string
	ChannelName string
	URL         string
	Published   string
	Transcript  string
}
