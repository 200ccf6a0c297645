package domain

type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityWarn   Severity = "warn"
	SeverityAction Severity = "action"
)

// Recommendation is a raw advisory produced by a rule set.
type Recommendation struct {
	ID        string   `json:"id" validate:"required"`
	Severity  Severity `json:"severity" validate:"required"`
	Title     string   `json:"title"`
	Detail    string   `json:"detail"`
	Rationale string   `json:"rationale"`
}

type ScoredRecommendation struct {
	ID                string   `json:"id"`
	Severity          Severity `json:"severity"`
	Title             string   `json:"title"`
	Detail            string   `json:"detail"`
	Rationale         []string `json:"rationale"`
	RawScore          float64  `json:"raw_score"`
	SeverityWeight    float64  `json:"severity_weight"`
	RecencyFactor     float64  `json:"recency_factor"`
	CompositePriority float64  `json:"composite_priority"`
	CanonicalCause    string   `json:"canonical_cause"`
	DuplicateCount    int      `json:"duplicate_count,omitempty"`
}

type RecommendationGroup struct {
	CanonicalCause       string                 `json:"canonical_cause"`
	Recommendations      []ScoredRecommendation `json:"recommendations"`
	MergedRecommendation ScoredRecommendation   `json:"merged_recommendation"`
	TotalPriority        float64                `json:"total_priority"`
}

type AggregateMetrics struct {
	TotalDomains int64 `json:"total_domains"`
	DNSValid     int64 `json:"dns_valid"`
	HTTPValid    int64 `json:"http_valid"`
	Analyzed     int64 `json:"analyzed"`
	Leads        int64 `json:"leads"`
}

type ClassificationBucket struct {
	Count int64 `json:"count"`
}

type Classification struct {
	HighQuality   ClassificationBucket `json:"high_quality"`
	MediumQuality ClassificationBucket `json:"medium_quality"`
	LowQuality    ClassificationBucket `json:"low_quality"`
}

type MetricDelta struct {
	Key       string  `json:"key"`
	Absolute  float64 `json:"absolute"`
	Percent   float64 `json:"percent"`
	Direction string  `json:"direction"` // up | down | flat
}

// ScoringContext is the metric snapshot recommendations are scored against.
// Optional fields are pointers so "not reported" differs from zero.
type ScoringContext struct {
	Aggregates         AggregateMetrics  `json:"aggregates"`
	Classification     Classification    `json:"classification"`
	Deltas             []MetricDelta     `json:"deltas,omitempty"`
	WarningRate        *float64          `json:"warning_rate,omitempty"`
	TargetDomains      *int64            `json:"target_domains,omitempty"`
	PreviousAggregates *AggregateMetrics `json:"previous_aggregates,omitempty"`
}
