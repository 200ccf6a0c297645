package recommendation

import (
	"context"
	"sort"
	"time"

	"campaignAdvisor/domain"
	"campaignAdvisor/pkg/logger"
	"campaignAdvisor/pkg/tracing"
)

const (
	DefaultPriorityThreshold = 0.08
	fallbackScore            = 0.5

	modeEnhanced = "enhanced"
	modeFallback = "fallback"
)

type Options struct {
	// Enhanced selects weighted scoring with grouping. When false every
	// recommendation scores a flat 0.5 and stays in its own group.
	Enhanced bool
	// Groups with TotalPriority at or below the threshold are dropped.
	PriorityThreshold float64
}

func DefaultOptions() Options {
	return Options{
		Enhanced:          true,
		PriorityThreshold: DefaultPriorityThreshold,
	}
}

// Scorer ranks raw recommendations. It holds no mutable state and is safe
// for concurrent use.
type Scorer struct {
	opts Options
}

func NewScorer(opts Options) *Scorer {
	if opts.PriorityThreshold < 0 {
		opts.PriorityThreshold = DefaultPriorityThreshold
	}
	return &Scorer{opts: opts}
}

func (s *Scorer) Options() Options {
	return s.opts
}

// ScoreAndGroupRecommendations scores with the default options.
func ScoreAndGroupRecommendations(recs []domain.Recommendation, sc domain.ScoringContext) []domain.RecommendationGroup {
	return NewScorer(DefaultOptions()).ScoreAndGroup(context.Background(), recs, sc)
}

func (s *Scorer) ScoreAndGroup(ctx context.Context, recs []domain.Recommendation, sc domain.ScoringContext) []domain.RecommendationGroup {
	start := time.Now()
	mode := modeEnhanced
	if !s.opts.Enhanced {
		mode = modeFallback
	}

	var groups []domain.RecommendationGroup
	if s.opts.Enhanced {
		groups = s.enhanced(recs, sc)
	} else {
		groups = s.fallback(recs)
	}

	kept := make([]domain.RecommendationGroup, 0, len(groups))
	for _, g := range groups {
		if g.TotalPriority > s.opts.PriorityThreshold {
			kept = append(kept, g)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].TotalPriority != kept[j].TotalPriority {
			return kept[i].TotalPriority > kept[j].TotalPriority
		}
		if kept[i].CanonicalCause != kept[j].CanonicalCause {
			return kept[i].CanonicalCause < kept[j].CanonicalCause
		}
		return lessScored(kept[i].MergedRecommendation, kept[j].MergedRecommendation)
	})

	ScoringDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	GroupsReturnedTotal.WithLabelValues(mode).Add(float64(len(kept)))
	GroupsDroppedTotal.WithLabelValues(mode).Add(float64(len(groups) - len(kept)))

	logger.Debug("recommendations_scored",
		"trace_id", tracing.TraceIDFromContext(ctx),
		"mode", mode,
		"input", len(recs),
		"groups", len(groups),
		"kept", len(kept),
	)

	return kept
}

// Score computes the weighted priority of a single recommendation.
func Score(rec domain.Recommendation, sc domain.ScoringContext) domain.ScoredRecommendation {
	weight := severityWeight(rec.Severity)
	raw := KindOf(rec.ID).rawScore(weight, sc)
	recency := recencyFactor(rec.ID)

	return domain.ScoredRecommendation{
		ID:                rec.ID,
		Severity:          rec.Severity,
		Title:             rec.Title,
		Detail:            rec.Detail,
		Rationale:         rationaleOf(rec),
		RawScore:          raw,
		SeverityWeight:    weight,
		RecencyFactor:     recency,
		CompositePriority: weight * raw * recency,
		CanonicalCause:    canonicalCause(rec.ID),
	}
}

func (s *Scorer) enhanced(recs []domain.Recommendation, sc domain.ScoringContext) []domain.RecommendationGroup {
	byCause := make(map[string][]domain.ScoredRecommendation)
	var causes []string

	for _, rec := range recs {
		scored := Score(rec, sc)
		if _, seen := byCause[scored.CanonicalCause]; !seen {
			causes = append(causes, scored.CanonicalCause)
		}
		byCause[scored.CanonicalCause] = append(byCause[scored.CanonicalCause], scored)
	}

	groups := make([]domain.RecommendationGroup, 0, len(causes))
	for _, cause := range causes {
		groups = append(groups, mergeGroup(cause, byCause[cause]))
	}
	return groups
}

func (s *Scorer) fallback(recs []domain.Recommendation) []domain.RecommendationGroup {
	groups := make([]domain.RecommendationGroup, 0, len(recs))
	for _, rec := range recs {
		scored := domain.ScoredRecommendation{
			ID:                rec.ID,
			Severity:          rec.Severity,
			Title:             rec.Title,
			Detail:            rec.Detail,
			Rationale:         rationaleOf(rec),
			RawScore:          fallbackScore,
			SeverityWeight:    severityWeight(rec.Severity),
			RecencyFactor:     1,
			CompositePriority: fallbackScore,
			CanonicalCause:    rec.ID,
		}
		groups = append(groups, domain.RecommendationGroup{
			CanonicalCause:       rec.ID,
			Recommendations:      []domain.ScoredRecommendation{scored},
			MergedRecommendation: scored,
			TotalPriority:        fallbackScore,
		})
	}
	return groups
}

func mergeGroup(cause string, members []domain.ScoredRecommendation) domain.RecommendationGroup {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].CompositePriority != members[j].CompositePriority {
			return members[i].CompositePriority > members[j].CompositePriority
		}
		return lessScored(members[i], members[j])
	})

	if len(members) == 1 {
		return domain.RecommendationGroup{
			CanonicalCause:       cause,
			Recommendations:      members,
			MergedRecommendation: members[0],
			TotalPriority:        members[0].CompositePriority,
		}
	}

	var sum float64
	seen := make(map[string]struct{})
	rationale := make([]string, 0, len(members))
	for _, m := range members {
		sum += m.CompositePriority
		for _, r := range m.Rationale {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			rationale = append(rationale, r)
		}
	}

	merged := members[0]
	merged.Title, merged.Detail = mergedText(cause, len(members))
	merged.Rationale = rationale
	merged.DuplicateCount = len(members)

	return domain.RecommendationGroup{
		CanonicalCause:       cause,
		Recommendations:      members,
		MergedRecommendation: merged,
		TotalPriority:        sum / float64(len(members)),
	}
}

// lessScored orders equal-priority items so output never depends on input order.
func lessScored(a, b domain.ScoredRecommendation) bool {
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	if a.Severity != b.Severity {
		return a.Severity < b.Severity
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	if a.Detail != b.Detail {
		return a.Detail < b.Detail
	}
	return firstRationale(a) < firstRationale(b)
}

func firstRationale(r domain.ScoredRecommendation) string {
	if len(r.Rationale) == 0 {
		return ""
	}
	return r.Rationale[0]
}

func rationaleOf(rec domain.Recommendation) []string {
	if rec.Rationale == "" {
		return []string{}
	}
	return []string{rec.Rationale}
}
