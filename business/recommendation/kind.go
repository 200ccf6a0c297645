package recommendation

import (
	"math"
	"strings"

	"campaignAdvisor/domain"
)

// Kind identifies a recommendation rule. Ids that do not match a known kind
// resolve to KindUnknown and keep their own id as canonical cause.
type Kind int

const (
	KindUnknown Kind = iota
	KindLowHighQuality
	KindQualityDecline
	KindHighWarningRate
	KindWarningSpike
	KindDomainCountLow
	KindSignificantDecline
	KindSignificantImprovement
	KindCharsetOptimization
	KindLengthOptimization
	KindDNSValidationLow
	KindHTTPValidationLow
	KindNoLeads
	KindAllClear
)

const (
	IDLowHighQuality         = "low-high-quality"
	IDQualityDecline         = "quality-decline"
	IDHighWarningRate        = "high-warning-rate"
	IDWarningSpike           = "warning-spike"
	IDDomainCountLow         = "domain-count-low"
	IDSignificantDecline     = "significant-decline"
	IDSignificantImprovement = "significant-improvement"
	IDCharsetOptimization    = "charset-optimization"
	IDLengthOptimization     = "length-optimization"
	IDDNSValidationLow       = "dns-validation-low"
	IDHTTPValidationLow      = "http-validation-low"
	IDNoLeads                = "no-leads"
	IDAllClear               = "all-clear"
)

const (
	CauseGenerationOptimization = "generation-optimization"
	CauseContentQuality         = "content-quality"
	CauseQualityYield           = "quality-yield"
	CauseValidationYield        = "validation-yield"
)

var kindByID = map[string]Kind{
	IDLowHighQuality:         KindLowHighQuality,
	IDQualityDecline:         KindQualityDecline,
	IDHighWarningRate:        KindHighWarningRate,
	IDWarningSpike:           KindWarningSpike,
	IDDomainCountLow:         KindDomainCountLow,
	IDSignificantDecline:     KindSignificantDecline,
	IDSignificantImprovement: KindSignificantImprovement,
	IDCharsetOptimization:    KindCharsetOptimization,
	IDLengthOptimization:     KindLengthOptimization,
	IDDNSValidationLow:       KindDNSValidationLow,
	IDHTTPValidationLow:      KindHTTPValidationLow,
	IDNoLeads:                KindNoLeads,
	IDAllClear:               KindAllClear,
}

func KindOf(id string) Kind {
	if k, ok := kindByID[id]; ok {
		return k
	}
	return KindUnknown
}

// rawScore estimates the impact of a recommendation of this kind in [0,1].
// Kinds without a metric-driven formula, and formulas whose inputs are
// missing, score as their severity weight.
func (k Kind) rawScore(weight float64, sc domain.ScoringContext) float64 {
	var score float64

	switch k {
	case KindLowHighQuality:
		total := sc.Aggregates.TotalDomains
		if total <= 0 {
			score = weight
			break
		}
		ratio := float64(sc.Classification.HighQuality.Count) / float64(total)
		score = clamp(1-2*ratio, 0.2, 1)
	case KindHighWarningRate:
		var rate float64
		if sc.WarningRate != nil {
			rate = *sc.WarningRate
		}
		score = clamp(rate/20, 0, 1)
	case KindDomainCountLow:
		if sc.TargetDomains == nil || *sc.TargetDomains <= 0 {
			score = weight
			break
		}
		score = clamp(1-float64(sc.Aggregates.TotalDomains)/float64(*sc.TargetDomains), 0.2, 1)
	case KindSignificantDecline, KindSignificantImprovement:
		score = 0.8
	case KindQualityDecline, KindWarningSpike,
		KindCharsetOptimization, KindLengthOptimization,
		KindDNSValidationLow, KindHTTPValidationLow,
		KindNoLeads, KindAllClear, KindUnknown:
		score = weight
	}

	return clamp(score, 0, 1)
}

// canonicalCause is the grouping key. Kinds that never merge return "".
func (k Kind) canonicalCause() string {
	switch k {
	case KindCharsetOptimization, KindLengthOptimization:
		return CauseGenerationOptimization
	case KindHighWarningRate, KindWarningSpike:
		return CauseContentQuality
	case KindLowHighQuality, KindQualityDecline:
		return CauseQualityYield
	case KindDNSValidationLow, KindHTTPValidationLow:
		return CauseValidationYield
	case KindDomainCountLow, KindSignificantDecline, KindSignificantImprovement,
		KindNoLeads, KindAllClear, KindUnknown:
		return ""
	}
	return ""
}

func canonicalCause(id string) string {
	if cause := KindOf(id).canonicalCause(); cause != "" {
		return cause
	}
	return id
}

// recencyFactor is a static weight: time-sensitive ids count in full.
func recencyFactor(id string) float64 {
	if strings.Contains(id, "decline") || strings.Contains(id, "improvement") {
		return 1.0
	}
	return 0.9
}

func severityWeight(s domain.Severity) float64 {
	switch s {
	case domain.SeverityAction:
		return 1.0
	case domain.SeverityWarn:
		return 0.7
	case domain.SeverityInfo:
		return 0.4
	default:
		return 0.5
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
