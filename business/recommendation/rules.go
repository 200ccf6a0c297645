package recommendation

import (
	"fmt"

	"campaignAdvisor/domain"
)

// Rule turns campaign funnel and quality aggregates into a raw recommendation.
type Rule struct {
	ID       string
	Severity domain.Severity
	Title    string
	Detail   string
	// Check returns the rationale when the rule fires.
	Check func(f domain.CampaignFunnel, m domain.CampaignMetrics) (string, bool)
}

var CampaignRules = []Rule{
	{
		ID:       IDDNSValidationLow,
		Severity: domain.SeverityWarn,
		Title:    "DNS validation rate is below 70%",
		Detail:   "Consider reviewing domain generation patterns.",
		Check: func(f domain.CampaignFunnel, _ domain.CampaignMetrics) (string, bool) {
			if f.Generated <= 0 {
				return "", false
			}
			rate := float64(f.DNSValid) / float64(f.Generated)
			return fmt.Sprintf("%.1f%% of generated domains resolved", rate*100), rate < 0.7
		},
	},
	{
		ID:       IDHTTPValidationLow,
		Severity: domain.SeverityWarn,
		Title:    "HTTP validation rate is below 80% of DNS-valid domains",
		Detail:   "Check HTTP persona settings and timeouts.",
		Check: func(f domain.CampaignFunnel, _ domain.CampaignMetrics) (string, bool) {
			if f.DNSValid <= 0 {
				return "", false
			}
			rate := float64(f.HTTPValid) / float64(f.DNSValid)
			return fmt.Sprintf("%.1f%% of DNS-valid domains answered over HTTP", rate*100), rate < 0.8
		},
	},
	{
		ID:       IDLowHighQuality,
		Severity: domain.SeverityAction,
		Title:    "Few high-potential domains found",
		Detail:   "Consider adjusting keyword targeting or generation parameters.",
		Check: func(f domain.CampaignFunnel, _ domain.CampaignMetrics) (string, bool) {
			return fmt.Sprintf("%d high-potential out of %d analyzed", f.HighPotential, f.Analyzed),
				f.Analyzed > 100 && f.HighPotential < 10
		},
	},
	{
		ID:       IDHighWarningRate,
		Severity: domain.SeverityWarn,
		Title:    "High content warning rate",
		Detail:   "Review content filters and keyword sets.",
		Check: func(_ domain.CampaignFunnel, m domain.CampaignMetrics) (string, bool) {
			if m.WarningRatePct == nil {
				return "", false
			}
			return fmt.Sprintf("%.1f%% of analyzed pages raised warnings", *m.WarningRatePct), *m.WarningRatePct > 30
		},
	},
	{
		ID:       IDNoLeads,
		Severity: domain.SeverityAction,
		Title:    "No leads generated yet",
		Detail:   "Review lead qualification criteria.",
		Check: func(f domain.CampaignFunnel, _ domain.CampaignMetrics) (string, bool) {
			return fmt.Sprintf("0 leads from %d analyzed domains", f.Analyzed),
				f.Analyzed > 50 && f.Leads == 0
		},
	},
}

// Generate evaluates every campaign rule in order. A campaign with no findings
// gets a single all-clear item.
func Generate(f domain.CampaignFunnel, m domain.CampaignMetrics) []domain.Recommendation {
	out := make([]domain.Recommendation, 0, len(CampaignRules))
	for _, rule := range CampaignRules {
		rationale, ok := rule.Check(f, m)
		if !ok {
			continue
		}
		out = append(out, domain.Recommendation{
			ID:        rule.ID,
			Severity:  rule.Severity,
			Title:     rule.Title,
			Detail:    rule.Detail,
			Rationale: rationale,
		})
	}

	if len(out) == 0 {
		out = append(out, domain.Recommendation{
			ID:        IDAllClear,
			Severity:  domain.SeverityInfo,
			Title:     "Campaign is performing well",
			Detail:    "No issues detected in the current metrics.",
			Rationale: "all funnel and quality checks passed",
		})
	}

	return out
}

// ContextFromCampaign builds a scoring context from the same inputs Generate uses.
func ContextFromCampaign(f domain.CampaignFunnel, m domain.CampaignMetrics, targetDomains *int64) domain.ScoringContext {
	high := f.HighPotential
	if m.HighPotential > high {
		high = m.HighPotential
	}

	return domain.ScoringContext{
		Aggregates: domain.AggregateMetrics{
			TotalDomains: f.Generated,
			DNSValid:     f.DNSValid,
			HTTPValid:    f.HTTPValid,
			Analyzed:     f.Analyzed,
			Leads:        f.Leads,
		},
		Classification: domain.Classification{
			HighQuality: domain.ClassificationBucket{Count: high},
		},
		WarningRate:   m.WarningRatePct,
		TargetDomains: targetDomains,
	}
}
