package domain

// CampaignFunnel holds per-stage domain counts for one campaign.
type CampaignFunnel struct {
	Generated     int64 `json:"generated"`
	DNSValid      int64 `json:"dns_valid"`
	HTTPValid     int64 `json:"http_valid"`
	KeywordHits   int64 `json:"keyword_hits"`
	Analyzed      int64 `json:"analyzed"`
	HighPotential int64 `json:"high_potential"`
	Leads         int64 `json:"leads"`
}

// CampaignMetrics mirrors the content-quality aggregates of a campaign.
// Percentages are pointers so missing data is distinguishable from 0.
type CampaignMetrics struct {
	HighPotential      int64    `json:"high_potential"`
	Leads              int64    `json:"leads"`
	KeywordCoveragePct *float64 `json:"keyword_coverage_pct,omitempty"`
	AvgRichness        *float64 `json:"avg_richness,omitempty"`
	WarningRatePct     *float64 `json:"warning_rate_pct,omitempty"`
	TotalAnalyzed      int64    `json:"total_analyzed"`
}
