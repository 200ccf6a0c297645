package bandit

import "fmt"

// RewardForEvent turns a campaign funnel event into a reward using the current config.
// Rewards stay within [0, 1] so Thompson sampling sees a Bernoulli-like signal.
func (cfg Config) RewardForEvent(eventType string) (float64, error) {
	switch eventType {
	case "generated":
		return cfg.RewardGenerated, nil
	case "dns_valid":
		return cfg.RewardDNSValid, nil
	case "http_valid":
		return cfg.RewardHTTPValid, nil
	case "keyword_hit":
		return cfg.RewardKeywordHit, nil
	case "lead":
		return cfg.RewardLead, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownEvent, eventType)
	}
}
