package bandit

import (
	"time"

	"campaignAdvisor/domain"

	"gorm.io/datatypes"
)

func computeTimeBucket(t time.Time) string {
	h := t.Hour()
	switch {
	case h < 6:
		return "night"
	case h < 12:
		return "morning"
	case h < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// stampContext copies the caller features and fills the timestamp, time
// bucket and day of week when the caller left them out.
func stampContext(bctx domain.BanditContext, now time.Time) domain.BanditContext {
	if bctx.Timestamp.IsZero() {
		bctx.Timestamp = now
	}

	features := make(map[string]any, len(bctx.Features)+2)
	for k, v := range bctx.Features {
		features[k] = v
	}
	if _, ok := features["time_bucket"]; !ok {
		features["time_bucket"] = computeTimeBucket(bctx.Timestamp)
	}
	if _, ok := features["dow"]; !ok {
		features["dow"] = int(bctx.Timestamp.Weekday()) // 0=Sunday
	}
	bctx.Features = features

	return bctx
}

// contextMap flattens a bandit context for telemetry persistence.
func contextMap(bctx domain.BanditContext) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range bctx.Features {
		out[k] = v
	}
	if bctx.UserID != "" {
		out["user_id"] = bctx.UserID
	}
	if bctx.CampaignID != "" {
		out["campaign_id"] = bctx.CampaignID
	}
	if bctx.Domain != "" {
		out["domain"] = bctx.Domain
	}
	if !bctx.Timestamp.IsZero() {
		out["event_time"] = bctx.Timestamp.Format(time.RFC3339)
	}
	return out
}
