package bandit

import "campaignAdvisor/domain"

// appendOutcome must be called with mu held.
func (s *Selector) appendOutcome(o domain.BanditOutcome) {
	s.outcomes = append(s.outcomes, o)
	s.trimOutcomes()
}

// trimOutcomes evicts the oldest outcomes beyond MaxOutcomes. The backing
// array is compacted once it grows past twice the cap.
func (s *Selector) trimOutcomes() {
	limit := s.cfg.MaxOutcomes
	over := len(s.outcomes) - limit
	if over <= 0 {
		return
	}

	s.outcomes = s.outcomes[over:]
	if cap(s.outcomes) > 2*limit {
		compacted := make([]domain.BanditOutcome, len(s.outcomes), limit+1)
		copy(compacted, s.outcomes)
		s.outcomes = compacted
	}
}
