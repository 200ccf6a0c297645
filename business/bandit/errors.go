package bandit

import "errors"

var (
	ErrDuplicateArm    = errors.New("duplicate arm")
	ErrArmNotFound     = errors.New("arm not found")
	ErrNoArms          = errors.New("no arms registered")
	ErrInvalidArmID    = errors.New("arm id is required")
	ErrInvalidReward   = errors.New("reward must be a finite number")
	ErrInvalidStrategy = errors.New("invalid bandit strategy")
	ErrInvalidConfig   = errors.New("invalid bandit config")
	ErrUnknownEvent    = errors.New("unknown event type")
)
