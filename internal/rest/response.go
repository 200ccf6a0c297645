package rest

import (
	"errors"
	"net/http"

	"campaignAdvisor/business/bandit"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func getStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, bandit.ErrArmNotFound):
		return http.StatusNotFound
	case errors.Is(err, bandit.ErrDuplicateArm), errors.Is(err, bandit.ErrNoArms):
		return http.StatusConflict
	case errors.Is(err, bandit.ErrInvalidArmID),
		errors.Is(err, bandit.ErrInvalidReward),
		errors.Is(err, bandit.ErrInvalidStrategy),
		errors.Is(err, bandit.ErrInvalidConfig),
		errors.Is(err, bandit.ErrUnknownEvent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
