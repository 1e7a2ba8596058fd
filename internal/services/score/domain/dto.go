// Package domain holds DTOs for score http and service contracts
package domain

import (
	"hashjudge/internal/core/judge"
	"hashjudge/internal/core/model"
)

// MaxBatch caps the number of texts accepted by one batch request
const MaxBatch = 512

// ScoreInput is the body of a single scoring request
type ScoreInput struct {
	Text string `json:"text" validate:"required"`
}

// BatchInput is the body of a batch scoring request
type BatchInput struct {
	Texts []string `json:"texts" validate:"required,min=1,max=512"`
}

// Result is the verdict for one text plus the coarse script guess
type Result struct {
	Score    float64       `json:"score"`
	Verdict  judge.Verdict `json:"verdict"`
	Japanese bool          `json:"japanese"`
	Routed   bool          `json:"routed"`
	Model    string        `json:"model"`
	Script   string        `json:"script,omitempty"`
	Lang     string        `json:"lang,omitempty"`
}

// BatchResult lists results in request order
type BatchResult struct {
	Count int      `json:"count"`
	Items []Result `json:"items"`
}

// Profile describes a loaded model and its resolved thresholds
type Profile struct {
	Model      model.Meta       `json:"model"`
	Thresholds judge.Thresholds `json:"thresholds"`
}

// ModelInfo describes the primary and the optional Japanese profile
type ModelInfo struct {
	Primary   Profile  `json:"primary"`
	Secondary *Profile `json:"secondary"`
}
