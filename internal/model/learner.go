package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LearnerClaims are JWT claims for a learner session token
type LearnerClaims struct {
	LearnerID string `json:"learnerId"`
	jwt.RegisteredClaims
}

// StartSessionRequest is the optional body of POST /v1/sessions
type StartSessionRequest struct {
	LearnerID string `json:"learnerId,omitempty"` // Resume an existing learner
	Token     string `json:"token,omitempty"`     // Token previously issued to LearnerID, may be expired
}

// StartSessionResponse is returned when a learner session starts
type StartSessionResponse struct {
	LearnerID string      `json:"learnerId"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Lesson    *LessonView `json:"lesson"`
}
