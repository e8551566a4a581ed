package middleware

import (
	"aperturelab/internal/service"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const LearnerIDKey contextKey = "learnerId"

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireLearner validates a learner JWT from the Authorization header or,
// for WebSocket upgrades, the token query param.
func (m *AuthMiddleware) RequireLearner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			unauthorized(w, "missing authorization")
			return
		}

		claims, err := m.authSvc.ValidateLearnerToken(token)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}

		ctx := WithLearnerID(r.Context(), claims.LearnerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithLearnerID stores the authenticated learner on a context
func WithLearnerID(ctx context.Context, learnerID string) context.Context {
	return context.WithValue(ctx, LearnerIDKey, learnerID)
}

// GetLearnerID extracts learner ID from context
func GetLearnerID(ctx context.Context) string {
	if v, ok := ctx.Value(LearnerIDKey).(string); ok {
		return v
	}
	return ""
}

func ExtractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "code": "unauthorized"})
}
