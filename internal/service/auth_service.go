package service

import (
	"aperturelab/internal/model"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrInvalidLearnerID = errors.New("learner id must be 3-64 letters, digits, '_' or '-'")
)

var learnerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,64}$`)

// AuthService issues and validates learner session tokens
type AuthService struct {
	jwtSecret []byte
	ttl       time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
	}
}

// NewLearnerID generates an anonymous learner id
func (s *AuthService) NewLearnerID() string {
	return "l_" + uuid.New().String()[:8]
}

// CheckLearnerID validates an id supplied by a client resuming a session
func (s *AuthService) CheckLearnerID(id string) error {
	if !learnerIDPattern.MatchString(id) {
		return ErrInvalidLearnerID
	}
	return nil
}

// GenerateLearnerToken creates a session token for a learner
func (s *AuthService) GenerateLearnerToken(learnerID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := &model.LearnerClaims{
		LearnerID: learnerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   learnerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateLearnerToken validates a learner JWT and returns claims
func (s *AuthService) ValidateLearnerToken(tokenString string) (*model.LearnerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.LearnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.LearnerClaims)
	if !ok || !token.Valid || claims.LearnerID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ResumeLearnerToken checks the signature of a previously issued token and
// returns its learner id. Expiry is not checked so a lapsed session can be
// resumed by the client that held it.
func (s *AuthService) ResumeLearnerToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &model.LearnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.LearnerClaims)
	if !ok || claims.LearnerID == "" || claims.Subject != claims.LearnerID {
		return "", ErrInvalidToken
	}
	return claims.LearnerID, nil
}
