package services

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

type contextKey string

const ActorContextKey contextKey = "actor"

var ErrInvalidToken = errors.New("invalid token")

// Actor is the authenticated caller: the user behind the token plus the
// adjuster team they act for, if any. Token issuance lives in the external
// identity service; this API only verifies.
type Actor struct {
	UserID uuid.UUID
	Email  string
	TeamID string
}

type AuthService interface {
	VerifyToken(token string) (*Actor, error)
}

type authService struct {
	jwtSecret string
}

func NewAuthService(jwtSecret string) AuthService {
	return &authService{jwtSecret: jwtSecret}
}

func (s *authService) VerifyToken(tokenString string) (*Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	rawUserID, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	actor := &Actor{UserID: userID}
	if email, ok := claims["email"].(string); ok {
		actor.Email = email
	}
	if teamID, ok := claims["team_id"].(string); ok {
		actor.TeamID = teamID
	}

	return actor, nil
}

// Helper function to add the actor to context
func WithActorContext(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ActorContextKey, actor)
}

// Helper function to get the actor from context
func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(ActorContextKey).(*Actor)
	return actor, ok
}
