package userController

import (
	"context"
	"errors"
	"fmt"

	"smartdry/internal/logger"
	. "smartdry/internal/models"
	"smartdry/internal/repositories"
	"smartdry/internal/services"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrStoreUnavailable = errors.New("store unavailable")
)

type UserControllerInterface interface {
	AuthenticateToken(ctx context.Context, idToken string) (*User, error)
	GetProfile(user *User) UserProfile
}

type UserController struct {
	userRepo repositories.UserRepository
	identity *services.IdentityService
	log      logger.Logger
}

func New(repos repositories.Repository, identity *services.IdentityService) UserControllerInterface {
	return &UserController{
		userRepo: repos.User,
		identity: identity,
		log:      logger.New("userController"),
	}
}

// AuthenticateToken validates an OIDC ID token and resolves the local user,
// creating one on first login.
func (c *UserController) AuthenticateToken(ctx context.Context, idToken string) (*User, error) {
	log := c.log.Function("AuthenticateToken")

	if c.identity == nil {
		return nil, fmt.Errorf("%w: authentication is not configured", ErrUnauthorized)
	}
	if idToken == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	tokenInfo, err := c.identity.ValidateIDToken(ctx, idToken)
	if err != nil || !tokenInfo.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	var email *string
	if tokenInfo.Email != "" {
		email = &tokenInfo.Email
	}

	user, err := c.userRepo.FindOrCreateOIDCUser(ctx, &User{
		OIDCUserID: tokenInfo.UserID,
		Email:      email,
		FirstName:  tokenInfo.GivenName,
		LastName:   tokenInfo.FamilyName,
	})
	if err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to resolve user",
			"error", err, "oidcUserID", tokenInfo.UserID)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: account disabled", ErrUnauthorized)
	}

	return user, nil
}

func (c *UserController) GetProfile(user *User) UserProfile {
	return user.ToProfile()
}
