package repositories

import (
	"context"
	"time"

	"smartdry/internal/constants"
	"smartdry/internal/database"
	"smartdry/internal/logger"
	. "smartdry/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByOIDCUserID(ctx context.Context, oidcUserID string) (*User, error)
	Update(ctx context.Context, user *User) error
	FindOrCreateOIDCUser(ctx context.Context, user *User) (*User, error)
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if err := r.getCacheByID(ctx, id, &user); err == nil {
		return &user, nil
	}

	if err := r.getDBByID(ctx, id, &user); err != nil {
		return nil, err
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	if err := r.clearUserCache(ctx, user); err != nil {
		log.Warn("failed to clear user cache after update", "userID", user.ID, "error", err)
	}

	return nil
}

func (r *userRepository) GetByOIDCUserID(ctx context.Context, oidcUserID string) (*User, error) {
	log := r.log.Function("GetByOIDCUserID")

	// Try the OIDC -> UUID mapping cache first, then the primary user cache
	var userUUID string
	found, err := database.NewCacheBuilder(r.db.Cache.Session, oidcUserID).
		WithPrefix(constants.OIDCMappingCachePrefix).
		WithContext(ctx).
		Get(&userUUID)
	if err == nil && found {
		var cachedUser User
		if err := r.getCacheByID(ctx, userUUID, &cachedUser); err == nil {
			return &cachedUser, nil
		}
	}

	var user User
	if err := r.db.SQLWithContext(ctx).First(&user, "oidc_user_id = ?", oidcUserID).Error; err != nil {
		return nil, log.Err("failed to get user by OIDC user ID", err, "oidcUserID", oidcUserID)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	if err := r.cacheOIDCMapping(ctx, &user); err != nil {
		log.Warn("failed to cache OIDC mapping", "oidcUserID", oidcUserID, "error", err)
	}

	return &user, nil
}

func (r *userRepository) FindOrCreateOIDCUser(ctx context.Context, user *User) (*User, error) {
	log := r.log.Function("FindOrCreateOIDCUser")

	existingUser, err := r.GetByOIDCUserID(ctx, user.OIDCUserID)
	if err == nil {
		provider := "oidc"
		if user.OIDCProvider != nil {
			provider = *user.OIDCProvider
		}
		existingUser.UpdateFromOIDC(
			user.OIDCUserID,
			user.Email,
			user.FirstName,
			user.LastName,
			provider,
		)

		if err := r.Update(ctx, existingUser); err != nil {
			log.Warn("failed to update existing OIDC user", "error", err, "userID", existingUser.ID)
		}
		return existingUser, nil
	}

	return r.createFromOIDC(ctx, user)
}

func (r *userRepository) createFromOIDC(ctx context.Context, user *User) (*User, error) {
	log := r.log.Function("createFromOIDC")

	if !user.IsActive {
		user.IsActive = true
	}
	if user.LastLoginAt == nil {
		now := time.Now()
		user.LastLoginAt = &now
	}

	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		return nil, log.Err("failed to create OIDC user", err, "oidcUserID", user.OIDCUserID)
	}

	if err := r.addUserToCache(ctx, user); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	if err := r.cacheOIDCMapping(ctx, user); err != nil {
		log.Warn("failed to cache OIDC mapping", "oidcUserID", user.OIDCUserID, "error", err)
	}

	return user, nil
}

func (r *userRepository) getCacheByID(ctx context.Context, userID string, user *User) error {
	found, err := database.NewCacheBuilder(r.db.Cache.Session, userID).
		WithPrefix(constants.UserCachePrefix).
		WithContext(ctx).
		Get(user)
	if err != nil {
		return r.log.Function("getCacheByID").
			Err("failed to get user from cache", err, "userID", userID)
	}

	if !found {
		return r.log.Function("getCacheByID").
			Error("user not found in cache", "userID", userID)
	}

	return nil
}

func (r *userRepository) getDBByID(ctx context.Context, userID string, user *User) error {
	log := r.log.Function("getDBByID")

	id, err := uuid.Parse(userID)
	if err != nil {
		return log.Err("failed to parse userID", err, "userID", userID)
	}

	if err := r.db.SQLWithContext(ctx).First(user, "id = ?", id).Error; err != nil {
		return log.Err("failed to get user by id", err, "id", userID)
	}

	return nil
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) error {
	if err := database.NewCacheBuilder(r.db.Cache.Session, user.ID).
		WithPrefix(constants.UserCachePrefix).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("addUserToCache").
			Err("failed to add user to cache", err, "userID", user.ID)
	}
	return nil
}

func (r *userRepository) cacheOIDCMapping(ctx context.Context, user *User) error {
	return database.NewCacheBuilder(r.db.Cache.Session, user.OIDCUserID).
		WithPrefix(constants.OIDCMappingCachePrefix).
		WithStruct(user.ID.String()).
		WithTTL(constants.UserCacheExpiry).
		WithContext(ctx).
		Set()
}

func (r *userRepository) clearUserCache(ctx context.Context, user *User) error {
	log := r.log.Function("clearUserCache")

	if err := database.NewCacheBuilder(r.db.Cache.Session, user.ID).
		WithPrefix(constants.UserCachePrefix).
		WithContext(ctx).
		Delete(); err != nil {
		log.Warn("failed to clear user cache", "userID", user.ID, "error", err)
	}

	if user.OIDCUserID != "" {
		if err := database.NewCacheBuilder(r.db.Cache.Session, user.OIDCUserID).
			WithPrefix(constants.OIDCMappingCachePrefix).
			WithContext(ctx).
			Delete(); err != nil {
			log.Warn("failed to clear OIDC mapping cache", "oidcUserID", user.OIDCUserID, "error", err)
		}
	}

	return nil
}
