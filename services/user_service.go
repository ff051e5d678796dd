package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petcare-backend/models"
	"petcare-backend/store"
	"petcare-backend/utils"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyRegistered  = errors.New("email or phone already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPermission  = errors.New("invalid notification permission")
)

type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

// findByIdentifier matches an email first, then a phone number.
func (s *UserService) findByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	for _, column := range []string{"email", "phone"} {
		var found []models.User
		if err := s.store.Filter(ctx, &found, map[string]interface{}{column: identifier}, ""); err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
		if len(found) > 0 {
			return &found[0], nil
		}
	}
	return nil, ErrUserNotFound
}

// Register creates a user with a hashed password.
func (s *UserService) Register(ctx context.Context, u *models.User, password string) (*models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, err := s.findByIdentifier(ctx, u.Email); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if u.Phone != "" {
		if _, err := s.findByIdentifier(ctx, u.Phone); err == nil {
			return nil, ErrAlreadyRegistered
		} else if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.ID = uuid.Nil
	u.Password = hashed
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.NotificationPermission == "" {
		u.NotificationPermission = models.PermissionDefault
	}
	u.IsActive = true

	if err := s.store.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks the password of the user identified by email or phone
// and records the login time.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	u, err := s.findByIdentifier(ctx, strings.ToLower(identifier))
	if errors.Is(err, ErrUserNotFound) && identifier != strings.ToLower(identifier) {
		u, err = s.findByIdentifier(ctx, identifier)
	}
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive || !utils.CheckPasswordHash(password, u.Password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.store.Update(ctx, &models.User{}, u.ID, map[string]interface{}{"last_login": &now}); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	u.LastLogin = &now
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.store.Get(ctx, &u, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// SetNotificationPermission stores the permission state the client reports.
func (s *UserService) SetNotificationPermission(ctx context.Context, id uuid.UUID, p models.NotificationPermission) (*models.User, error) {
	if !p.Valid() {
		return nil, ErrInvalidPermission
	}
	if err := s.store.Update(ctx, &models.User{}, id, map[string]interface{}{"notification_permission": p}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("set notification permission: %w", err)
	}
	return s.Get(ctx, id)
}
