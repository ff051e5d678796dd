package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// NotificationPermission mirrors the browser/platform permission state.
type NotificationPermission string

const (
	PermissionGranted NotificationPermission = "granted"
	PermissionDenied  NotificationPermission = "denied"
	PermissionDefault NotificationPermission = "default"
)

func (p NotificationPermission) Valid() bool {
	switch p {
	case PermissionGranted, PermissionDenied, PermissionDefault:
		return true
	}
	return false
}

func (p NotificationPermission) Value() (driver.Value, error) { return string(p), nil }

func (p *NotificationPermission) Scan(value interface{}) error {
	s, err := scanString(value)
	*p = NotificationPermission(s)
	return err
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`

	Role              string `gorm:"type:varchar(20);not null;default:'user'" json:"role"` // 'user' or 'admin'
	PremiumSubscriber bool   `gorm:"not null;default:false" json:"premiumSubscriber"`

	NotificationPermission NotificationPermission `gorm:"type:varchar(10);not null;default:'default'" json:"notificationPermission"`
	Timezone               string                 `gorm:"type:varchar(64)" json:"timezone"`

	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Password hashing happens in the controller before Create.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// CanUseReminders reports whether the reminder feature is unlocked for the user.
func (u *User) CanUseReminders() bool {
	return u.PremiumSubscriber || u.Role == RoleAdmin
}
