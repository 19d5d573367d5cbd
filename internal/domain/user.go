package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Email        string `gorm:"uniqueIndex;size:191" json:"email"`
	Name         string `gorm:"size:64" json:"name"`
	Description  string `gorm:"size:512" json:"description"`
	PhotoURL     string `gorm:"size:512" json:"photoUrl"`
	PasswordHash string `gorm:"size:191" json:"-"`
	Role         Role   `gorm:"size:16;index;default:user" json:"role"`

	// Favorites 是集合，id 不重复
	Favorites datatypes.JSONSlice[string] `json:"favorites"`
	// History 只追加的浏览记录，允许重复
	History datatypes.JSONSlice[string] `json:"history"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) HasFavorite(restaurantID string) bool {
	for _, id := range u.Favorites {
		if id == restaurantID {
			return true
		}
	}
	return false
}

type UserFilter struct {
	Query  string // 按 email/name 子串
	Role   Role
	Offset int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f UserFilter) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	UpdateRole(ctx context.Context, id string, role Role) error
	Delete(ctx context.Context, id string) (bool, error)
}
