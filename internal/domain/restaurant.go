package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Comment 内嵌在餐厅的 Reviews 中；id 只在同一餐厅内唯一
type Comment struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	Text         string    `json:"text"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"createdAt"`
	LastEditedAt time.Time `json:"lastEditedAt"`
}

type Restaurant struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Name        string  `gorm:"size:128;index" json:"name"`
	OwnerID     *string `gorm:"size:36;index" json:"ownerId"`
	Description string  `gorm:"size:1024" json:"description"`
	Address     string  `gorm:"size:256" json:"address"`
	PhotoURL    string  `gorm:"size:512" json:"photoUrl"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`

	Tags      datatypes.JSONSlice[string]  `json:"tags"`
	ViewCount int64                        `gorm:"not null;default:0" json:"viewCount"`
	Reviews   datatypes.JSONSlice[Comment] `json:"reviews"`
	// CommentSeq 本餐厅最后分配的评论 id
	CommentSeq int64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Restaurant) TableName() string { return "restaurants" }

func (r *Restaurant) Location() GeoPoint {
	return GeoPoint{Latitude: r.Latitude, Longitude: r.Longitude}
}

func (r *Restaurant) OwnedBy(userID string) bool {
	return r.OwnerID != nil && *r.OwnerID == userID
}

// FindComment 返回评论在 Reviews 中的下标，找不到为 -1
func (r *Restaurant) FindComment(commentID string) int {
	for i := range r.Reviews {
		if r.Reviews[i].ID == commentID {
			return i
		}
	}
	return -1
}

func (r *Restaurant) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type RestaurantFilter struct {
	OwnerID *string
	Name    string // 子串匹配
	Tag     string
}

type RestaurantRepository interface {
	Create(ctx context.Context, r *Restaurant) error
	FindByID(ctx context.Context, id string) (*Restaurant, error)
	FindByIDs(ctx context.Context, ids []string) ([]Restaurant, error)
	Find(ctx context.Context, f RestaurantFilter) ([]Restaurant, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Update(ctx context.Context, r *Restaurant) error
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (bool, error)
}
