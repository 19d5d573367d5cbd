package domain

import (
	"context"
	"time"
)

// Scan 设备一次附近查询的审计记录
type Scan struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;index" json:"userId"`
	PhotoURL    string    `gorm:"size:512" json:"photoUrl"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CameraAngle float64   `json:"cameraAngle"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

func (Scan) TableName() string { return "scans" }

type ScanFilter struct {
	UserID string
	Offset int
	Limit  int
}

type ScanRepository interface {
	Create(ctx context.Context, s *Scan) error
	FindByID(ctx context.Context, id string) (*Scan, error)
	List(ctx context.Context, f ScanFilter) ([]Scan, int64, error)
}
