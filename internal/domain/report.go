package domain

import (
	"context"
	"time"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "PENDING"
	ReportBanned    ReportStatus = "BANNED"
	ReportDismissed ReportStatus = "DISMISSED"
)

// 终态举报不再变化
func (s ReportStatus) Terminal() bool {
	return s == ReportBanned || s == ReportDismissed
}

type TargetKind string

const (
	TargetComment    TargetKind = "comment"
	TargetRestaurant TargetKind = "restaurant"
)

func (k TargetKind) Valid() bool {
	return k == TargetComment || k == TargetRestaurant
}

type Report struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Reason      string     `gorm:"size:256;not null" json:"reason"`
	Observation string     `gorm:"size:1024" json:"observation"`
	TargetKind  TargetKind `gorm:"size:16;not null;index:idx_report_target" json:"targetKind"`
	TargetID    string     `gorm:"size:36;not null;index:idx_report_target" json:"targetId"`
	// RestaurantID 目标所在餐厅；举报餐厅时就是目标本身
	RestaurantID    string       `gorm:"size:36;index" json:"restaurantId"`
	ReporterID      string       `gorm:"size:36;not null;index" json:"reporterId"`
	ReportedOwnerID string       `gorm:"size:36" json:"reportedOwnerId"`
	AssignedAdminID *string      `gorm:"size:36" json:"assignedAdminId"`
	Status          ReportStatus `gorm:"size:16;not null;index;default:PENDING" json:"status"`
	// BanDurationSeconds 仅在 BANNED 时有值
	BanDurationSeconds *int64     `json:"banDurationSeconds,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	ResolvedAt         *time.Time `json:"resolvedAt"`
}

func (Report) TableName() string { return "reports" }

type ReportFilter struct {
	Status     ReportStatus
	TargetKind TargetKind
	TargetID   string
	Offset     int
	Limit      int
}

type ReportRepository interface {
	Create(ctx context.Context, r *Report) error
	FindByID(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context, f ReportFilter) ([]Report, int64, error)
	// Resolve 仅当库里仍是 PENDING 时写入处理结果；没有匹配的待处理行时返回 false
	Resolve(ctx context.Context, r *Report) (bool, error)
}
