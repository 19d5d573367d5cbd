package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-restaurant-radar/internal/domain"
)

type ReportRepo struct{ db *gorm.DB }

func NewReportRepo(db *gorm.DB) *ReportRepo { return &ReportRepo{db: db} }

func (r *ReportRepo) Create(ctx context.Context, m *domain.Report) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ReportRepo) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	var m domain.Report
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ReportRepo) List(ctx context.Context, f domain.ReportFilter) ([]domain.Report, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Report{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.TargetKind != "" {
		q = q.Where("target_kind = ?", f.TargetKind)
	}
	if f.TargetID != "" {
		q = q.Where("target_id = ?", f.TargetID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Report
	offset, limit := page(f.Offset, f.Limit)
	if err := q.Order("created_at DESC").Order("id ASC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ReportRepo) Resolve(ctx context.Context, m *domain.Report) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Report{}).
		Where("id = ? AND status = ?", m.ID, domain.ReportPending).
		Updates(map[string]any{
			"status":               m.Status,
			"assigned_admin_id":    m.AssignedAdminID,
			"ban_duration_seconds": m.BanDurationSeconds,
			"resolved_at":          m.ResolvedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
