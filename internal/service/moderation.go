package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-restaurant-radar/internal/core/metrics"
	"go-restaurant-radar/internal/domain"
	"go-restaurant-radar/pkg/utils"
)

// Actor 身份层校验过的调用者
type Actor struct {
	UserID string
	Role   domain.Role
}

// CanProcessReports 审核流程唯一的权限规则
func CanProcessReports(role domain.Role) bool { return role == domain.RoleAdmin }

type FileReportInput struct {
	ReporterID string
	TargetKind domain.TargetKind
	TargetID   string
	// RestaurantID 用于定位评论目标；举报餐厅时忽略
	RestaurantID string
	Reason       string
	Observation  string
}

type ProcessInput struct {
	ReportID           string
	Disposition        domain.ReportStatus
	BanDurationSeconds *int64
}

// ModerationService 提交举报并把它从 PENDING 推进到终态；
// 记为 BANNED 不会隐藏或删除目标
type ModerationService struct {
	store domain.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewModerationService(store domain.Store, l *zap.Logger) *ModerationService {
	return &ModerationService{store: store, log: l, now: time.Now}
}

// FileReport 新建 PENDING 举报；同一目标可以有多条未处理举报
func (s *ModerationService) FileReport(ctx context.Context, in FileReportInput) (*domain.Report, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, ErrMissingReason
	}
	if !in.TargetKind.Valid() {
		return nil, ErrInvalidTargetKind
	}
	if in.TargetKind == domain.TargetComment && in.RestaurantID == "" {
		return nil, ErrMissingRestaurant
	}
	if _, err := mustUser(ctx, s.store, in.ReporterID); err != nil {
		return nil, err
	}

	rep := &domain.Report{
		ID:          utils.NewID(),
		Reason:      reason,
		Observation: strings.TrimSpace(in.Observation),
		TargetKind:  in.TargetKind,
		TargetID:    in.TargetID,
		ReporterID:  in.ReporterID,
		Status:      domain.ReportPending,
		CreatedAt:   s.now(),
	}
	switch in.TargetKind {
	case domain.TargetRestaurant:
		r, err := mustRestaurant(ctx, s.store, in.TargetID)
		if err != nil {
			return nil, err
		}
		rep.RestaurantID = r.ID
		if r.OwnerID != nil {
			rep.ReportedOwnerID = *r.OwnerID
		}
	case domain.TargetComment:
		r, err := mustRestaurant(ctx, s.store, in.RestaurantID)
		if err != nil {
			return nil, err
		}
		i := r.FindComment(in.TargetID)
		if i < 0 {
			return nil, ErrCommentNotFound
		}
		rep.RestaurantID = r.ID
		rep.ReportedOwnerID = r.Reviews[i].AuthorID
	}

	if err := s.store.Reports().Create(ctx, rep); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	metrics.ReportsFiled.WithLabelValues(string(rep.TargetKind)).Inc()
	return rep, nil
}

// ProcessReport 执行 admin 处理；调用者声明的角色和库里的角色都要通过 CanProcessReports
func (s *ModerationService) ProcessReport(ctx context.Context, actor Actor, in ProcessInput) (*domain.Report, error) {
	if !CanProcessReports(actor.Role) {
		return nil, ErrNotAdmin
	}
	admin, err := s.store.Users().FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if admin == nil || !CanProcessReports(admin.Role) {
		return nil, ErrNotAdmin
	}

	cur, err := s.store.Reports().FindByID(ctx, in.ReportID)
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	if cur == nil {
		return nil, ErrReportNotFound
	}
	next, err := resolveReport(*cur, admin.ID, in.Disposition, in.BanDurationSeconds, s.now())
	if err != nil {
		return nil, err
	}
	ok, err := s.store.Reports().Resolve(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("resolve report: %w", err)
	}
	if !ok {
		// 读写之间已被其他 admin 处理
		return nil, ErrAlreadyResolved
	}

	metrics.ReportsResolved.WithLabelValues(string(next.Status)).Inc()
	s.log.Info("report resolved",
		zap.String("report_id", next.ID),
		zap.String("admin_id", admin.ID),
		zap.String("disposition", string(next.Status)),
	)
	return next, nil
}

// resolveReport 纯状态迁移，校验顺序固定：
// 已处理 → 处理结果非法 → 缺封禁时长 → 时长非正
func resolveReport(r domain.Report, adminID string, disposition domain.ReportStatus, banSeconds *int64, now time.Time) (*domain.Report, error) {
	if r.Status != domain.ReportPending {
		return nil, ErrAlreadyResolved
	}
	switch disposition {
	case domain.ReportBanned:
		if banSeconds == nil {
			return nil, ErrMissingBanDuration
		}
		if *banSeconds <= 0 {
			return nil, ErrInvalidBanDuration
		}
		d := *banSeconds
		r.BanDurationSeconds = &d
	case domain.ReportDismissed:
		r.BanDurationSeconds = nil
	default:
		return nil, ErrInvalidDisposition
	}
	r.Status = disposition
	r.AssignedAdminID = &adminID
	r.ResolvedAt = &now
	return &r, nil
}

func (s *ModerationService) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	r, err := s.store.Reports().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	if r == nil {
		return nil, ErrReportNotFound
	}
	return r, nil
}

func (s *ModerationService) ListReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, int64, error) {
	out, total, err := s.store.Reports().List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	return out, total, nil
}
