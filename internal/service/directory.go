package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-restaurant-radar/internal/core/cache"
	"go-restaurant-radar/internal/core/metrics"
	"go-restaurant-radar/internal/domain"
	"go-restaurant-radar/pkg/utils"
)

// DeriveRole 按名下餐厅数推导角色；admin 保持不变
func DeriveRole(current domain.Role, ownedCount int64) domain.Role {
	if current == domain.RoleAdmin {
		return domain.RoleAdmin
	}
	if ownedCount > 0 {
		return domain.RoleOwner
	}
	return domain.RoleUser
}

type RestaurantInput struct {
	Name        string
	Description string
	Address     string
	PhotoURL    string
	Latitude    float64
	Longitude   float64
	Tags        []string
}

type RestaurantPatch struct {
	Name        *string
	Description *string
	Address     *string
	PhotoURL    *string
	Latitude    *float64
	Longitude   *float64
	Tags        *[]string
}

func (p RestaurantPatch) empty() bool {
	return p.Name == nil && p.Description == nil && p.Address == nil && p.PhotoURL == nil &&
		p.Latitude == nil && p.Longitude == nil && p.Tags == nil
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type ProfilePatch struct {
	Name        *string
	Description *string
	PhotoURL    *string
}

type roleChange struct {
	userID   string
	from, to domain.Role
}

// DirectoryService 餐厅与用户的增删改查；
// 创建/删除餐厅时在同一事务内重新推导店主角色
type DirectoryService struct {
	store domain.Store
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

// NewDirectoryService cache 可为 nil，此时直接读库
func NewDirectoryService(store domain.Store, c *cache.Cache, ttl time.Duration, l *zap.Logger) *DirectoryService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &DirectoryService{store: store, cache: c, ttl: ttl, log: l, now: time.Now}
}

// ---------- 餐厅 ----------

func (s *DirectoryService) CreateRestaurant(ctx context.Context, actor Actor, in RestaurantInput) (*domain.Restaurant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrMissingName
	}
	if !validPoint(in.Latitude, in.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	r := &domain.Restaurant{
		ID:          utils.NewID(),
		Name:        name,
		Description: in.Description,
		Address:     in.Address,
		PhotoURL:    in.PhotoURL,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Tags:        dedupe(in.Tags),
	}
	var change *roleChange
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		u, err := mustUser(ctx, tx, actor.UserID)
		if err != nil {
			return err
		}
		// admin 发布无主餐厅
		if u.Role != domain.RoleAdmin {
			r.OwnerID = &u.ID
		}
		if err := tx.Restaurants().Create(ctx, r); err != nil {
			return fmt.Errorf("create restaurant: %w", err)
		}
		if r.OwnerID == nil {
			return nil
		}
		change, err = s.rederiveRole(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.noteRoleChange(change)
	return r, nil
}

func (s *DirectoryService) DeleteRestaurant(ctx context.Context, actor Actor, id string) error {
	var change *roleChange
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		r, err := mustRestaurant(ctx, tx, id)
		if err != nil {
			return err
		}
		if !canManage(actor, r) {
			return ErrNotRestaurantOwn
		}
		if _, err := tx.Restaurants().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete restaurant: %w", err)
		}
		if r.OwnerID == nil {
			return nil
		}
		owner, err := tx.Users().FindByID(ctx, *r.OwnerID)
		if err != nil {
			return fmt.Errorf("find owner: %w", err)
		}
		if owner == nil {
			return nil
		}
		change, err = s.rederiveRole(ctx, tx, owner)
		return err
	})
	if err != nil {
		return err
	}
	s.noteRoleChange(change)
	forgetRestaurant(ctx, s.cache, s.log, id)
	return nil
}

func (s *DirectoryService) UpdateRestaurant(ctx context.Context, actor Actor, id string, p RestaurantPatch) (*domain.Restaurant, error) {
	if p.empty() {
		return nil, ErrEmptyUpdate
	}
	var name string
	if p.Name != nil {
		if name = strings.TrimSpace(*p.Name); name == "" {
			return nil, ErrMissingName
		}
	}

	var out *domain.Restaurant
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		r, err := mustRestaurant(ctx, tx, id)
		if err != nil {
			return err
		}
		if !canManage(actor, r) {
			return ErrNotRestaurantOwn
		}
		if p.Name != nil {
			r.Name = name
		}
		if p.Description != nil {
			r.Description = *p.Description
		}
		if p.Address != nil {
			r.Address = *p.Address
		}
		if p.PhotoURL != nil {
			r.PhotoURL = *p.PhotoURL
		}
		if p.Latitude != nil {
			r.Latitude = *p.Latitude
		}
		if p.Longitude != nil {
			r.Longitude = *p.Longitude
		}
		if !validPoint(r.Latitude, r.Longitude) {
			return ErrInvalidCoordinates
		}
		if p.Tags != nil {
			r.Tags = dedupe(*p.Tags)
		}
		if err := saveRestaurant(ctx, tx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	forgetRestaurant(ctx, s.cache, s.log, id)
	return out, nil
}

// GetRestaurant 配置了缓存时走读穿透；不存在的结果不缓存
func (s *DirectoryService) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	load := func(ctx context.Context) (*domain.Restaurant, error) {
		return mustRestaurant(ctx, s.store, id)
	}
	if s.cache == nil {
		return load(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, restaurantKey(id), s.ttl, load)
}

// ViewRestaurant 计一次浏览并写入浏览记录后返回餐厅；
// 有缓存时返回的 ViewCount 最多落后一个 TTL
func (s *DirectoryService) ViewRestaurant(ctx context.Context, viewerID, id string) (*domain.Restaurant, error) {
	var fresh *domain.Restaurant
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		r, err := mustRestaurant(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.Restaurants().IncrementViews(ctx, id); err != nil {
			return fmt.Errorf("count view: %w", err)
		}
		r.ViewCount++
		fresh = r
		return appendHistory(ctx, tx, viewerID, id)
	})
	if err != nil {
		return nil, err
	}
	if s.cache == nil {
		return fresh, nil
	}
	return s.GetRestaurant(ctx, id)
}

// ListRestaurants 店主只看自己的餐厅，admin 与普通用户看全部；
// 以库里的角色为准（token 可能签发于升级之前）
func (s *DirectoryService) ListRestaurants(ctx context.Context, actor Actor, f domain.RestaurantFilter) ([]domain.Restaurant, error) {
	u, err := mustUser(ctx, s.store, actor.UserID)
	if err != nil {
		return nil, err
	}
	if u.Role == domain.RoleOwner {
		f.OwnerID = &u.ID
	}
	out, err := s.store.Restaurants().Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return out, nil
}

func canManage(actor Actor, r *domain.Restaurant) bool {
	return actor.Role == domain.RoleAdmin || r.OwnedBy(actor.UserID)
}

func (s *DirectoryService) rederiveRole(ctx context.Context, tx domain.Store, u *domain.User) (*roleChange, error) {
	n, err := tx.Restaurants().CountByOwner(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("count owned: %w", err)
	}
	next := DeriveRole(u.Role, n)
	if next == u.Role {
		return nil, nil
	}
	if err := tx.Users().UpdateRole(ctx, u.ID, next); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return &roleChange{userID: u.ID, from: u.Role, to: next}, nil
}

// noteRoleChange 在提交后调用，回滚的变更不会上报
func (s *DirectoryService) noteRoleChange(c *roleChange) {
	if c == nil {
		return
	}
	metrics.RoleChanges.WithLabelValues(string(c.from), string(c.to)).Inc()
	s.log.Info("role derived",
		zap.String("user_id", c.userID),
		zap.String("from", string(c.from)),
		zap.String("to", string(c.to)),
	)
}

// ---------- 用户 ----------

func (s *DirectoryService) RegisterUser(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, in, domain.RoleUser)
}

// CreateAdmin 仅限已有 admin 调用
func (s *DirectoryService) CreateAdmin(ctx context.Context, actor Actor, in RegisterInput) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrNotAdmin
	}
	return s.createUser(ctx, in, domain.RoleAdmin)
}

func (s *DirectoryService) createUser(ctx context.Context, in RegisterInput, role domain.Role) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrMissingName
	}
	hash, err := utils.HashPassword(in.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate 不区分邮箱错误还是密码错误
func (s *DirectoryService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

func (s *DirectoryService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return mustUser(ctx, s.store, id)
}

func (s *DirectoryService) ListUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	out, total, err := s.store.Users().List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return out, total, nil
}

func (s *DirectoryService) UpdateProfile(ctx context.Context, userID string, p ProfilePatch) (*domain.User, error) {
	if p.Name == nil && p.Description == nil && p.PhotoURL == nil {
		return nil, ErrEmptyUpdate
	}
	var out *domain.User
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		u, err := mustUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if p.Name != nil {
			name := strings.TrimSpace(*p.Name)
			if name == "" {
				return ErrMissingName
			}
			u.Name = name
		}
		if p.Description != nil {
			u.Description = *p.Description
		}
		if p.PhotoURL != nil {
			u.PhotoURL = *p.PhotoURL
		}
		if err := saveUser(ctx, tx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	return out, err
}

// DeleteUser 保留该用户的餐厅和评论
func (s *DirectoryService) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if actor.Role != domain.RoleAdmin && actor.UserID != id {
		return ErrNotAdmin
	}
	ok, err := s.store.Users().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
