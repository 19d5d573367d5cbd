package repo

import (
	"context"

	"gorm.io/gorm"

	"go-restaurant-radar/internal/domain"
)

// Store 基于 gorm 的 domain.Store 实现
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Restaurants() domain.RestaurantRepository { return NewRestaurantRepo(s.db) }
func (s *Store) Users() domain.UserRepository             { return NewUserRepo(s.db) }
func (s *Store) Reports() domain.ReportRepository         { return NewReportRepo(s.db) }
func (s *Store) Scans() domain.ScanRepository             { return NewScanRepo(s.db) }

func (s *Store) InTx(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(domain.Models()...)
}
