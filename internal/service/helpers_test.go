package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"go-restaurant-radar/internal/core/database"
	"go-restaurant-radar/internal/domain"
	"go-restaurant-radar/internal/repo"
	"go-restaurant-radar/pkg/utils"
)

// newTestStore 每个测试一个独立的内存 sqlite
func newTestStore(t *testing.T) *repo.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      "file:" + name + "?mode=memory&cache=shared",
		LogLevel: "silent",
		Log:      zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := repo.NewStore(db)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

func seedUser(t *testing.T, st domain.Store, name string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:    utils.NewID(),
		Email: strings.ToLower(name) + "@example.com",
		Name:  name,
		Role:  role,
	}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

func seedRestaurant(t *testing.T, st domain.Store, name string, owner *domain.User, lat, lon float64) *domain.Restaurant {
	t.Helper()
	r := &domain.Restaurant{
		ID:        utils.NewID(),
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
	}
	if owner != nil {
		r.OwnerID = &owner.ID
	}
	if err := st.Restaurants().Create(context.Background(), r); err != nil {
		t.Fatalf("seed restaurant %s: %v", name, err)
	}
	return r
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func wantErr(t *testing.T, got, want error) {
	t.Helper()
	if !errors.Is(got, want) {
		t.Fatalf("err = %v, want %v", got, want)
	}
}
