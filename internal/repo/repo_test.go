package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"go-restaurant-radar/internal/core/database"
	"go-restaurant-radar/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      "file:repo_" + name + "?mode=memory&cache=shared",
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

	st := NewStore(db)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

func TestRestaurantRepo_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		deleted bool
		wantErr error
	}{
		{name: "existing row", deleted: false, wantErr: nil},
		{name: "row deleted after read", deleted: true, wantErr: domain.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := newTestStore(t)
			repo := st.Restaurants()
			if err := repo.Create(ctx, &domain.Restaurant{ID: "r1", Name: "Noodle Bar"}); err != nil {
				t.Fatalf("create: %v", err)
			}
			stale, err := repo.FindByID(ctx, "r1")
			if err != nil || stale == nil {
				t.Fatalf("find: %v %v", stale, err)
			}
			if err := repo.IncrementViews(ctx, "r1"); err != nil {
				t.Fatalf("views: %v", err)
			}
			if tc.deleted {
				if ok, err := repo.Delete(ctx, "r1"); err != nil || !ok {
					t.Fatalf("delete: %v %v", ok, err)
				}
			}

			stale.Name = "Noodle House"
			stale.Tags = []string{"ramen"}
			err = repo.Update(ctx, stale)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("update err = %v, want %v", err, tc.wantErr)
			}

			got, err := repo.FindByID(ctx, "r1")
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if tc.deleted {
				if got != nil {
					t.Fatalf("deleted restaurant came back: %+v", got)
				}
				return
			}
			if got.Name != "Noodle House" || !got.HasTag("ramen") {
				t.Errorf("update not persisted: %+v", got)
			}
			if got.ViewCount != 1 {
				t.Errorf("view_count = %d, want 1 (stale copy must not reset it)", got.ViewCount)
			}
		})
	}
}

func TestRestaurantRepo_UpdateClearsFields(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	repo := st.Restaurants()
	if err := repo.Create(ctx, &domain.Restaurant{ID: "r1", Name: "Taco Stand", Description: "al pastor"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	m, _ := repo.FindByID(ctx, "r1")
	m.Description = ""
	if err := repo.Update(ctx, m); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := repo.FindByID(ctx, "r1")
	if got.Description != "" {
		t.Errorf("description = %q, want empty", got.Description)
	}
}

func TestUserRepo_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		deleted bool
		wantErr error
	}{
		{name: "existing row", deleted: false, wantErr: nil},
		{name: "row deleted after read", deleted: true, wantErr: domain.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := newTestStore(t)
			repo := st.Users()
			if err := repo.Create(ctx, &domain.User{ID: "u1", Email: "ann@example.com", Name: "Ann", Role: domain.RoleUser}); err != nil {
				t.Fatalf("create: %v", err)
			}
			stale, err := repo.FindByID(ctx, "u1")
			if err != nil || stale == nil {
				t.Fatalf("find: %v %v", stale, err)
			}
			if err := repo.UpdateRole(ctx, "u1", domain.RoleOwner); err != nil {
				t.Fatalf("role: %v", err)
			}
			if tc.deleted {
				if ok, err := repo.Delete(ctx, "u1"); err != nil || !ok {
					t.Fatalf("delete: %v %v", ok, err)
				}
			}

			stale.Favorites = []string{"r1"}
			err = repo.Update(ctx, stale)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("update err = %v, want %v", err, tc.wantErr)
			}

			got, err := repo.FindByID(ctx, "u1")
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if tc.deleted {
				if got != nil {
					t.Fatalf("deleted user came back: %+v", got)
				}
				return
			}
			if !got.HasFavorite("r1") {
				t.Errorf("favorites not persisted: %v", got.Favorites)
			}
			if got.Role != domain.RoleOwner {
				t.Errorf("role = %q, want %q (stale copy must not overwrite it)", got.Role, domain.RoleOwner)
			}
		})
	}
}
