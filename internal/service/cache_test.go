package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"go-restaurant-radar/internal/core/cache"
	"go-restaurant-radar/internal/domain"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetRestaurantServesFromCacheUntilWrite(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	c, mr := newTestCache(t)
	owner := seedUser(t, st, "Olga", domain.RoleOwner)
	r := seedRestaurant(t, st, "Dumpling Hut", owner, 1, 1)
	dir := NewDirectoryService(st, c, time.Minute, zap.NewNop())

	if _, err := dir.GetRestaurant(ctx, r.ID); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if !mr.Exists("radar:" + restaurantKey(r.ID)) {
		t.Fatal("snapshot was not cached")
	}

	// 绕过 service 改库：缓存期内仍读到旧值
	raw, _ := st.Restaurants().FindByID(ctx, r.ID)
	raw.Name = "Renamed Behind The Cache"
	if err := st.Restaurants().Update(ctx, raw); err != nil {
		t.Fatalf("direct update: %v", err)
	}
	got, err := dir.GetRestaurant(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Dumpling Hut" {
		t.Errorf("name = %q, want cached Dumpling Hut", got.Name)
	}
}

func TestWritesInvalidateCachedRestaurant(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	c, mr := newTestCache(t)
	l := zap.NewNop()
	owner := seedUser(t, st, "Olga", domain.RoleOwner)
	ana := seedUser(t, st, "Ana", domain.RoleUser)
	r := seedRestaurant(t, st, "Dumpling Hut", owner, 1, 1)
	dir := NewDirectoryService(st, c, time.Minute, l)
	comments := NewCommentService(st, c, l)
	asOwner := Actor{UserID: owner.ID, Role: domain.RoleOwner}

	warm := func(t *testing.T) {
		t.Helper()
		if _, err := dir.GetRestaurant(ctx, r.ID); err != nil {
			t.Fatalf("warm: %v", err)
		}
	}

	tests := []struct {
		name  string
		write func(t *testing.T)
		check func(t *testing.T, got *domain.Restaurant)
	}{
		{
			name: "add comment",
			write: func(t *testing.T) {
				if _, err := comments.AddComment(ctx, AddCommentInput{RestaurantID: r.ID, AuthorID: ana.ID, Text: "juicy", Rating: 5}); err != nil {
					t.Fatalf("AddComment: %v", err)
				}
			},
			check: func(t *testing.T, got *domain.Restaurant) {
				if len(got.Reviews) != 1 || got.Reviews[0].Text != "juicy" {
					t.Errorf("reviews = %+v, want the new comment", got.Reviews)
				}
			},
		},
		{
			name: "update comment",
			write: func(t *testing.T) {
				if _, err := comments.UpdateComment(ctx, UpdateCommentInput{RestaurantID: r.ID, CommentID: "1", AuthorID: ana.ID, Text: ptr("very juicy")}); err != nil {
					t.Fatalf("UpdateComment: %v", err)
				}
			},
			check: func(t *testing.T, got *domain.Restaurant) {
				if len(got.Reviews) != 1 || got.Reviews[0].Text != "very juicy" {
					t.Errorf("reviews = %+v, want edited text", got.Reviews)
				}
			},
		},
		{
			name: "update restaurant",
			write: func(t *testing.T) {
				if _, err := dir.UpdateRestaurant(ctx, asOwner, r.ID, RestaurantPatch{Name: ptr("Dumpling Palace")}); err != nil {
					t.Fatalf("UpdateRestaurant: %v", err)
				}
			},
			check: func(t *testing.T, got *domain.Restaurant) {
				if got.Name != "Dumpling Palace" {
					t.Errorf("name = %q, want Dumpling Palace", got.Name)
				}
				if len(got.Reviews) != 1 {
					t.Errorf("reviews lost on rename: %+v", got.Reviews)
				}
			},
		},
	}
	// 子测试按顺序共享同一家餐厅
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			warm(t)
			tc.write(t)
			if mr.Exists("radar:" + restaurantKey(r.ID)) {
				t.Error("cached snapshot survived the write")
			}
			got, err := dir.GetRestaurant(ctx, r.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			tc.check(t, got)
		})
	}

	t.Run("delete restaurant", func(t *testing.T) {
		warm(t)
		if err := dir.DeleteRestaurant(ctx, asOwner, r.ID); err != nil {
			t.Fatalf("DeleteRestaurant: %v", err)
		}
		_, err := dir.GetRestaurant(ctx, r.ID)
		wantErr(t, err, ErrRestaurantNotFound)
		if mr.Exists("radar:" + restaurantKey(r.ID)) {
			t.Error("not-found result was cached")
		}
	})
}
