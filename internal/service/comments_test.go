package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"go-restaurant-radar/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestAddCommentSnapshotsAuthorAndNumbersPerRestaurant(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "Ana", domain.RoleUser)
	r1 := seedRestaurant(t, st, "cafe", nil, 0, 0)
	r2 := seedRestaurant(t, st, "bar", nil, 0, 0)
	svc := NewCommentService(st, nil, zap.NewNop())
	ctx := context.Background()

	c1, err := svc.AddComment(ctx, AddCommentInput{RestaurantID: r1.ID, AuthorID: ana.ID, Text: " great tapas ", Rating: 4.5})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	c2, err := svc.AddComment(ctx, AddCommentInput{RestaurantID: r1.ID, AuthorID: ana.ID, Text: "again", Rating: 3})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	c3, err := svc.AddComment(ctx, AddCommentInput{RestaurantID: r2.ID, AuthorID: ana.ID, Text: "ok", Rating: 2})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if c1.ID != "1" || c2.ID != "2" || c3.ID != "1" {
		t.Errorf("ids = %s %s %s, want 1 2 1", c1.ID, c2.ID, c3.ID)
	}
	if c1.AuthorName != "Ana" || c1.Text != "great tapas" {
		t.Errorf("comment = %+v", c1)
	}

	// 作者改名不影响评论里的快照
	ana.Name = "Ana Maria"
	if err := st.Users().Update(ctx, ana); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := st.Restaurants().FindByID(ctx, r1.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(got.Reviews) != 2 || got.Reviews[0].ID != "1" || got.Reviews[1].ID != "2" {
		t.Fatalf("reviews = %+v, want two in creation order", got.Reviews)
	}
	if got.Reviews[0].AuthorName != "Ana" {
		t.Errorf("author snapshot = %q, want Ana", got.Reviews[0].AuthorName)
	}
}

func TestAddCommentErrors(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "Ana", domain.RoleUser)
	r := seedRestaurant(t, st, "cafe", nil, 0, 0)
	svc := NewCommentService(st, nil, zap.NewNop())

	tests := []struct {
		name string
		in   AddCommentInput
		want error
	}{
		{"missing restaurant", AddCommentInput{RestaurantID: "nope", AuthorID: ana.ID, Text: "x", Rating: 1}, ErrRestaurantNotFound},
		{"missing author", AddCommentInput{RestaurantID: r.ID, AuthorID: "nobody", Text: "x", Rating: 1}, ErrUserNotFound},
		{"blank text", AddCommentInput{RestaurantID: r.ID, AuthorID: ana.ID, Text: "  ", Rating: 1}, ErrEmptyComment},
		{"rating too high", AddCommentInput{RestaurantID: r.ID, AuthorID: ana.ID, Text: "x", Rating: 5.5}, ErrInvalidRating},
		{"negative rating", AddCommentInput{RestaurantID: r.ID, AuthorID: ana.ID, Text: "x", Rating: -1}, ErrInvalidRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddComment(context.Background(), tt.in)
			wantErr(t, err, tt.want)
		})
	}
}

func TestUpdateCommentByAuthor(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "Ana", domain.RoleUser)
	r := seedRestaurant(t, st, "cafe", nil, 0, 0)
	svc := NewCommentService(st, nil, zap.NewNop())
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(created)
	c, err := svc.AddComment(ctx, AddCommentInput{RestaurantID: r.ID, AuthorID: ana.ID, Text: "good", Rating: 3})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	edited := created.Add(time.Hour)
	svc.now = fixedClock(edited)
	got, err := svc.UpdateComment(ctx, UpdateCommentInput{RestaurantID: r.ID, CommentID: c.ID, AuthorID: ana.ID, Rating: ptr(4.0)})
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if got.Text != "good" || got.Rating != 4 {
		t.Errorf("comment = %+v, want text kept and rating 4", got)
	}
	if !got.LastEditedAt.Equal(edited) || !got.CreatedAt.Equal(created) {
		t.Errorf("timestamps = %v / %v", got.CreatedAt, got.LastEditedAt)
	}

	stored, err := st.Restaurants().FindByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Reviews[0].Rating != 4 || !stored.Reviews[0].LastEditedAt.Equal(edited) {
		t.Errorf("stored comment = %+v", stored.Reviews[0])
	}
}

func TestUpdateCommentByOtherUserIsForbidden(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "Ana", domain.RoleUser)
	bob := seedUser(t, st, "Bob", domain.RoleUser)
	r := seedRestaurant(t, st, "cafe", nil, 0, 0)
	svc := NewCommentService(st, nil, zap.NewNop())
	ctx := context.Background()

	c, err := svc.AddComment(ctx, AddCommentInput{RestaurantID: r.ID, AuthorID: ana.ID, Text: "good", Rating: 3})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	_, err = svc.UpdateComment(ctx, UpdateCommentInput{RestaurantID: r.ID, CommentID: c.ID, AuthorID: bob.ID, Text: ptr("bad")})
	wantErr(t, err, ErrNotOwner)
	if KindOf(err) != KindForbidden {
		t.Errorf("kind = %v, want forbidden", KindOf(err))
	}

	stored, err := st.Restaurants().FindByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Reviews[0].Text != "good" || stored.Reviews[0].Rating != 3 {
		t.Errorf("comment changed to %+v", stored.Reviews[0])
	}
}

func TestUpdateCommentCheckOrder(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "Ana", domain.RoleUser)
	bob := seedUser(t, st, "Bob", domain.RoleUser)
	r := seedRestaurant(t, st, "cafe", nil, 0, 0)
	svc := NewCommentService(st, nil, zap.NewNop())
	ctx := context.Background()

	c, err := svc.AddComment(ctx, AddCommentInput{RestaurantID: r.ID, AuthorID: ana.ID, Text: "good", Rating: 3})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	tests := []struct {
		name string
		in   UpdateCommentInput
		want error
	}{
		{"unknown restaurant wins over ownership", UpdateCommentInput{RestaurantID: "nope", CommentID: c.ID, AuthorID: bob.ID, Text: ptr("x")}, ErrRestaurantNotFound},
		{"unknown comment wins over ownership", UpdateCommentInput{RestaurantID: r.ID, CommentID: "99", AuthorID: bob.ID, Text: ptr("x")}, ErrCommentNotFound},
		{"nothing to update", UpdateCommentInput{RestaurantID: r.ID, CommentID: c.ID, AuthorID: ana.ID}, ErrEmptyUpdate},
		{"blank text", UpdateCommentInput{RestaurantID: r.ID, CommentID: c.ID, AuthorID: ana.ID, Text: ptr(" ")}, ErrEmptyComment},
		{"bad rating", UpdateCommentInput{RestaurantID: r.ID, CommentID: c.ID, AuthorID: ana.ID, Rating: ptr(7.0)}, ErrInvalidRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateComment(ctx, tt.in)
			wantErr(t, err, tt.want)
		})
	}
}
