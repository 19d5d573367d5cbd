package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-restaurant-radar/internal/core/cache"
	"go-restaurant-radar/internal/domain"
)

const maxRating = 5

type AddCommentInput struct {
	RestaurantID string
	AuthorID     string
	Text         string
	Rating       float64
}

// UpdateCommentInput 只覆盖非 nil 字段
type UpdateCommentInput struct {
	RestaurantID string
	CommentID    string
	AuthorID     string
	Text         *string
	Rating       *float64
}

// CommentService 维护餐厅内嵌的评论列表
type CommentService struct {
	store domain.Store
	cache *cache.Cache
	log   *zap.Logger
	now   func() time.Time
}

func NewCommentService(store domain.Store, c *cache.Cache, l *zap.Logger) *CommentService {
	return &CommentService{store: store, cache: c, log: l, now: time.Now}
}

func validRating(v float64) bool { return finite(v) && v >= 0 && v <= maxRating }

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*domain.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	if !validRating(in.Rating) {
		return nil, ErrInvalidRating
	}

	var out domain.Comment
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		r, err := mustRestaurant(ctx, tx, in.RestaurantID)
		if err != nil {
			return err
		}
		author, err := mustUser(ctx, tx, in.AuthorID)
		if err != nil {
			return err
		}
		now := s.now()
		r.CommentSeq++
		out = domain.Comment{
			ID:           strconv.FormatInt(r.CommentSeq, 10),
			AuthorID:     author.ID,
			AuthorName:   author.Name,
			Text:         text,
			Rating:       in.Rating,
			CreatedAt:    now,
			LastEditedAt: now,
		}
		r.Reviews = append(r.Reviews, out)
		if err := saveRestaurant(ctx, tx, r); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	forgetRestaurant(ctx, s.cache, s.log, in.RestaurantID)
	return &out, nil
}

// UpdateComment 依次校验：餐厅存在、评论存在、调用者是作者；
// 非作者一律返回 ErrNotOwner，不返回 not-found
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*domain.Comment, error) {
	if in.Text == nil && in.Rating == nil {
		return nil, ErrEmptyUpdate
	}
	var text string
	if in.Text != nil {
		text = strings.TrimSpace(*in.Text)
		if text == "" {
			return nil, ErrEmptyComment
		}
	}
	if in.Rating != nil && !validRating(*in.Rating) {
		return nil, ErrInvalidRating
	}

	var out domain.Comment
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		r, err := mustRestaurant(ctx, tx, in.RestaurantID)
		if err != nil {
			return err
		}
		i := r.FindComment(in.CommentID)
		if i < 0 {
			return ErrCommentNotFound
		}
		c := &r.Reviews[i]
		if c.AuthorID != in.AuthorID {
			return ErrNotOwner
		}
		if in.Text != nil {
			c.Text = text
		}
		if in.Rating != nil {
			c.Rating = *in.Rating
		}
		c.LastEditedAt = s.now()
		if err := saveRestaurant(ctx, tx, r); err != nil {
			return err
		}
		out = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	forgetRestaurant(ctx, s.cache, s.log, in.RestaurantID)
	return &out, nil
}
