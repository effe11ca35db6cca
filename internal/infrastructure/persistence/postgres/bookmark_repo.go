// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"antelope-chat-api/internal/domain/entity"
	"antelope-chat-api/internal/domain/repository"
)

type BookmarkRepository struct {
	client *Client
}

func NewBookmarkRepository(client *Client) *BookmarkRepository {
	return &BookmarkRepository{client: client}
}

func (r *BookmarkRepository) Create(ctx context.Context, bookmark *entity.Bookmark) error {
	ctx, span := tracer.Start(ctx, "postgres.BookmarkRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(bookmark).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create bookmark: %w", err)
	}
	return nil
}

func (r *BookmarkRepository) Delete(ctx context.Context, userID, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.BookmarkRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Bookmark{}, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}

func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Bookmark], error) {
	ctx, span := tracer.Start(ctx, "postgres.BookmarkRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Bookmark{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count bookmarks: %w", err)
	}

	var bookmarks []*entity.Bookmark
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&bookmarks).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	return repository.NewPagedResult(bookmarks, total, pagination), nil
}

type FeedbackRepository struct {
	client *Client
}

func NewFeedbackRepository(client *Client) *FeedbackRepository {
	return &FeedbackRepository{client: client}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	ctx, span := tracer.Start(ctx, "postgres.FeedbackRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(feedback).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Feedback], error) {
	ctx, span := tracer.Start(ctx, "postgres.FeedbackRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Feedback{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count feedback: %w", err)
	}

	var items []*entity.Feedback
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&items).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	return repository.NewPagedResult(items, total, pagination), nil
}
