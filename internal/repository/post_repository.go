package repository

import (
	"context"

	"github.com/yukikurage/anon-forum/internal/models"
	"gorm.io/gorm"
)

// GormPostRepository is a GORM implementation of PostRepository
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &GormPostRepository{db: db}
}

// CreateWithTags stores a post and its tag links atomically
func (r *GormPostRepository) CreateWithTags(ctx context.Context, post *models.Post, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := findOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}
		post.Tags = nil

		if err := tx.Omit("Tags").Create(post).Error; err != nil {
			return err
		}

		if len(tags) == 0 {
			return nil
		}
		if err := tx.Model(post).Association("Tags").Append(tags); err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})
}

// FindByID finds a post by ID with optional preloading
func (r *GormPostRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Post, error) {
	var post models.Post
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&post, id).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

// UpdateWithTags saves edited fields and replaces the tag set
func (r *GormPostRepository) UpdateWithTags(ctx context.Context, post *models.Post, tagNames []string) ([]uint64, error) {
	var previous []uint64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("post_tags").
			Where("post_id = ?", post.ID).
			Pluck("tag_id", &previous).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"content":        post.Content,
				"edit_count":     post.EditCount,
				"last_edited_at": post.LastEditedAt,
			}).Error; err != nil {
			return err
		}

		tags, err := findOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}

		association := tx.Model(post).Association("Tags")
		if len(tags) == 0 {
			err = association.Clear()
		} else {
			err = association.Replace(tags)
		}
		if err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

// Delete removes a post and everything hanging off it in a transaction
func (r *GormPostRepository) Delete(ctx context.Context, id uint64) ([]uint64, error) {
	var tagIDs []uint64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("post_tags").
			Where("post_id = ?", id).
			Pluck("tag_id", &tagIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tagIDs, nil
}

// SetPinned updates the pinned flag
func (r *GormPostRepository) SetPinned(ctx context.Context, id uint64, pinned bool) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("pinned", pinned).Error
}

// ListFeed returns posts, optionally restricted to those carrying tagID
func (r *GormPostRepository) ListFeed(ctx context.Context, tagID *uint64) ([]models.Post, error) {
	var posts []models.Post

	query := r.withFeedRelations(r.db.WithContext(ctx).Model(&models.Post{}))

	if tagID != nil {
		tagged := r.db.Table("post_tags").
			Select("1").
			Where("post_tags.post_id = posts.id").
			Where("post_tags.tag_id = ?", *tagID)
		query = query.Where("EXISTS (?)", tagged)
	}

	if err := query.Order("posts.created_at DESC").Order("posts.id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

// ListSince returns pinned posts and non-pinned posts newer than lastSeenID
func (r *GormPostRepository) ListSince(ctx context.Context, lastSeenID uint64) ([]models.Post, error) {
	var posts []models.Post

	err := r.withFeedRelations(r.db.WithContext(ctx).Model(&models.Post{})).
		Where("posts.pinned = ? OR posts.id > ?", true, lastSeenID).
		Order("posts.id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// CountByAuthor counts posts written by a user
func (r *GormPostRepository) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func (r *GormPostRepository) withFeedRelations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("replies.created_at ASC").Order("replies.id ASC") }).
		Preload("Replies.Author")
}
