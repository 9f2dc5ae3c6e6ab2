package repository

import (
	"context"

	"github.com/yukikurage/anon-forum/internal/models"
	"gorm.io/gorm"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// FindByName finds a tag by exact name
func (r *GormTagRepository) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListAll returns every tag ordered by name
func (r *GormTagRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

// DeleteOrphans deletes those of tagIDs that have no post_tags rows left
func (r *GormTagRepository) DeleteOrphans(ctx context.Context, tagIDs []uint64) (int64, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}

	referenced := r.db.Table("post_tags").
		Select("1").
		Where("post_tags.tag_id = tags.id")

	result := r.db.WithContext(ctx).
		Where("id IN ?", tagIDs).
		Where("NOT EXISTS (?)", referenced).
		Delete(&models.Tag{})

	return result.RowsAffected, result.Error
}

// findOrCreateTags resolves names to tag rows inside tx, preserving order
func findOrCreateTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
