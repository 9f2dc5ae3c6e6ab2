package repository

import (
	"context"

	"github.com/yukikurage/anon-forum/internal/models"
	"gorm.io/gorm"
)

// GormReplyRepository is a GORM implementation of ReplyRepository
type GormReplyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &GormReplyRepository{db: db}
}

func (r *GormReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *GormReplyRepository) FindByID(ctx context.Context, id uint64) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *GormReplyRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Reply{}, id).Error
}
