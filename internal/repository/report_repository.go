package repository

import (
	"context"

	"github.com/yukikurage/anon-forum/internal/database"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/utils"
	"gorm.io/gorm"
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

func (r *GormReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Omit("Reporter", "ReportedUser").Create(report).Error
}

func (r *GormReportRepository) FindByID(ctx context.Context, id uint64) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// FindOpen finds an unresolved report from reporter about reported
func (r *GormReportRepository) FindOpen(ctx context.Context, reporterID, reportedID uint64) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Where("reporter_id = ? AND reported_user_id = ? AND is_resolved = ?", reporterID, reportedID, false).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns reports, unresolved first then newest first
func (r *GormReportRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.Report, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	query := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("ReportedUser").
		Order("is_resolved ASC").
		Order("created_at DESC").
		Order("id DESC")
	if params.Limit > 0 {
		query = query.Scopes(database.Paginate(params))
	}
	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *GormReportRepository) Resolve(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Update("is_resolved", true).Error
}
