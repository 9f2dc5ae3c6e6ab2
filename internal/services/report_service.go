package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
	"github.com/yukikurage/anon-forum/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDuplicateReport = apperrors.ConflictError("you already have an open report about this user")
	ErrReportNotFound  = apperrors.NotFoundError("report not found")
)

// ReportService handles user reports.
type ReportService struct {
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository
	log        *zap.Logger
	now        func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repository.ReportRepository, userRepo repository.UserRepository, log *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		log:        log,
		now:        time.Now,
	}
}

// ReportUser files a report. One open report per (reporter, reported) pair.
func (s *ReportService) ReportUser(ctx context.Context, reporterID, reportedID uint64, reason string) (*models.Report, error) {
	reporter, err := loadUser(ctx, s.userRepo, reporterID)
	if err != nil {
		return nil, err
	}
	reported, err := loadUser(ctx, s.userRepo, reportedID)
	if err != nil {
		return nil, err
	}
	if err := CanReport(reporter, reported); err != nil {
		return nil, err
	}

	if _, err := s.reportRepo.FindOpen(ctx, reporter.ID, reported.ID); err == nil {
		return nil, ErrDuplicateReport
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Persistence("failed to check open reports", err)
	}

	report := &models.Report{
		ReporterID:     reporter.ID,
		ReportedUserID: reported.ID,
		CreatedAt:      s.now(),
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		report.Reason = &reason
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, apperrors.Persistence("failed to create report", err)
	}

	s.log.Info("user reported",
		zap.Uint64("report_id", report.ID),
		zap.Uint64("reporter_id", reporter.ID),
		zap.Uint64("reported_user_id", reported.ID),
	)
	return report, nil
}

// ListReports returns a page of reports, open ones first. Administrators only.
func (s *ReportService) ListReports(ctx context.Context, actorID uint64, page utils.PaginationParams) ([]models.Report, int64, error) {
	actor, err := loadUser(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, 0, err
	}
	if err := RequireAdmin(actor); err != nil {
		return nil, 0, err
	}
	reports, total, err := s.reportRepo.List(ctx, page)
	if err != nil {
		return nil, 0, apperrors.Persistence("failed to list reports", err)
	}
	return reports, total, nil
}

// ResolveReport closes a report without banning anyone. Administrators only.
func (s *ReportService) ResolveReport(ctx context.Context, actorID, reportID uint64) error {
	actor, err := loadUser(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.reportRepo.FindByID(ctx, reportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return apperrors.Persistence("failed to find report", err)
	}
	if err := s.reportRepo.Resolve(ctx, reportID); err != nil {
		return apperrors.Persistence("failed to resolve report", err)
	}
	return nil
}
