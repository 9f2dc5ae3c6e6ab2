package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/anon-forum/internal/cache"
	"github.com/yukikurage/anon-forum/internal/constants"
	apperrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrTagTooLong = apperrors.Validation(fmt.Sprintf("tag names are limited to %d characters", constants.MaxTagNameLength))

// ParseTagList splits comma-separated input into trimmed, non-empty,
// de-duplicated tag names in first-seen order.
func ParseTagList(raw string) ([]string, error) {
	seen := make(map[string]struct{})
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > constants.MaxTagNameLength {
			return nil, ErrTagTooLong
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// TagService owns tag lookup and orphan collection.
type TagService struct {
	tagRepo   repository.TagRepository
	directory cache.TagDirectory
	log       *zap.Logger
}

// NewTagService creates a new TagService. A nil directory disables caching.
func NewTagService(tagRepo repository.TagRepository, directory cache.TagDirectory, log *zap.Logger) *TagService {
	if directory == nil {
		directory = cache.NopTagDirectory{}
	}
	return &TagService{
		tagRepo:   tagRepo,
		directory: directory,
		log:       log,
	}
}

// ResolveFilter looks up the tag a feed filter names. Blank, "all" and
// unknown names mean no filter and return nil.
func (s *TagService) ResolveFilter(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "all") {
		return nil, nil
	}
	tag, err := s.tagRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Persistence("failed to find tag", err)
	}
	return tag, nil
}

// ListNames returns every tag name in name order.
func (s *TagService) ListNames(ctx context.Context) ([]string, error) {
	if names, ok := s.directory.Get(ctx); ok {
		return names, nil
	}
	tags, err := s.tagRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Persistence("failed to list tags", err)
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	s.directory.Set(ctx, names)
	return names, nil
}

// TagsAttached is called after tags were linked to a post. New tag rows may
// have been created, so the directory is dropped.
func (s *TagService) TagsAttached(ctx context.Context, names []string) {
	if len(names) > 0 {
		s.directory.Invalidate(ctx)
	}
}

// CollectGarbage deletes the candidate tags that no post references.
// It must run after the detaching transaction has committed.
func (s *TagService) CollectGarbage(ctx context.Context, candidateIDs []uint64) (int64, error) {
	if len(candidateIDs) == 0 {
		return 0, nil
	}
	deleted, err := s.tagRepo.DeleteOrphans(ctx, candidateIDs)
	if err != nil {
		return 0, apperrors.Persistence("failed to delete orphaned tags", err)
	}
	if deleted > 0 {
		s.directory.Invalidate(ctx)
		s.log.Debug("orphaned tags deleted", zap.Int64("count", deleted))
	}
	return deleted, nil
}
