package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrContentRequired = apperrors.Validation("content cannot be empty")
	ErrPostNotFound    = apperrors.NotFoundError("post not found")
	ErrReplyNotFound   = apperrors.NotFoundError("reply not found")
)

// PostService handles post and reply business logic.
type PostService struct {
	postRepo   repository.PostRepository
	replyRepo  repository.ReplyRepository
	userRepo   repository.UserRepository
	tagService *TagService
	evaluator  AchievementEvaluator
	log        *zap.Logger
	now        func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	replyRepo repository.ReplyRepository,
	userRepo repository.UserRepository,
	tagService *TagService,
	evaluator AchievementEvaluator,
	log *zap.Logger,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		replyRepo:  replyRepo,
		userRepo:   userRepo,
		tagService: tagService,
		evaluator:  evaluator,
		log:        log,
		now:        time.Now,
	}
}

// CreatePostInput represents the payload for creating a post.
type CreatePostInput struct {
	AuthorID uint64
	Content  string
	Tags     string
	// Pinned is only honoured for administrators.
	Pinned bool
}

// CreatePostResult carries the new post and the achievements it earned.
type CreatePostResult struct {
	Post    *models.Post
	Awarded []models.Achievement
}

// CreatePost stores a post with its tags and evaluates post achievements.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*CreatePostResult, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrContentRequired
	}
	tagNames, err := ParseTagList(input.Tags)
	if err != nil {
		return nil, err
	}

	author, err := loadUser(ctx, s.userRepo, input.AuthorID)
	if err != nil {
		return nil, err
	}
	if err := EnsureActive(author); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:  author.ID,
		Content:   input.Content,
		Pinned:    input.Pinned && author.IsAdmin,
		CreatedAt: s.now(),
	}
	if err := s.postRepo.CreateWithTags(ctx, post, tagNames); err != nil {
		return nil, apperrors.Persistence("failed to create post", err)
	}
	post.Author = *author
	s.tagService.TagsAttached(ctx, tagNames)

	s.log.Info("post created",
		zap.Uint64("post_id", post.ID),
		zap.Uint64("author_id", author.ID),
		zap.Int("tags", len(tagNames)),
	)

	awarded := evaluateQuietly(ctx, s.evaluator, s.log, author.ID, Event{Type: EventPostCreated})
	return &CreatePostResult{Post: post, Awarded: awarded}, nil
}

// EditPostInput represents the payload for editing a post.
type EditPostInput struct {
	EditorID uint64
	PostID   uint64
	Content  string
	Tags     string
}

// EditPost replaces content and tags. Only the author or an admin may edit.
func (s *PostService) EditPost(ctx context.Context, input EditPostInput) (*models.Post, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrContentRequired
	}
	tagNames, err := ParseTagList(input.Tags)
	if err != nil {
		return nil, err
	}

	editor, err := loadUser(ctx, s.userRepo, input.EditorID)
	if err != nil {
		return nil, err
	}
	post, err := s.findPost(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if err := CanMutate(editor, post.AuthorID); err != nil {
		return nil, err
	}

	editedAt := s.now()
	post.Content = input.Content
	post.EditCount++
	post.LastEditedAt = &editedAt

	previous, err := s.postRepo.UpdateWithTags(ctx, post, tagNames)
	if err != nil {
		return nil, apperrors.Persistence("failed to update post", err)
	}
	s.tagService.TagsAttached(ctx, tagNames)

	if _, err := s.tagService.CollectGarbage(ctx, detachedTags(previous, post.Tags)); err != nil {
		s.log.Warn("tag cleanup after edit failed", zap.Uint64("post_id", post.ID), zap.Error(err))
	}

	s.log.Info("post edited",
		zap.Uint64("post_id", post.ID),
		zap.Uint64("editor_id", editor.ID),
		zap.Int("edit_count", post.EditCount),
	)
	return s.GetPost(ctx, post.ID)
}

// DeletePost removes a post with its replies, votes and tag links.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint64) error {
	actor, err := loadUser(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}
	if err := CanMutate(actor, post.AuthorID); err != nil {
		return err
	}

	tagIDs, err := s.postRepo.Delete(ctx, post.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return apperrors.Persistence("failed to delete post", err)
	}

	if _, err := s.tagService.CollectGarbage(ctx, tagIDs); err != nil {
		s.log.Warn("tag cleanup after delete failed", zap.Uint64("post_id", post.ID), zap.Error(err))
	}

	s.log.Info("post deleted",
		zap.Uint64("post_id", post.ID),
		zap.Uint64("actor_id", actor.ID),
	)

	evaluateQuietly(ctx, s.evaluator, s.log, post.AuthorID, Event{Type: EventPostDeleted})
	return nil
}

// SetPinned pins or unpins a post. Administrators only.
func (s *PostService) SetPinned(ctx context.Context, actorID, postID uint64, pinned bool) (*models.Post, error) {
	actor, err := loadUser(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.SetPinned(ctx, post.ID, pinned); err != nil {
		return nil, apperrors.Persistence("failed to pin post", err)
	}
	post.Pinned = pinned
	return post, nil
}

// GetPost returns a post with author, tags and replies loaded.
func (s *PostService) GetPost(ctx context.Context, postID uint64) (*models.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID, "Author", "Tags", "Replies", "Replies.Author")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, apperrors.Persistence("failed to find post", err)
	}
	return post, nil
}

// CreateReply adds a reply under a post.
func (s *PostService) CreateReply(ctx context.Context, authorID, postID uint64, content string) (*models.Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	author, err := loadUser(ctx, s.userRepo, authorID)
	if err != nil {
		return nil, err
	}
	if err := EnsureActive(author); err != nil {
		return nil, err
	}
	if _, err := s.findPost(ctx, postID); err != nil {
		return nil, err
	}

	reply := &models.Reply{
		PostID:    postID,
		AuthorID:  author.ID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, apperrors.Persistence("failed to create reply", err)
	}
	reply.Author = *author
	return reply, nil
}

// DeleteReply removes a reply. Only its author or an admin may delete it.
func (s *PostService) DeleteReply(ctx context.Context, actorID, replyID uint64) error {
	actor, err := loadUser(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	reply, err := s.replyRepo.FindByID(ctx, replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReplyNotFound
		}
		return apperrors.Persistence("failed to find reply", err)
	}
	if err := CanMutate(actor, reply.AuthorID); err != nil {
		return err
	}
	if err := s.replyRepo.Delete(ctx, reply.ID); err != nil {
		return apperrors.Persistence("failed to delete reply", err)
	}
	return nil
}

func (s *PostService) findPost(ctx context.Context, postID uint64) (*models.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, apperrors.Persistence("failed to find post", err)
	}
	return post, nil
}

// detachedTags returns the previous tag IDs no longer present in current.
func detachedTags(previous []uint64, current []models.Tag) []uint64 {
	kept := make(map[uint64]struct{}, len(current))
	for _, t := range current {
		kept[t.ID] = struct{}{}
	}
	var detached []uint64
	for _, id := range previous {
		if _, ok := kept[id]; !ok {
			detached = append(detached, id)
		}
	}
	return detached
}
