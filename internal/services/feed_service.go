package services

import (
	"context"
	"sort"
	"strings"

	apperrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
)

// SortMode orders the non-pinned part of the feed.
type SortMode string

const (
	SortDateDesc  SortMode = "date_desc"
	SortDateAsc   SortMode = "date_asc"
	SortScoreDesc SortMode = "score_desc"
)

var ErrInvalidSortMode = apperrors.Validation("sort must be one of date_desc, date_asc, score_desc")

// ParseSortMode accepts the three modes; blank means date_desc.
func ParseSortMode(raw string) (SortMode, error) {
	switch mode := SortMode(strings.TrimSpace(raw)); mode {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortScoreDesc:
		return mode, nil
	default:
		return "", ErrInvalidSortMode
	}
}

// FeedEntry is a post as one viewer sees it.
type FeedEntry struct {
	Post       models.Post
	Score      int64
	ViewerVote *models.VoteDirection
}

// Feed is the composed front page.
type Feed struct {
	Entries []FeedEntry
	Sort    SortMode
	// Tag is the applied filter, empty when none.
	Tag string
}

// FeedService composes the post feed.
type FeedService struct {
	postRepo   repository.PostRepository
	voteRepo   repository.VoteRepository
	tagService *TagService
}

// NewFeedService creates a new FeedService.
func NewFeedService(postRepo repository.PostRepository, voteRepo repository.VoteRepository, tagService *TagService) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		voteRepo:   voteRepo,
		tagService: tagService,
	}
}

// ComposeFeed returns pinned posts newest first, followed by the rest in
// the requested order. viewerID 0 means an anonymous viewer.
func (s *FeedService) ComposeFeed(ctx context.Context, mode SortMode, tagFilter string, viewerID uint64) (*Feed, error) {
	tag, err := s.tagService.ResolveFilter(ctx, tagFilter)
	if err != nil {
		return nil, err
	}

	var tagID *uint64
	feed := &Feed{Sort: mode}
	if tag != nil {
		tagID = &tag.ID
		feed.Tag = tag.Name
	}

	posts, err := s.postRepo.ListFeed(ctx, tagID)
	if err != nil {
		return nil, apperrors.Persistence("failed to list posts", err)
	}

	entries, err := s.decorate(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	feed.Entries = orderFeed(entries, mode)
	return feed, nil
}

// ComposeFeedSince returns every pinned post plus the non-pinned posts with
// an ID above lastSeenID. Pinned come first, newest first; the rest follow
// in ascending ID order.
func (s *FeedService) ComposeFeedSince(ctx context.Context, lastSeenID, viewerID uint64) ([]FeedEntry, error) {
	posts, err := s.postRepo.ListSince(ctx, lastSeenID)
	if err != nil {
		return nil, apperrors.Persistence("failed to list new posts", err)
	}

	entries, err := s.decorate(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}

	pinned, rest := partitionPinned(entries)
	sort.SliceStable(pinned, func(i, j int) bool { return newerFirst(pinned[i].Post, pinned[j].Post) })
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Post.ID < rest[j].Post.ID })
	return append(pinned, rest...), nil
}

// Entry decorates a single post for viewerID.
func (s *FeedService) Entry(ctx context.Context, post models.Post, viewerID uint64) (*FeedEntry, error) {
	entries, err := s.decorate(ctx, []models.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (s *FeedService) decorate(ctx context.Context, posts []models.Post, viewerID uint64) ([]FeedEntry, error) {
	ids := make([]uint64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	scores, err := s.voteRepo.Scores(ctx, ids)
	if err != nil {
		return nil, apperrors.Persistence("failed to load scores", err)
	}

	var directions map[uint64]models.VoteDirection
	if viewerID != 0 {
		directions, err = s.voteRepo.DirectionsByUser(ctx, viewerID, ids)
		if err != nil {
			return nil, apperrors.Persistence("failed to load viewer votes", err)
		}
	}

	entries := make([]FeedEntry, len(posts))
	for i, p := range posts {
		entries[i] = FeedEntry{Post: p, Score: scores[p.ID]}
		if d, ok := directions[p.ID]; ok {
			d := d
			entries[i].ViewerVote = &d
		}
	}
	return entries, nil
}

// orderFeed puts pinned entries first, newest first, and orders the rest by mode.
func orderFeed(entries []FeedEntry, mode SortMode) []FeedEntry {
	pinned, rest := partitionPinned(entries)
	sort.SliceStable(pinned, func(i, j int) bool { return newerFirst(pinned[i].Post, pinned[j].Post) })

	var less func(a, b FeedEntry) bool
	switch mode {
	case SortDateAsc:
		less = func(a, b FeedEntry) bool { return olderFirst(a.Post, b.Post) }
	case SortScoreDesc:
		less = func(a, b FeedEntry) bool {
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return newerFirst(a.Post, b.Post)
		}
	default:
		less = func(a, b FeedEntry) bool { return newerFirst(a.Post, b.Post) }
	}
	sort.SliceStable(rest, func(i, j int) bool { return less(rest[i], rest[j]) })

	return append(pinned, rest...)
}

func partitionPinned(entries []FeedEntry) (pinned, rest []FeedEntry) {
	pinned = make([]FeedEntry, 0)
	rest = make([]FeedEntry, 0, len(entries))
	for _, e := range entries {
		if e.Post.Pinned {
			pinned = append(pinned, e)
		} else {
			rest = append(rest, e)
		}
	}
	return pinned, rest
}

func newerFirst(a, b models.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func olderFirst(a, b models.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
