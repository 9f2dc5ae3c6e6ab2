package dto

import (
	"time"

	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/services"
	"github.com/yukikurage/anon-forum/internal/utils"
)

// ReplyDTO represents a reply in API responses
type ReplyDTO struct {
	ID          uint64    `json:"id"`
	PostID      uint64    `json:"post_id"`
	Author      UserDTO   `json:"author"`
	ContentHTML string    `json:"content_html"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostDTO represents a post in API responses
type PostDTO struct {
	ID           uint64                `json:"id"`
	Author       UserDTO               `json:"author"`
	Content      string                `json:"content"`
	ContentHTML  string                `json:"content_html"`
	Pinned       bool                  `json:"pinned"`
	Tags         []string              `json:"tags"`
	Score        int64                 `json:"score"`
	UserVote     *models.VoteDirection `json:"user_vote"`
	EditCount    int                   `json:"edit_count"`
	LastEditedAt *time.Time            `json:"last_edited_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	Replies      []ReplyDTO            `json:"replies"`
}

// FeedResponse is the composed front page
type FeedResponse struct {
	Posts []PostDTO `json:"posts"`
	Sort  string    `json:"sort"`
	Tag   string    `json:"tag,omitempty"`
	Tags  []string  `json:"tags"`
}

// NewPostsResponse answers the polling endpoint
type NewPostsResponse struct {
	Posts []PostDTO `json:"posts"`
}

// CreatePostResponse carries the new post and achievements it earned
type CreatePostResponse struct {
	Post         PostDTO          `json:"post"`
	Achievements []AchievementDTO `json:"new_achievements"`
}

// VoteResponse reports the outcome of a vote
type VoteResponse struct {
	PostID       uint64                `json:"post_id"`
	Score        int64                 `json:"score"`
	UserVote     *models.VoteDirection `json:"user_vote"`
	Achievements []AchievementDTO      `json:"new_achievements"`
	// AuthorAchievements were earned by the post author through this vote
	AuthorAchievements []AchievementDTO `json:"author_new_achievements"`
}

// ToReplyDTO converts a reply; reply text allows no markup
func ToReplyDTO(reply models.Reply, renderer *utils.ContentRenderer) ReplyDTO {
	return ReplyDTO{
		ID:          reply.ID,
		PostID:      reply.PostID,
		Author:      ToUserDTO(reply.Author),
		ContentHTML: renderer.RenderPlain(reply.Content),
		CreatedAt:   reply.CreatedAt,
	}
}

// ToPostDTO converts a post with its score and the viewer's vote
func ToPostDTO(post models.Post, score int64, viewerVote *models.VoteDirection, renderer *utils.ContentRenderer) PostDTO {
	replies := make([]ReplyDTO, len(post.Replies))
	for i, r := range post.Replies {
		replies[i] = ToReplyDTO(r, renderer)
	}

	return PostDTO{
		ID:           post.ID,
		Author:       ToUserDTO(post.Author),
		Content:      post.Content,
		ContentHTML:  renderer.Render(post.Content),
		Pinned:       post.Pinned,
		Tags:         post.TagNames(),
		Score:        score,
		UserVote:     viewerVote,
		EditCount:    post.EditCount,
		LastEditedAt: post.LastEditedAt,
		CreatedAt:    post.CreatedAt,
		Replies:      replies,
	}
}

// ToFeedPostDTOs converts composed feed entries
func ToFeedPostDTOs(entries []services.FeedEntry, renderer *utils.ContentRenderer) []PostDTO {
	posts := make([]PostDTO, len(entries))
	for i, e := range entries {
		posts[i] = ToPostDTO(e.Post, e.Score, e.ViewerVote, renderer)
	}
	return posts
}

// ToVoteResponse converts a vote outcome
func ToVoteResponse(postID uint64, result *services.VoteResult) VoteResponse {
	return VoteResponse{
		PostID:             postID,
		Score:              result.Score,
		UserVote:           result.UserVote,
		Achievements:       ToAchievementDTOs(result.Awarded),
		AuthorAchievements: ToAchievementDTOs(result.AuthorAwarded),
	}
}
