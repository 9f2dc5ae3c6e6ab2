package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/anon-forum/internal/dto"
	apierrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/middleware"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/services"
	"github.com/yukikurage/anon-forum/internal/utils"
)

// PostHandler serves the feed, posts, replies and votes.
type PostHandler struct {
	postService *services.PostService
	voteService *services.VoteService
	feedService *services.FeedService
	tagService  *services.TagService
	renderer    *utils.ContentRenderer
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(
	postService *services.PostService,
	voteService *services.VoteService,
	feedService *services.FeedService,
	tagService *services.TagService,
	renderer *utils.ContentRenderer,
) *PostHandler {
	return &PostHandler{
		postService: postService,
		voteService: voteService,
		feedService: feedService,
		tagService:  tagService,
		renderer:    renderer,
	}
}

// ListFeed returns the composed feed. Query: sort, tag.
func (h *PostHandler) ListFeed(c *gin.Context) {
	mode, err := services.ParseSortMode(c.Query("sort"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	viewerID, _ := middleware.GetUserID(c)
	feed, err := h.feedService.ComposeFeed(c.Request.Context(), mode, c.Query("tag"), viewerID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	tags, err := h.tagService.ListNames(c.Request.Context())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FeedResponse{
		Posts: dto.ToFeedPostDTOs(feed.Entries, h.renderer),
		Sort:  string(feed.Sort),
		Tag:   feed.Tag,
		Tags:  tags,
	})
}

// ListNewPosts serves polling clients. Query: last_id.
func (h *PostHandler) ListNewPosts(c *gin.Context) {
	lastID, err := strconv.ParseUint(c.DefaultQuery("last_id", "0"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid last_id")
		return
	}

	viewerID, _ := middleware.GetUserID(c)
	entries, err := h.feedService.ComposeFeedSince(c.Request.Context(), lastID, viewerID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPostsResponse{Posts: dto.ToFeedPostDTOs(entries, h.renderer)})
}

// CreatePost publishes a post.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreatePostRequest struct {
		Content string `json:"content"`
		Tags    string `json:"tags"`
		Pinned  bool   `json:"pinned"`
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.postService.CreatePost(c.Request.Context(), services.CreatePostInput{
		AuthorID: userID,
		Content:  req.Content,
		Tags:     req.Tags,
		Pinned:   req.Pinned,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatePostResponse{
		Post:         dto.ToPostDTO(*result.Post, 0, nil, h.renderer),
		Achievements: dto.ToAchievementDTOs(result.Awarded),
	})
}

// GetPost returns a single post.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), middleware.GetIDParam(c, "id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	viewerID, _ := middleware.GetUserID(c)
	h.respondPost(c, http.StatusOK, *post, viewerID)
}

// UpdatePost edits content and tags.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdatePostRequest struct {
		Content string `json:"content"`
		Tags    string `json:"tags"`
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.postService.EditPost(c.Request.Context(), services.EditPostInput{
		EditorID: userID,
		PostID:   middleware.GetIDParam(c, "id"),
		Content:  req.Content,
		Tags:     req.Tags,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	h.respondPost(c, http.StatusOK, *post, userID)
}

// DeletePost removes a post.
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), userID, middleware.GetIDParam(c, "id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted successfully",
	})
}

// PinPost sets the pinned flag. Administrators only.
func (h *PostHandler) PinPost(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type PinRequest struct {
		Pinned *bool `json:"pinned" binding:"required"`
	}

	var req PinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.postService.SetPinned(c.Request.Context(), userID, middleware.GetIDParam(c, "id"), *req.Pinned)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     post.ID,
		"pinned": post.Pinned,
	})
}

// Vote applies a like or dislike. Repeating the same vote withdraws it.
func (h *PostHandler) Vote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type VoteRequest struct {
		Vote string `json:"vote" binding:"required"`
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	direction, err := services.ParseVoteDirection(req.Vote)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	postID := middleware.GetIDParam(c, "id")
	result, err := h.voteService.CastVote(c.Request.Context(), userID, postID, direction)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVoteResponse(postID, result))
}

// CreateReply adds a reply to a post.
func (h *PostHandler) CreateReply(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type ReplyRequest struct {
		Content string `json:"content"`
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	reply, err := h.postService.CreateReply(c.Request.Context(), userID, middleware.GetIDParam(c, "id"), req.Content)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReplyDTO(*reply, h.renderer))
}

// DeleteReply removes a reply.
func (h *PostHandler) DeleteReply(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.postService.DeleteReply(c.Request.Context(), userID, middleware.GetIDParam(c, "id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reply deleted successfully",
	})
}

// ListTags returns every tag name.
func (h *PostHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.ListNames(c.Request.Context())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *PostHandler) respondPost(c *gin.Context, status int, post models.Post, viewerID uint64) {
	entry, err := h.feedService.Entry(c.Request.Context(), post, viewerID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(status, dto.ToPostDTO(entry.Post, entry.Score, entry.ViewerVote, h.renderer))
}
