package services

import (
	"github.com/yukikurage/anon-forum/internal/models"
)

func (s *ServiceTestSuite) TestCreatePost_Validation() {
	_, err := s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: s.alice.ID, Content: "   "})
	s.ErrorIs(err, ErrContentRequired)

	_, err = s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: 404, Content: "ghost"})
	s.ErrorIs(err, ErrUserNotFound)

	s.ban(s.bob)
	_, err = s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: s.bob.ID, Content: "spam"})
	s.ErrorIs(err, ErrBanned)
}

func (s *ServiceTestSuite) TestCreatePost_PinnedOnlyForAdmins() {
	result, err := s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: s.alice.ID, Content: "me first", Pinned: true})
	s.Require().NoError(err)
	s.False(result.Post.Pinned)

	result, err = s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: s.admin.ID, Content: "rules", Pinned: true})
	s.Require().NoError(err)
	s.True(result.Post.Pinned)
}

func (s *ServiceTestSuite) TestEditPost() {
	post := s.createPost(s.alice, "draft", "go")

	edited, err := s.postService.EditPost(s.ctx, EditPostInput{
		EditorID: s.alice.ID,
		PostID:   post.ID,
		Content:  "final",
		Tags:     "go,news",
	})
	s.Require().NoError(err)
	s.Equal("final", edited.Content)
	s.Equal(1, edited.EditCount)
	s.Require().NotNil(edited.LastEditedAt)
	s.Equal([]string{"go", "news"}, edited.TagNames())

	// Admin may edit anyone's post
	edited, err = s.postService.EditPost(s.ctx, EditPostInput{EditorID: s.admin.ID, PostID: post.ID, Content: "moderated"})
	s.Require().NoError(err)
	s.Equal(2, edited.EditCount)
	s.Empty(edited.Tags)
}

func (s *ServiceTestSuite) TestEditPost_Rejections() {
	post := s.createPost(s.alice, "draft", "")

	_, err := s.postService.EditPost(s.ctx, EditPostInput{EditorID: s.bob.ID, PostID: post.ID, Content: "hijack"})
	s.ErrorIs(err, ErrNotOwner)

	_, err = s.postService.EditPost(s.ctx, EditPostInput{EditorID: s.alice.ID, PostID: 999, Content: "x"})
	s.ErrorIs(err, ErrPostNotFound)

	_, err = s.postService.EditPost(s.ctx, EditPostInput{EditorID: s.alice.ID, PostID: post.ID, Content: ""})
	s.ErrorIs(err, ErrContentRequired)

	s.ban(s.alice)
	_, err = s.postService.EditPost(s.ctx, EditPostInput{EditorID: s.alice.ID, PostID: post.ID, Content: "still mine"})
	s.ErrorIs(err, ErrBanned)

	stored, err := s.postService.GetPost(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal("draft", stored.Content)
	s.Zero(stored.EditCount)
}

func (s *ServiceTestSuite) TestDeletePost_Cascades() {
	post := s.createPost(s.alice, "doomed", "")
	_, err := s.postService.CreateReply(s.ctx, s.bob.ID, post.ID, "reply")
	s.Require().NoError(err)
	_, err = s.voteService.CastVote(s.ctx, s.bob.ID, post.ID, models.VoteUp)
	s.Require().NoError(err)

	s.ErrorIs(s.postService.DeletePost(s.ctx, s.bob.ID, post.ID), ErrNotOwner)
	s.Require().NoError(s.postService.DeletePost(s.ctx, s.admin.ID, post.ID))

	_, err = s.postService.GetPost(s.ctx, post.ID)
	s.ErrorIs(err, ErrPostNotFound)

	var replies, votes int64
	s.Require().NoError(s.db.Model(&models.Reply{}).Where("post_id = ?", post.ID).Count(&replies).Error)
	s.Require().NoError(s.db.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&votes).Error)
	s.Zero(replies)
	s.Zero(votes)

	s.ErrorIs(s.postService.DeletePost(s.ctx, s.admin.ID, post.ID), ErrPostNotFound)
}

func (s *ServiceTestSuite) TestSetPinned() {
	post := s.createPost(s.alice, "important", "")

	_, err := s.postService.SetPinned(s.ctx, s.alice.ID, post.ID, true)
	s.ErrorIs(err, ErrAdminRequired)

	pinned, err := s.postService.SetPinned(s.ctx, s.admin.ID, post.ID, true)
	s.Require().NoError(err)
	s.True(pinned.Pinned)

	stored, err := s.postService.GetPost(s.ctx, post.ID)
	s.Require().NoError(err)
	s.True(stored.Pinned)
}

func (s *ServiceTestSuite) TestReplies() {
	post := s.createPost(s.alice, "question", "")

	_, err := s.postService.CreateReply(s.ctx, s.bob.ID, post.ID, "")
	s.ErrorIs(err, ErrContentRequired)
	_, err = s.postService.CreateReply(s.ctx, s.bob.ID, 999, "lost")
	s.ErrorIs(err, ErrPostNotFound)

	reply, err := s.postService.CreateReply(s.ctx, s.bob.ID, post.ID, "answer")
	s.Require().NoError(err)
	s.Equal("bob", reply.Author.Username)

	s.ErrorIs(s.postService.DeleteReply(s.ctx, s.alice.ID, reply.ID), ErrNotOwner)
	s.Require().NoError(s.postService.DeleteReply(s.ctx, s.bob.ID, reply.ID))
	s.ErrorIs(s.postService.DeleteReply(s.ctx, s.bob.ID, reply.ID), ErrReplyNotFound)
}
