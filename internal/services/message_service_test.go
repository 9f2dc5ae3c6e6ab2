package services

import (
	"github.com/yukikurage/anon-forum/internal/models"
)

func (s *ServiceTestSuite) TestMessages_SendAndThread() {
	_, err := s.messageService.Send(s.ctx, s.alice.ID, s.bob.ID, "hi bob")
	s.Require().NoError(err)
	_, err = s.messageService.Send(s.ctx, s.alice.ID, s.bob.ID, "are you there?")
	s.Require().NoError(err)

	conversations, err := s.messageService.Conversations(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Require().Len(conversations, 1)
	s.Equal(s.alice.ID, conversations[0].UserID)
	s.Equal("alice", conversations[0].Username)
	s.Equal(int64(2), conversations[0].UnreadCount)

	thread, err := s.messageService.Thread(s.ctx, s.bob.ID, s.alice.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(thread, 2)
	s.Equal("hi bob", thread[0].Content)

	// Reading the thread has no side effects
	conversations, err = s.messageService.Conversations(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), conversations[0].UnreadCount)

	// Only messages bob received are marked
	marked, err := s.messageService.MarkRead(s.ctx, s.alice.ID, s.bob.ID)
	s.Require().NoError(err)
	s.Zero(marked)

	marked, err = s.messageService.MarkRead(s.ctx, s.bob.ID, s.alice.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), marked)

	conversations, err = s.messageService.Conversations(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Zero(conversations[0].UnreadCount)

	_, err = s.messageService.MarkRead(s.ctx, s.bob.ID, 404)
	s.ErrorIs(err, ErrUserNotFound)

	since := thread[0].CreatedAt
	newer, err := s.messageService.Thread(s.ctx, s.bob.ID, s.alice.ID, &since)
	s.Require().NoError(err)
	s.Require().Len(newer, 1)
	s.Equal("are you there?", newer[0].Content)
}

func (s *ServiceTestSuite) TestMessages_Rejections() {
	_, err := s.messageService.Send(s.ctx, s.alice.ID, s.alice.ID, "me")
	s.ErrorIs(err, ErrCannotMessageSelf)

	_, err = s.messageService.Send(s.ctx, s.alice.ID, s.bob.ID, " ")
	s.ErrorIs(err, ErrContentRequired)

	_, err = s.messageService.Send(s.ctx, s.alice.ID, 404, "hello?")
	s.ErrorIs(err, ErrUserNotFound)

	s.ban(s.alice)
	_, err = s.messageService.Send(s.ctx, s.alice.ID, s.bob.ID, "spam")
	s.ErrorIs(err, ErrBanned)

	_, err = s.messageService.Send(s.ctx, s.bob.ID, s.alice.ID, "still there?")
	s.ErrorIs(err, ErrReceiverBanned)

	var count int64
	s.Require().NoError(s.db.Model(&models.DirectMessage{}).Count(&count).Error)
	s.Zero(count)
}

func (s *ServiceTestSuite) TestMessages_SearchRecipients() {
	users, err := s.messageService.SearchRecipients(s.ctx, s.alice.ID, "b")
	s.Require().NoError(err)
	s.Empty(users)

	users, err = s.messageService.SearchRecipients(s.ctx, s.alice.ID, "AL")
	s.Require().NoError(err)
	s.Empty(users)

	users, err = s.messageService.SearchRecipients(s.ctx, s.alice.ID, "bo")
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal("bob", users[0].Username)

	s.ban(s.bob)
	users, err = s.messageService.SearchRecipients(s.ctx, s.alice.ID, "bo")
	s.Require().NoError(err)
	s.Empty(users)
}
