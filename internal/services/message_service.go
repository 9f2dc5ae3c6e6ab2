package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/anon-forum/internal/constants"
	apperrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrCannotMessageSelf = apperrors.Validation("you cannot message yourself")
	ErrReceiverBanned    = apperrors.Authorization("this user is banned and cannot receive messages")
)

// MessageService handles direct messages between users.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	log         *zap.Logger
	now         func() time.Time
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, log *zap.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		log:         log,
		now:         time.Now,
	}
}

// Send delivers a message from senderID to receiverID.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID uint64, content string) (*models.DirectMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	if senderID == receiverID {
		return nil, ErrCannotMessageSelf
	}
	sender, err := loadUser(ctx, s.userRepo, senderID)
	if err != nil {
		return nil, err
	}
	if err := EnsureActive(sender); err != nil {
		return nil, err
	}
	receiver, err := loadUser(ctx, s.userRepo, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver.IsBanned {
		return nil, ErrReceiverBanned
	}

	msg := &models.DirectMessage{
		SenderID:   sender.ID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  s.now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, apperrors.Persistence("failed to send message", err)
	}
	return msg, nil
}

// Conversations lists the actor's threads, most recent activity first.
func (s *MessageService) Conversations(ctx context.Context, actorID uint64) ([]repository.Conversation, error) {
	conversations, err := s.messageRepo.Conversations(ctx, actorID)
	if err != nil {
		return nil, apperrors.Persistence("failed to list conversations", err)
	}
	return conversations, nil
}

// Thread returns the messages between the actor and otherID, oldest first.
// A non-nil since limits the result to newer messages.
func (s *MessageService) Thread(ctx context.Context, actorID, otherID uint64, since *time.Time) ([]models.DirectMessage, error) {
	if _, err := loadUser(ctx, s.userRepo, otherID); err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.Thread(ctx, actorID, otherID, since)
	if err != nil {
		return nil, apperrors.Persistence("failed to load thread", err)
	}
	return messages, nil
}

// MarkRead marks every unread message otherID sent to the actor as read and
// returns how many changed.
func (s *MessageService) MarkRead(ctx context.Context, actorID, otherID uint64) (int64, error) {
	if _, err := loadUser(ctx, s.userRepo, otherID); err != nil {
		return 0, err
	}
	marked, err := s.messageRepo.MarkRead(ctx, otherID, actorID)
	if err != nil {
		return 0, apperrors.Persistence("failed to mark messages read", err)
	}
	if marked > 0 {
		s.log.Debug("messages marked read",
			zap.Uint64("user_id", actorID),
			zap.Uint64("other_id", otherID),
			zap.Int64("count", marked),
		)
	}
	return marked, nil
}

// SearchRecipients finds active users to start a conversation with.
// Queries shorter than the minimum length return nothing.
func (s *MessageService) SearchRecipients(ctx context.Context, actorID uint64, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < constants.MinDMSearchLength {
		return []models.User{}, nil
	}
	users, err := s.userRepo.SearchActive(ctx, query, actorID, constants.DMSearchLimit)
	if err != nil {
		return nil, apperrors.Persistence("failed to search users", err)
	}
	return users, nil
}
