package repository

import (
	"context"
	"sort"
	"time"

	"github.com/yukikurage/anon-forum/internal/models"
	"gorm.io/gorm"
)

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, msg *models.DirectMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// Conversations aggregates the user's message headers per partner
func (r *GormMessageRepository) Conversations(ctx context.Context, userID uint64) ([]Conversation, error) {
	var headers []models.DirectMessage
	err := r.db.WithContext(ctx).
		Select("id", "sender_id", "receiver_id", "is_read", "created_at").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Find(&headers).Error
	if err != nil {
		return nil, err
	}

	byPartner := make(map[uint64]*Conversation)
	for _, m := range headers {
		partner := m.SenderID
		if partner == userID {
			partner = m.ReceiverID
		}

		conv, ok := byPartner[partner]
		if !ok {
			conv = &Conversation{UserID: partner}
			byPartner[partner] = conv
		}
		if m.CreatedAt.After(conv.LastMessageAt) {
			conv.LastMessageAt = m.CreatedAt
		}
		if m.ReceiverID == userID && m.SenderID == partner && !m.IsRead {
			conv.UnreadCount++
		}
	}

	if len(byPartner) == 0 {
		return []Conversation{}, nil
	}

	ids := make([]uint64, 0, len(byPartner))
	for id := range byPartner {
		ids = append(ids, id)
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		byPartner[u.ID].Username = u.Username
	}

	conversations := make([]Conversation, 0, len(byPartner))
	for _, conv := range byPartner {
		conversations = append(conversations, *conv)
	}
	sort.Slice(conversations, func(i, j int) bool {
		if conversations[i].LastMessageAt.Equal(conversations[j].LastMessageAt) {
			return conversations[i].UserID < conversations[j].UserID
		}
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})

	return conversations, nil
}

// Thread returns messages exchanged between a and b, oldest first
func (r *GormMessageRepository) Thread(ctx context.Context, a, b uint64, since *time.Time) ([]models.DirectMessage, error) {
	query := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)

	if since != nil {
		query = query.Where("created_at > ?", *since)
	}

	var messages []models.DirectMessage
	if err := query.Order("created_at ASC").Order("id ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead marks unread messages from sender to receiver as read
func (r *GormMessageRepository) MarkRead(ctx context.Context, senderID, receiverID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.DirectMessage{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
