package dto

import (
	"time"

	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
	"github.com/yukikurage/anon-forum/internal/utils"
)

// ReportDTO represents a report in the admin queue
type ReportDTO struct {
	ID           uint64    `json:"id"`
	Reporter     UserDTO   `json:"reporter"`
	ReportedUser UserDTO   `json:"reported_user"`
	Reason       *string   `json:"reason"`
	IsResolved   bool      `json:"is_resolved"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReportListResponse represents a paginated list of reports
type ReportListResponse struct {
	Reports    []ReportDTO              `json:"reports"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// MessageDTO represents a direct message
type MessageDTO struct {
	ID          uint64    `json:"id"`
	SenderID    uint64    `json:"sender_id"`
	ReceiverID  uint64    `json:"receiver_id"`
	ContentHTML string    `json:"content_html"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConversationListResponse lists the session user's threads
type ConversationListResponse struct {
	Conversations []repository.Conversation `json:"conversations"`
}

// ThreadResponse is one conversation
type ThreadResponse struct {
	With     UserDTO      `json:"with"`
	Messages []MessageDTO `json:"messages"`
}

// ToReportDTO converts a report with its users loaded
func ToReportDTO(report models.Report) ReportDTO {
	return ReportDTO{
		ID:           report.ID,
		Reporter:     ToUserDTO(report.Reporter),
		ReportedUser: ToUserDTO(report.ReportedUser),
		Reason:       report.Reason,
		IsResolved:   report.IsResolved,
		CreatedAt:    report.CreatedAt,
	}
}

// ToMessageDTO converts a direct message; messages allow no markup
func ToMessageDTO(msg models.DirectMessage, renderer *utils.ContentRenderer) MessageDTO {
	return MessageDTO{
		ID:          msg.ID,
		SenderID:    msg.SenderID,
		ReceiverID:  msg.ReceiverID,
		ContentHTML: renderer.RenderPlain(msg.Content),
		IsRead:      msg.IsRead,
		CreatedAt:   msg.CreatedAt,
	}
}

// ToMessageDTOs converts a thread
func ToMessageDTOs(messages []models.DirectMessage, renderer *utils.ContentRenderer) []MessageDTO {
	dtos := make([]MessageDTO, len(messages))
	for i, m := range messages {
		dtos[i] = ToMessageDTO(m, renderer)
	}
	return dtos
}
