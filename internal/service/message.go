package service

import (
	"context"
	"strings"
	"time"

	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/auth"
	"github.com/suteetoe/tenantportal/internal/model"
	"gorm.io/gorm"
)

// MessageService runs the building message board
type MessageService struct {
	db  *gorm.DB
	Now Clock
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// PostInput holds the fields of a new message
type PostInput struct {
	RecipientType string
	Content       string
	IsUrgent      bool
	IsImportant   bool
	ExpiresAt     *time.Time
}

// PostMessage publishes a message. Tenants can only write to managers and
// cannot flag messages urgent.
func (s *MessageService) PostMessage(ctx context.Context, id *auth.Identity, in PostInput) (*model.Message, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, apperr.New(apperr.ErrValidation, "Content is required")
	}
	if in.RecipientType == "" {
		in.RecipientType = model.RecipientAll
	}
	switch in.RecipientType {
	case model.RecipientAll, model.RecipientTenant, model.RecipientManager:
	default:
		return nil, apperr.New(apperr.ErrValidation, "Invalid recipient type")
	}
	if !id.IsManager() {
		if in.RecipientType != model.RecipientManager {
			return nil, apperr.New(apperr.ErrForbidden, "Unauthorized access")
		}
		in.IsUrgent = false
	}

	now := s.Now.now()
	var expires *time.Time
	if in.ExpiresAt != nil {
		t := in.ExpiresAt.UTC()
		if !t.After(now) {
			return nil, apperr.New(apperr.ErrValidation, "Expiry must be in the future")
		}
		expires = &t
	}

	msg := model.Message{
		SenderID:      id.UserID,
		RecipientType: in.RecipientType,
		Content:       in.Content,
		IsUrgent:      in.IsUrgent,
		IsImportant:   in.IsImportant,
		CreatedAt:     now,
		ExpiresAt:     expires,
	}
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&msg).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns the unexpired messages visible to the caller, urgent first
func (s *MessageService) ListMessages(ctx context.Context, id *auth.Identity) ([]model.Message, error) {
	now := s.Now.now()

	var msgs []model.Message
	err := dbFor(ctx, s.db).
		Where("(recipient_type IN ? OR sender_id = ?)", []string{model.RecipientAll, id.Role}, id.UserID).
		Where("(expires_at IS NULL OR expires_at > ?)", now).
		Order("is_urgent DESC").Order("created_at DESC").Order("id DESC").
		Find(&msgs).Error
	return msgs, err
}

// DeleteMessage removes a message. Only its sender or a manager may do so.
func (s *MessageService) DeleteMessage(ctx context.Context, id *auth.Identity, messageID uint) error {
	return dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var msg model.Message
		if err := findByID(tx, &msg, messageID, "Message"); err != nil {
			return err
		}
		if msg.SenderID != id.UserID && !id.IsManager() {
			return apperr.New(apperr.ErrForbidden, "Unauthorized access")
		}
		return tx.Delete(&msg).Error
	})
}
