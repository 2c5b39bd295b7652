package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/internal/service"
)

type messageResponse struct {
	ID            uint    `json:"id"`
	SenderID      uint    `json:"sender_id"`
	RecipientType string  `json:"recipient_type"`
	Content       string  `json:"content"`
	IsUrgent      bool    `json:"is_urgent"`
	IsImportant   bool    `json:"is_important"`
	CreatedAt     string  `json:"created_at"`
	ExpiresAt     *string `json:"expires_at"`
}

func newMessageResponse(m model.Message) messageResponse {
	return messageResponse{
		ID:            m.ID,
		SenderID:      m.SenderID,
		RecipientType: m.RecipientType,
		Content:       m.Content,
		IsUrgent:      m.IsUrgent,
		IsImportant:   m.IsImportant,
		CreatedAt:     m.CreatedAt.UTC().Format(timeLayout),
		ExpiresAt:     formatTime(m.ExpiresAt),
	}
}

func (h *Handler) ListMessages(c echo.Context) error {
	msgs, err := h.Messages.ListMessages(c.Request().Context(), identity(c))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, newMessageResponse(m))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) PostMessage(c echo.Context) error {
	var req struct {
		RecipientType string `json:"recipient_type"`
		Content       string `json:"content"`
		IsUrgent      bool   `json:"is_urgent"`
		IsImportant   bool   `json:"is_important"`
		ExpiresAt     string `json:"expires_at"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	in := service.PostInput{
		RecipientType: req.RecipientType,
		Content:       req.Content,
		IsUrgent:      req.IsUrgent,
		IsImportant:   req.IsImportant,
	}
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return respondError(c, apperr.New(apperr.ErrValidation, "Invalid expiry time"))
		}
		in.ExpiresAt = &t
	}

	msg, err := h.Messages.PostMessage(c.Request().Context(), identity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newMessageResponse(*msg))
}

func (h *Handler) DeleteMessage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Messages.DeleteMessage(c.Request().Context(), identity(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message deleted successfully"})
}
