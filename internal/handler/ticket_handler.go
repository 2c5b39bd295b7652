package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/internal/service"
	"github.com/suteetoe/tenantportal/pkg/logger"
	"go.uber.org/zap"
)

type serviceRequestResponse struct {
	ID           uint   `json:"id"`
	TenantID     uint   `json:"tenant_id"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	Urgency      string `json:"urgency"`
	PhotoURL     string `json:"photo_url,omitempty"`
	Status       string `json:"status"`
	AssignedToID *uint  `json:"assigned_to_id"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func newServiceRequestResponse(r model.ServiceRequest) serviceRequestResponse {
	return serviceRequestResponse{
		ID:           r.ID,
		TenantID:     r.TenantID,
		Type:         r.Type,
		Description:  r.Description,
		Urgency:      r.Urgency,
		PhotoURL:     r.PhotoURL,
		Status:       string(r.Status),
		AssignedToID: r.AssignedToID,
		CreatedAt:    r.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:    r.UpdatedAt.UTC().Format(timeLayout),
	}
}

func (h *Handler) ListServiceRequests(c echo.Context) error {
	reqs, err := h.Tickets.ListServiceRequests(c.Request().Context(), identity(c), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]serviceRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, newServiceRequestResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateServiceRequest(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Type        string `json:"type"`
		Description string `json:"description"`
		Urgency     string `json:"urgency"`
		PhotoURL    string `json:"photo_url"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	created, err := h.Tickets.CreateServiceRequest(c.Request().Context(), identity(c).UserID, service.ServiceRequestInput{
		Type:        req.Type,
		Description: req.Description,
		Urgency:     req.Urgency,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Service request created", zap.Uint("request_id", created.ID), zap.String("type", created.Type))
	return c.JSON(http.StatusCreated, newServiceRequestResponse(*created))
}

func (h *Handler) AssignServiceRequest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		ManagerID uint `json:"manager_id"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	updated, err := h.Tickets.AssignServiceRequest(c.Request().Context(), identity(c).UserID, id, req.ManagerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newServiceRequestResponse(*updated))
}

func (h *Handler) AdvanceServiceRequest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	updated, err := h.Tickets.AdvanceServiceRequest(c.Request().Context(), id, model.ServiceRequestStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newServiceRequestResponse(*updated))
}
