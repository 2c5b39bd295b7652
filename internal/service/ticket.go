package service

import (
	"context"
	"strings"

	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/auth"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/prometheus"
	"gorm.io/gorm"
)

// TicketService handles service requests filed by tenants
type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

// ServiceRequestInput holds the fields of a new service request
type ServiceRequestInput struct {
	Type        string
	Description string
	Urgency     string
	PhotoURL    string
}

func validType(t string) bool {
	switch t {
	case model.ServiceTypeMaintenance, model.ServiceTypeCleaning, model.ServiceTypeMeeting:
		return true
	}
	return false
}

func validUrgency(u string) bool {
	switch u {
	case model.UrgencyLow, model.UrgencyMedium, model.UrgencyHigh:
		return true
	}
	return false
}

// CreateServiceRequest files a new ticket for the caller's tenant
func (s *TicketService) CreateServiceRequest(ctx context.Context, userID uint, in ServiceRequestInput) (*model.ServiceRequest, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Description = strings.TrimSpace(in.Description)
	if in.Type == "" || in.Description == "" {
		return nil, apperr.New(apperr.ErrValidation, "Missing required fields")
	}
	if !validType(in.Type) {
		return nil, apperr.New(apperr.ErrValidation, "Invalid request type")
	}
	if in.Urgency == "" {
		in.Urgency = model.UrgencyMedium
	}
	if !validUrgency(in.Urgency) {
		return nil, apperr.New(apperr.ErrValidation, "Invalid urgency")
	}

	var req model.ServiceRequest
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		tenant, err := tenantForUser(tx, userID)
		if err != nil {
			return err
		}
		req = model.ServiceRequest{
			TenantID:    tenant.ID,
			Type:        in.Type,
			Description: in.Description,
			Urgency:     in.Urgency,
			PhotoURL:    strings.TrimSpace(in.PhotoURL),
			Status:      model.ServiceRequestNew,
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordServiceRequest(string(model.ServiceRequestNew))
	return &req, nil
}

// ListServiceRequests returns the caller's tickets, or every ticket for managers
func (s *TicketService) ListServiceRequests(ctx context.Context, id *auth.Identity, status string) ([]model.ServiceRequest, error) {
	var reqs []model.ServiceRequest
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		q := tx
		if !id.IsManager() {
			tenant, err := tenantForUser(tx, id.UserID)
			if err != nil {
				return err
			}
			q = q.Where("tenant_id = ?", tenant.ID)
		}
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q.Order("created_at DESC").Order("id DESC").Find(&reqs).Error
	})
	return reqs, err
}

// AssignServiceRequest assigns an open ticket to a manager. A zero assignee
// means the calling manager.
func (s *TicketService) AssignServiceRequest(ctx context.Context, userID, requestID, assigneeID uint) (*model.ServiceRequest, error) {
	var req model.ServiceRequest
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		caller, err := managerForUser(tx, userID)
		if err != nil {
			return err
		}
		assignee := caller
		if assigneeID != 0 && assigneeID != caller.ID {
			assignee = &model.Manager{}
			if err := findByID(tx, assignee, assigneeID, "Manager"); err != nil {
				return err
			}
		}

		if err := findByID(tx, &req, requestID, "Service request"); err != nil {
			return err
		}
		if req.Status == model.ServiceRequestClosed {
			return apperr.New(apperr.ErrInvalidTransition, "Service request is closed")
		}

		req.AssignedToID = &assignee.ID
		return tx.Model(&req).Update("assigned_to_id", assignee.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// AdvanceServiceRequest moves a ticket one step along new, in_progress,
// resolved, closed. Any other move is rejected.
func (s *TicketService) AdvanceServiceRequest(ctx context.Context, requestID uint, status model.ServiceRequestStatus) (*model.ServiceRequest, error) {
	var req model.ServiceRequest
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &req, requestID, "Service request"); err != nil {
			return err
		}
		next, ok := req.Status.Next()
		if !ok || next != status {
			return apperr.New(apperr.ErrInvalidTransition, "Cannot move service request from %s to %s", req.Status, status)
		}
		req.Status = next
		return tx.Model(&req).Update("status", next).Error
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordServiceRequest(string(status))
	return &req, nil
}
