package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/internal/service"
	"github.com/suteetoe/tenantportal/pkg/logger"
	"github.com/suteetoe/tenantportal/prometheus"
	"go.uber.org/zap"
)

type userResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: u.Role}
}

// decodeContactInfo rejects keys outside the known contact fields
func decodeContactInfo(raw json.RawMessage) (*model.ContactInfo, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var info model.ContactInfo
	if err := dec.Decode(&info); err != nil {
		return nil, apperr.New(apperr.ErrValidation, "Invalid contact info")
	}
	return &info, nil
}

func (h *Handler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	// Parse request
	var req struct {
		Email                     string          `json:"email"`
		Password                  string          `json:"password"`
		BusinessName              string          `json:"business_name"`
		SuiteNumber               string          `json:"suite_number"`
		ContactInfo               json.RawMessage `json:"contact_info"`
		EmailNotificationsEnabled *bool           `json:"email_notifications_enabled"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return badRequest(c, err)
	}

	contact, err := decodeContactInfo(req.ContactInfo)
	if err != nil {
		return respondError(c, err)
	}
	in := service.RegisterInput{
		Email:                     req.Email,
		Password:                  req.Password,
		BusinessName:              req.BusinessName,
		SuiteNumber:               req.SuiteNumber,
		EmailNotificationsEnabled: req.EmailNotificationsEnabled,
	}
	if contact != nil {
		in.ContactInfo = *contact
	}

	res, err := h.Identity.Register(c.Request().Context(), in)
	if err != nil {
		prometheus.RecordAuthError("register_failed")
		return respondError(c, err)
	}

	log.Info("Tenant registered",
		zap.Uint("user_id", res.User.ID),
		zap.String("suite_number", in.SuiteNumber))
	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "User registered successfully",
		"access_token": res.Token,
		"user":         newUserResponse(res.User),
	})
}

func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return badRequest(c, err)
	}

	res, err := h.Identity.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		prometheus.RecordAuthError("invalid_credentials")
		return respondError(c, err)
	}

	log.Info("User logged in", zap.Uint("user_id", res.User.ID), zap.String("role", res.User.Role))
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": res.Token,
		"user":         newUserResponse(res.User),
	})
}

func (h *Handler) GetProfile(c echo.Context) error {
	profile, err := h.Identity.GetProfile(c.Request().Context(), identity(c).UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req struct {
		BusinessName              *string         `json:"business_name"`
		ContactInfo               json.RawMessage `json:"contact_info"`
		EmailNotificationsEnabled *bool           `json:"email_notifications_enabled"`
		Name                      *string         `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	contact, err := decodeContactInfo(req.ContactInfo)
	if err != nil {
		return respondError(c, err)
	}
	err = h.Identity.UpdateProfile(c.Request().Context(), identity(c).UserID, service.UpdateProfileInput{
		BusinessName:              req.BusinessName,
		ContactInfo:               contact,
		EmailNotificationsEnabled: req.EmailNotificationsEnabled,
		Name:                      req.Name,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully"})
}

func (h *Handler) ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	id := identity(c)
	if err := h.Identity.ChangePassword(c.Request().Context(), id.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	log.Info("Password changed", zap.Uint("user_id", id.UserID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

func (h *Handler) CreateManager(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	manager, err := h.Identity.CreateManager(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Manager created", zap.Uint("manager_id", manager.ID), zap.Uint("created_by", identity(c).UserID))
	return c.JSON(http.StatusCreated, echo.Map{
		"id":      manager.ID,
		"user_id": manager.UserID,
		"name":    manager.Name,
		"email":   manager.Email,
	})
}
