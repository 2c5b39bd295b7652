package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/internal/service"
	"github.com/suteetoe/tenantportal/pkg/logger"
	"go.uber.org/zap"
)

type bookingResponse struct {
	ID                uint    `json:"id"`
	RoomID            uint    `json:"room_id"`
	RoomName          string  `json:"room_name,omitempty"`
	TenantID          uint    `json:"tenant_id"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	Purpose           string  `json:"purpose"`
	NumAttendees      int     `json:"num_attendees"`
	Status            string  `json:"status"`
	ManagerApprovalID *uint   `json:"manager_approval_id"`
	ApprovedAt        *string `json:"approved_at"`
	CreatedAt         string  `json:"created_at"`
}

func newBookingResponse(b model.Booking) bookingResponse {
	out := bookingResponse{
		ID:                b.ID,
		RoomID:            b.RoomID,
		TenantID:          b.TenantID,
		StartTime:         b.StartTime.UTC().Format(timeLayout),
		EndTime:           b.EndTime.UTC().Format(timeLayout),
		Purpose:           b.Purpose,
		NumAttendees:      b.NumAttendees,
		Status:            string(b.Status),
		ManagerApprovalID: b.ManagerApprovalID,
		ApprovedAt:        formatTime(b.ApprovedAt),
		CreatedAt:         b.CreatedAt.UTC().Format(timeLayout),
	}
	if b.Room != nil {
		out.RoomName = b.Room.Name
	}
	return out
}

func (h *Handler) ListRooms(c echo.Context) error {
	rooms, err := h.Bookings.ListRooms(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *Handler) CreateRoom(c echo.Context) error {
	var req struct {
		Name       string  `json:"name"`
		HourlyRate float64 `json:"hourly_rate"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	room, err := h.Bookings.CreateRoom(c.Request().Context(), req.Name, req.HourlyRate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *Handler) ListBookings(c echo.Context) error {
	bookings, err := h.Bookings.ListBookings(c.Request().Context(), identity(c), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, newBookingResponse(b))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) RequestBooking(c echo.Context) error {
	log := logger.FromContext(c)

	// Parse request
	var req struct {
		RoomID       uint   `json:"room_id"`
		StartTime    string `json:"start_time"`
		EndTime      string `json:"end_time"`
		Purpose      string `json:"purpose"`
		NumAttendees int    `json:"num_attendees"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return respondError(c, apperr.New(apperr.ErrValidation, "Invalid start time"))
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return respondError(c, apperr.New(apperr.ErrValidation, "Invalid end time"))
	}

	booking, err := h.Bookings.RequestBooking(c.Request().Context(), identity(c).UserID, service.BookingRequest{
		RoomID:       req.RoomID,
		StartTime:    start,
		EndTime:      end,
		Purpose:      req.Purpose,
		NumAttendees: req.NumAttendees,
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Booking requested", zap.Uint("booking_id", booking.ID), zap.Uint("room_id", booking.RoomID))
	return c.JSON(http.StatusCreated, newBookingResponse(*booking))
}

func (h *Handler) ApproveBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	booking, err := h.Bookings.ApproveBooking(c.Request().Context(), identity(c).UserID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newBookingResponse(*booking))
}

func (h *Handler) RejectBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	booking, err := h.Bookings.RejectBooking(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newBookingResponse(*booking))
}

func (h *Handler) CancelBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	booking, err := h.Bookings.CancelBooking(c.Request().Context(), identity(c).UserID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newBookingResponse(*booking))
}
