package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/internal/apperr"
	"github.com/suteetoe/tenantportal/internal/auth"
	"github.com/suteetoe/tenantportal/internal/service"
	"github.com/suteetoe/tenantportal/pkg/logger"
	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

// Handler exposes the portal services over HTTP
type Handler struct {
	Identity  *service.IdentityService
	Payments  *service.PaymentService
	Events    *service.EventService
	Directory *service.DirectoryService
	Bookings  *service.BookingService
	Tickets   *service.TicketService
	Messages  *service.MessageService
}

// respondError writes err as {"error": message} with the status its kind maps to
func respondError(c echo.Context, err error) error {
	log := logger.FromContext(c)
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": apperr.Message(err)})
}

func badRequest(c echo.Context, err error) error {
	logger.FromContext(c).Warn("Failed to parse request", zap.Error(err))
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
}

// pathID reads a numeric path parameter
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.ErrValidation, "Invalid %s", name)
	}
	return uint(id), nil
}

func identity(c echo.Context) *auth.Identity {
	if id := auth.IdentityFrom(c); id != nil {
		return id
	}
	return &auth.Identity{}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}
