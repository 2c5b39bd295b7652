package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/internal/service"
	"github.com/suteetoe/tenantportal/pkg/logger"
	"go.uber.org/zap"
)

type eventResponse struct {
	ID              uint   `json:"id"`
	CreatorTenantID uint   `json:"creator_tenant_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	EventDate       string `json:"event_date"`
	EventTime       string `json:"event_time"`
	Location        string `json:"location"`
	ContactPerson   string `json:"contact_person"`
	RequiresRSVP    bool   `json:"requires_rsvp"`
	CreatedAt       string `json:"created_at"`
}

type documentResponse struct {
	ID         uint   `json:"id"`
	FileURL    string `json:"file_url"`
	FileName   string `json:"file_name"`
	UploadedAt string `json:"uploaded_at"`
}

type rsvpResponse struct {
	ID       uint   `json:"id"`
	EventID  uint   `json:"event_id"`
	TenantID uint   `json:"tenant_id"`
	Status   string `json:"status"`
	RSVPedAt string `json:"rsvped_at"`
}

func newEventResponse(e model.Event) eventResponse {
	return eventResponse{
		ID:              e.ID,
		CreatorTenantID: e.CreatorTenantID,
		Title:           e.Title,
		Description:     e.Description,
		EventDate:       e.EventDate.UTC().Format(dateLayout),
		EventTime:       e.EventTime,
		Location:        e.Location,
		ContactPerson:   e.ContactPerson,
		RequiresRSVP:    e.RequiresRSVP,
		CreatedAt:       e.CreatedAt.UTC().Format(timeLayout),
	}
}

func newDocumentResponse(d model.EventDocument) documentResponse {
	return documentResponse{ID: d.ID, FileURL: d.FileURL, FileName: d.FileName, UploadedAt: d.UploadedAt.UTC().Format(timeLayout)}
}

func newRSVPResponse(r model.EventRSVP) rsvpResponse {
	return rsvpResponse{ID: r.ID, EventID: r.EventID, TenantID: r.TenantID, Status: string(r.Status), RSVPedAt: r.RSVPedAt.UTC().Format(timeLayout)}
}

func (h *Handler) ListEvents(c echo.Context) error {
	events, err := h.Events.ListEvents(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, newEventResponse(e))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateEvent(c echo.Context) error {
	log := logger.FromContext(c)

	// Parse request
	var req struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		EventDate     string `json:"event_date"`
		EventTime     string `json:"event_time"`
		Location      string `json:"location"`
		ContactPerson string `json:"contact_person"`
		RequiresRSVP  bool   `json:"requires_rsvp"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	event, err := h.Events.CreateEvent(c.Request().Context(), identity(c).UserID, service.CreateEventInput{
		Title:         req.Title,
		Description:   req.Description,
		EventDate:     req.EventDate,
		EventTime:     req.EventTime,
		Location:      req.Location,
		ContactPerson: req.ContactPerson,
		RequiresRSVP:  req.RequiresRSVP,
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Event created", zap.Uint("event_id", event.ID))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Event created successfully", "event_id": event.ID})
}

func (h *Handler) GetEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.Events.GetEvent(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	docs := make([]documentResponse, 0, len(detail.Event.Documents))
	for _, d := range detail.Event.Documents {
		docs = append(docs, newDocumentResponse(d))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event":       newEventResponse(detail.Event),
		"documents":   docs,
		"rsvp_counts": detail.RSVPCounts,
	})
}

func (h *Handler) DeleteEvent(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Events.DeleteEvent(c.Request().Context(), identity(c), id); err != nil {
		return respondError(c, err)
	}

	log.Info("Event deleted", zap.Uint("event_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Event deleted successfully"})
}

func (h *Handler) RSVP(c echo.Context) error {
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

	rsvp, err := h.Events.RSVP(c.Request().Context(), identity(c).UserID, id, model.RSVPStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newRSVPResponse(*rsvp))
}

func (h *Handler) ListRSVPs(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	rsvps, err := h.Events.ListRSVPs(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	out := make([]rsvpResponse, 0, len(rsvps))
	for _, r := range rsvps {
		out = append(out, newRSVPResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) AddDocument(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		FileURL  string `json:"file_url"`
		FileName string `json:"file_name"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	doc, err := h.Events.AddDocument(c.Request().Context(), identity(c), id, req.FileURL, req.FileName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newDocumentResponse(*doc))
}
