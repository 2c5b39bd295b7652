package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/internal/model"
)

type directoryResponse struct {
	ID             uint                  `json:"id"`
	SuiteNumber    string                `json:"suite_number"`
	BusinessName   string                `json:"business_name"`
	MapCoordinates *model.MapCoordinates `json:"map_coordinates"`
}

func (h *Handler) ListDirectory(c echo.Context) error {
	entries, err := h.Directory.ListDirectory(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	out := make([]directoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, directoryResponse{
			ID:             e.ID,
			SuiteNumber:    e.SuiteNumber,
			BusinessName:   e.BusinessName,
			MapCoordinates: e.MapCoordinates,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) MapPDF(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"url": h.Directory.MapPDFURL()})
}
