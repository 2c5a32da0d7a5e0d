package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "pedshed/internal/delivery/context"
	"pedshed/internal/delivery/http/response"
	"pedshed/internal/infra/network"
	"pedshed/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// IsochroneHandlerParams holds dependencies for IsochroneHandler, injected by Fx.
type IsochroneHandlerParams struct {
	fx.In

	IsochroneUC usecase.IsochroneUsecase
	Logger      *slog.Logger
}

// IsochroneHandler holds dependencies for walk-reach query handlers
type IsochroneHandler struct {
	isochroneUC usecase.IsochroneUsecase
	logger      *slog.Logger
}

// NewIsochroneHandler is the constructor for IsochroneHandler
func NewIsochroneHandler(params IsochroneHandlerParams) *IsochroneHandler {
	return &IsochroneHandler{
		isochroneUC: params.IsochroneUC,
		logger:      params.Logger,
	}
}

// IsochroneRequest represents the request body for a walk-reach query.
// Lat and Lng are pointers so a present zero coordinate (equator or
// Greenwich meridian) is distinguishable from a missing field.
type IsochroneRequest struct {
	Lat          *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng          *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	WalkMinutes  float64  `json:"walk_minutes" validate:"omitempty,gte=1,lte=120"`
	WalkSpeedKmh float64  `json:"walk_speed_kmh" validate:"omitempty,gte=0.5,lte=15"`
}

// Compute handles a walk-reach query and returns the structured result
func (h *IsochroneHandler) Compute(c echo.Context) error {
	req, err := h.bindRequest(c)
	if err != nil {
		return err
	}

	result, err := h.isochroneUC.Compute(c.Request().Context(), *req)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Isochrone computed successfully")
}

// ExportGeoJSON handles a walk-reach query and returns a raw GeoJSON
// FeatureCollection, suitable for dropping into a map viewer
func (h *IsochroneHandler) ExportGeoJSON(c echo.Context) error {
	req, err := h.bindRequest(c)
	if err != nil {
		return err
	}

	collection, err := h.isochroneUC.ExportGeoJSON(c.Request().Context(), *req)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return c.JSON(http.StatusOK, collection)
}

func (h *IsochroneHandler) bindRequest(c echo.Context) (*usecase.IsochroneRequest, error) {
	var req IsochroneRequest
	if err := c.Bind(&req); err != nil {
		return nil, response.BindingError(c, "INVALID_INPUT", "Invalid isochrone input")
	}

	if err := c.Validate(&req); err != nil {
		return nil, response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	return &usecase.IsochroneRequest{
		Lat:          *req.Lat,
		Lng:          *req.Lng,
		WalkMinutes:  req.WalkMinutes,
		WalkSpeedKmh: req.WalkSpeedKmh,
	}, nil
}

// handleAppError maps pipeline errors to HTTP responses
func (h *IsochroneHandler) handleAppError(c echo.Context, err error) error {
	if errors.Is(err, network.ErrNoConnectors) {
		return response.UnprocessableEntity(c, "EMPTY_NETWORK", "Street network has no connectors")
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)
	logger.Error("isochrone query failed", slog.Any("error", err))

	return response.InternalServerError(c, "INTERNAL_ERROR", "Failed to compute isochrone")
}
