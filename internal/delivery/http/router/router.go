// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"pedshed/internal/delivery/http/router/handler"
	"pedshed/internal/delivery/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	IsochroneHandler *handler.IsochroneHandler
	RequestID        *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	isochroneHandler *handler.IsochroneHandler
	requestID        *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		isochroneHandler: params.IsochroneHandler,
		requestID:        params.RequestID,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestID.Process)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	isochroneGroup := e.Group("/isochrone")
	{
		isochroneGroup.POST("", r.isochroneHandler.Compute)
		isochroneGroup.POST("/geojson", r.isochroneHandler.ExportGeoJSON)
	}
}
