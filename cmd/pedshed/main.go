package main

import (
	"context"
	"log/slog"
	"os"

	"pedshed/config"
	"pedshed/internal/delivery"
	"pedshed/internal/delivery/http"
	"pedshed/internal/delivery/http/router/handler"
	"pedshed/internal/delivery/middleware"
	"pedshed/internal/infra/geometry"
	logs "pedshed/internal/infra/log"
	"pedshed/internal/infra/network/loader"
	"pedshed/internal/usecase/impl"

	"go.uber.org/fx"
)

const (
	defaultSegmentsPath   = "./data/segments.geojson"
	defaultConnectorsPath = "./data/connectors.geojson"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		geometry.NewHullService,
		newNetworkSource,
		newIsochroneConfig,
	)
}

// newNetworkSource creates the street network source with dependency injection
func newNetworkSource(cfg *config.Config) impl.NetworkSource {
	if cfg.Network == nil {
		return loader.NewGeoJSONLoader(defaultSegmentsPath, defaultConnectorsPath, true)
	}

	return loader.NewGeoJSONLoader(cfg.Network.SegmentsPath, cfg.Network.ConnectorsPath, cfg.Network.WalkableOnly)
}

func newIsochroneConfig(cfg *config.Config) *config.IsochroneConfig {
	return cfg.Isochrone
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewIsochroneService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewIsochroneHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
