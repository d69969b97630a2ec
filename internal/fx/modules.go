package fx

import (
	"kda-engine/internal/config"
	"kda-engine/internal/database"
	"kda-engine/internal/logger"
	"kda-engine/internal/repository"
	"kda-engine/internal/server"
	"kda-engine/internal/service"

	"go.uber.org/fx"
)

func ProvideSessionStore(r *repository.SessionRepository) service.SessionStore { return r }

func ProvideHistoryStore(r *repository.HistoryRepository) service.HistoryStore { return r }

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSessionRepository),
	fx.Provide(repository.NewHistoryRepository),
	fx.Provide(ProvideSessionStore),
	fx.Provide(ProvideHistoryStore),
	// randomness for the simulator
	fx.Provide(service.NewRandSource),
	// svc
	fx.Provide(service.NewSessionService),
	fx.Provide(service.NewSimulationService),
	fx.Provide(service.NewExportService),
	// server
	fx.Provide(server.NewKDAServer),
)
