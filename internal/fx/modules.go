package fx

import (
	"database/sql"

	"duo-ladder/internal/api"
	"duo-ladder/internal/config"
	"duo-ladder/internal/database"
	"duo-ladder/internal/db"
	"duo-ladder/internal/logger"
	"duo-ladder/internal/repository"
	"duo-ladder/internal/server"
	"duo-ladder/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

var Module = fx.Options(
	config.Module,
	logger.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewDuoRepository),
	fx.Provide(repository.NewGameRepository),
	fx.Provide(repository.NewRankHistoryRepository),
	// api client
	fx.Provide(fx.Annotate(api.NewRiotClient, fx.As(new(service.RiotAPI)))),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewLadderService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewPoller),
	// server
	fx.Provide(server.NewLadderServer),
)
