package router

import (
	"time"

	"github.com/greekgang/terminal/internal/application"
	"github.com/greekgang/terminal/internal/container"
	pginfra "github.com/greekgang/terminal/internal/infrastructure/postgres"
	handlers "github.com/greekgang/terminal/internal/interface/http"
	"github.com/greekgang/terminal/internal/interface/middleware"
	"github.com/greekgang/terminal/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	roleRepo := pginfra.NewRoleRepository(pool)
	stockRepo := pginfra.NewStockRepository(pool)
	tradeRepo := pginfra.NewTradeRepository(pool)

	userService := &application.UserService{
		Users:  userRepo,
		Roles:  roleRepo,
		Stocks: stockRepo,
		Signer: container.GetSigner(),
		Logger: logger,

		Pub:          container.GetRabbitPub(),
		ES:           container.GetES(),
		ESUsersIndex: cfg.ESUsersIndex,

		AdminEmail:      cfg.AdminEmail,
		ConfirmTokenTTL: cfg.ConfirmTokenTTL,
		AuthTokenTTL:    cfg.AuthTokenTTL,
		ConfirmURL:      cfg.ConfirmURL,
		ResetURL:        cfg.ResetURL,
		ChangeEmailURL:  cfg.ChangeEmailURL,
	}
	stockService := &application.StockService{
		Stocks: stockRepo,
		Logger: logger,

		ES:            container.GetES(),
		ESStocksIndex: cfg.ESStocksIndex,

		GCS:        container.GetGCS(),
		LogoBucket: cfg.GCSBucket,
	}
	tradeService := &application.TradeService{
		Trades: tradeRepo,
		Users:  userRepo,
		Stocks: stockRepo,
		Logger: logger,
	}

	r.Use(middleware.APIAuth(userService))
	r.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil))

	r.Add(modules.NewHealth())
	r.Add(modules.NewAuth(handlers.NewAuthHandler(userService, logger, cfg)))
	r.Add(modules.NewUser(handlers.NewUserHandler(userService, tradeService, logger, cfg)))
	r.Add(modules.NewStock(handlers.NewStockHandler(stockService, logger, cfg)))
	r.Add(modules.NewTrade(handlers.NewTradeHandler(tradeService, logger, cfg)))
}
