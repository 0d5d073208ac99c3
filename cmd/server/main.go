package main

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/Tanishq-btech-cse/bank-ledger/internal/domain"
	"github.com/Tanishq-btech-cse/bank-ledger/internal/ledgerdelivery"
	"github.com/Tanishq-btech-cse/bank-ledger/internal/ledgerrepo"
	"github.com/Tanishq-btech-cse/bank-ledger/internal/ledgerservice"
	"github.com/Tanishq-btech-cse/bank-ledger/internal/middleware"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/configpkg"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/dbpkg"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/idpkg"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/tokenpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}

	store := ledgerrepo.NewRepoPGS(conn, config.LockTimeout)

	server, err := createServer(store, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	err = server.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}

func createServer(store domain.Store, logger zerolog.Logger, config configpkg.Config) (*gin.Engine, error) {
	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	ledgerService := ledgerservice.New(store, idpkg.NewGenerator())
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService, tokenMaker, config.AccessTokenDuration)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()

	server.Use(middleware.RequestLogger(logger))
	server.Use(gin.Recovery())

	server.POST("/accounts", ledgerHandler.Open)
	server.POST("/sessions", ledgerHandler.Login)

	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/accounts/:number", ledgerHandler.Get)
	authRoutes.GET("/accounts/:number/balance", ledgerHandler.GetBalance)
	authRoutes.GET("/accounts/:number/history", ledgerHandler.ListHistory)
	authRoutes.POST("/accounts/:number/deposits", ledgerHandler.Deposit)
	authRoutes.POST("/accounts/:number/withdrawals", ledgerHandler.Withdraw)
	authRoutes.POST("/transfers", ledgerHandler.Transfer)

	return server, nil
}
