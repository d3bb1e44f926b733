// Package httpserver manages server creation and api routing.
package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/tx-ledger/internal/accountstore"
	"github.com/go-petr/tx-ledger/internal/ledgerdelivery"
	"github.com/go-petr/tx-ledger/internal/ledgerservice"
	"github.com/go-petr/tx-ledger/internal/middleware"
	"github.com/go-petr/tx-ledger/internal/txstore"
	"github.com/go-petr/tx-ledger/pkg/configpkg"
)

// Server holds the ledger engine, handlers router and configuration.
type Server struct {
	Ledger *ledgerservice.Service
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accounts := accountstore.New()
	transactions := txstore.New()

	ledgerService := ledgerservice.New(accounts, transactions)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/transactions", ledgerHandler.Create)
	engine.GET("/accounts", ledgerHandler.List)
	engine.GET("/accounts/:client", ledgerHandler.Get)

	server := &Server{
		Ledger: ledgerService,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
