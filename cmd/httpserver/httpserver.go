// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/family-wallet/internal/middleware"
	"github.com/go-petr/family-wallet/internal/userdelivery"
	"github.com/go-petr/family-wallet/internal/userrepo"
	"github.com/go-petr/family-wallet/internal/userservice"
	"github.com/go-petr/family-wallet/internal/walletdelivery"
	"github.com/go-petr/family-wallet/internal/walletrepo"
	"github.com/go-petr/family-wallet/internal/walletservice"
	"github.com/go-petr/family-wallet/pkg/configpkg"
	"github.com/go-petr/family-wallet/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	walletRepo := walletrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo)
	walletService := walletservice.New(walletRepo, userRepo)

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	walletHandler := walletdelivery.NewHandler(walletService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/auth/register", userHandler.Register)
	engine.POST("/auth/login", userHandler.Login)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/wallets", walletHandler.Create)
	authRoutes.GET("/wallets/:id", walletHandler.Get)
	authRoutes.POST("/wallets/:id/deposits", walletHandler.Deposit)
	authRoutes.POST("/wallets/:id/expenses", walletHandler.RecordExpense)
	authRoutes.PUT("/wallets/:id/allowance", walletHandler.SetAllowance)
	authRoutes.POST("/wallets/:id/allowance/apply", walletHandler.ApplyAllowance)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("role", userdelivery.ValidRole)
		if err != nil {
			return nil, errors.New("cannot register role validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
