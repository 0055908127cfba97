package server

import (
	"github.com/nulzo/model-registry/internal/server/middleware"
	v1 "github.com/nulzo/model-registry/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	limiter := middleware.NewRateLimiter(
		s.config.RateLimit.RequestsPerSecond,
		s.config.RateLimit.Burst,
		s.logger,
	)

	api := s.router.Group("/v1")
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	api.Use(limiter.Middleware())
	{
		modelHandler := v1.NewModelHandler(s.registry)
		api.GET("/models", modelHandler.ListModels)
		api.GET("/models/resolve", modelHandler.Resolve)

		chatHandler := v1.NewChatHandler(s.registry, s.logger)
		api.POST("/chat/completions", chatHandler.CreateCompletion)
	}
}
