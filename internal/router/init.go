package router

import (
	"go-auth-service/internal/application"
	"go-auth-service/internal/container"
	"go-auth-service/internal/domain/repository"
	pginfra "go-auth-service/internal/infrastructure/postgres"
	handlers "go-auth-service/internal/interface/http"
	"go-auth-service/internal/router/modules"
)

type AuthModuleDeps struct {
	Repo    repository.UserRepository
	Service *application.Service
	Auth    *handlers.AuthHandler
	Users   *handlers.UserHandler
}

func buildAuthDeps() AuthModuleDeps {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := application.NewService(
		repo,
		container.GetHasher(),
		container.GetTokens(),
		container.GetLogger(),
	)

	return AuthModuleDeps{
		Repo:    repo,
		Service: service,
		Auth:    handlers.NewAuthHandler(service, container.GetLogger()),
		Users:   handlers.NewUserHandler(service, container.GetLogger()),
	}
}

// InitModules wires all application modules into the router registry.
// Call once during startup after the container singletons are set.
func InitModules(r *Registry) {
	deps := buildAuthDeps()
	cfg := container.GetConfig()

	r.Add(modules.NewAuthModule(deps.Auth, container.GetTokens()))
	r.Add(modules.NewUsersModule(deps.Users, container.GetTokens()))
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(container.GetPGPool(), container.GetLogger())))

	// Metrics and dev tooling live at the server root, outside /api/v1.
	root := &r.Engine.RouterGroup
	modules.NewDebugModule().Register(root)

	if cfg.IsDevelopment() {
		dev := handlers.NewDevHandler(
			container.GetPGPool(),
			container.GetTokens(),
			container.GetLogger(),
			cfg.PostgresDSN(),
			cfg.JWTExpirationHours,
		)
		modules.NewDevModule(dev).Register(root)
	}
}
