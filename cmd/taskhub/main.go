package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/taskhub/taskhub-rest/api"
	"github.com/taskhub/taskhub-rest/auth"
	"github.com/taskhub/taskhub-rest/database"
	"github.com/taskhub/taskhub-rest/helpers"
	"github.com/taskhub/taskhub-rest/models"
	"github.com/taskhub/taskhub-rest/rest"
	"github.com/taskhub/taskhub-rest/services"
)

const defaultTokenLifetime = 24 * time.Hour

func main() {
	connector, err := database.NewDefaultMongoConnector()
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}

	datasource := &database.Datasource{}
	if err := datasource.AddConnector(connector); err != nil {
		log.Fatalf("failed to register connector: %v", err)
	}

	repositoryOptions := database.RepositoryOptions{Created: true, Modified: true}

	userRepository, err := database.NewMongoRepository[models.User](datasource, repositoryOptions)
	if err != nil {
		log.Fatalf("failed to create user repository: %v", err)
	}

	taskRepository, err := database.NewMongoRepository[models.Task](datasource, repositoryOptions)
	if err != nil {
		log.Fatalf("failed to create task repository: %v", err)
	}

	if err := datasource.EnsureIndexes(); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	codec, err := auth.NewCodec(helpers.GetEnvOrPanic("JWT_SECRET"), tokenLifetime())
	if err != nil {
		log.Fatalf("failed to create token codec: %v", err)
	}

	userService := services.NewUserService(userRepository, taskRepository)
	authService := services.NewAuthService(userService, userRepository, codec)
	taskService := services.NewTaskService(taskRepository)

	var app *rest.RestApp

	authenticator := auth.NewAuthenticator(codec, userService, exemptPrefixes(), func(format string, args ...any) {
		app.Warnf(format, args...)
	})

	app = rest.NewRestApp(rest.RestAppOptions{
		Name:              "taskhub",
		Port:              appPort(),
		Datasource:        datasource,
		LogLevel:          rest.LogLevelInfo,
		EnableRateLimiter: true,
		Authorizer:        api.NewAuthorizer(authenticator),
		RouteGuard:        api.NewRouteGuard(api.NewPolicyTable()),
		AuditLogConfig: &rest.AuditLogConfig{
			Enabled: true,
			Handler: func(ctx *rest.EndpointContext, response any, affectedModelId any) error {
				principalId := ""
				if ctx.Principal != nil {
					principalId = ctx.Principal.GetPrincipalID()
				}
				ctx.App.Infof("audit request=%s action=%s model=%s id=%v principal=%s ip=%s",
					ctx.RequestID, ctx.Endpoint.ActionType, ctx.Endpoint.Model, affectedModelId, principalId, ctx.IpAddress)
				return nil
			},
		},
	})
	defer app.Destroy()

	group := app.Group("/api")
	app.RegisterEndpoints(api.AuthEndpoints(authService), group)
	app.RegisterEndpoints(api.TaskEndpoints(taskService), group)
	app.RegisterEndpoints(api.AdminEndpoints(userService), group)

	if err := app.Start(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func appPort() uint16 {
	port, err := strconv.ParseUint(helpers.GetEnv("APP_PORT", "8080"), 10, 16)
	if err != nil {
		log.Fatalf("invalid APP_PORT: %v", err)
	}
	return uint16(port)
}

func tokenLifetime() time.Duration {
	raw := helpers.GetEnv("JWT_TTL", "")
	if raw == "" {
		return defaultTokenLifetime
	}

	lifetime, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("invalid JWT_TTL: %v", err)
	}
	return lifetime
}

func exemptPrefixes() []string {
	raw := helpers.GetEnv("AUTH_EXEMPT_PREFIXES", "/swagger-ui,/api-docs,/webjars")

	var prefixes []string
	for _, prefix := range strings.Split(raw, ",") {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			prefixes = append(prefixes, prefix)
		}
	}
	return prefixes
}
