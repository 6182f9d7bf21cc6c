package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/3lvia/fault"
	"github.com/3lvia/fault/config"
	"github.com/3lvia/fault/internal/runtime"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sloggin "github.com/samber/slog-gin"
)

// Descriptors raised by the demo routes.
var (
	authLoginFailed = fault.Descriptor{
		Code:            "AUTH-1000",
		Message:         "Incorrect username and password.",
		Description:     "Failed authentication attempt.",
		ProblemType:     "https://example.com/problems/authentication-error",
		ProblemInstance: "/login",
	}
)

func Serve(cfg *config.Config) (func(ctx context.Context), <-chan error) {
	appServer := &http.Server{
		Addr:    cfg.ApiAddr,
		Handler: newHandler(cfg.Env),
	}

	errChan := make(chan error, 1)

	go func(s *http.Server) {
		err := s.ListenAndServe()
		errChan <- err
	}(appServer)

	slog.Info(fmt.Sprintf("demo server is listening on %s", cfg.ApiAddr))

	return func(ctx context.Context) {
		slog.InfoContext(ctx, "demo server is shutting down")
		defer slog.InfoContext(ctx, "demo server has shut down")

		if err := appServer.Shutdown(ctx); err != nil {
			_ = appServer.Close()
			slog.Error("could not stop the demo server gracefully", "error", err)
		}
	}, errChan
}

func newHandler(env runtime.Env) http.Handler {
	switch env {
	case runtime.Development:
		gin.SetMode(gin.DebugMode)
	case runtime.Test:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	handler, err := fault.NewHandler(
		fault.WithFormat(fault.FormatStandard),
		fault.WithEchoPolicy(fault.EchoDefault()),
	)
	if err != nil {
		panic(err)
	}

	router := gin.New()
	router.Use(sloggin.NewWithConfig(slog.Default(), sloggin.Config{
		WithSpanID:  true,
		WithTraceID: true,
		Filters: []sloggin.Filter{
			sloggin.IgnorePath("/metrics"),
			sloggin.IgnorePath("/health"),
		},
	}))
	router.Use(handler.Middleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/login", func(c *gin.Context) {
		_ = c.Error(fault.New(authLoginFailed,
			fault.WithLogPayload(map[string]any{"attempted_user": c.Query("user")}),
		))
	})

	router.POST("/users", func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, fault.StandardBody{
			Data:        req,
			Status:      fault.SeveritySuccess,
			Message:     "User created.",
			Description: "User created successfully.",
		})
	})

	router.GET("/crash", func(c *gin.Context) {
		panic("demo crash")
	})

	// The documentation schema is patched once and served from the memoized
	// provider afterward.
	openapi := fault.PatchSchemaProvider(demoSchema)
	router.GET("/openapi.json", func(c *gin.Context) {
		schema, err := openapi()
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, schema)
	})

	return router
}

type createUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
}

func demoSchema() (map[string]any, error) {
	responses := map[string]any{
		"200": map[string]any{"description": "OK"},
	}
	for k, v := range fault.ResponseExamples(
		fault.ResponseExample{Status: 400, Descriptor: authLoginFailed},
		fault.ResponseExample{Status: 422, Descriptor: fault.ValidationError},
		fault.ResponseExample{Status: 500, Descriptor: fault.InternalServerError},
	) {
		responses[k] = v
	}

	return map[string]any{
		"openapi": "3.1.0",
		"info":    map[string]any{"title": "fault demo", "version": "0.1.0"},
		"paths": map[string]any{
			"/login": map[string]any{
				"get": map[string]any{"responses": responses},
			},
		},
	}, nil
}
