package httptransport

import (
	"log/slog"

	"github.com/birozsombor4/rest-api-template/internal/token"
	"github.com/birozsombor4/rest-api-template/internal/transport/http/handler"
	"github.com/birozsombor4/rest-api-template/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// NewRouter wires the middleware chain and routes. Auth runs globally; the
// three public paths are skipped inside the middleware itself so the bypass
// rule lives in one place.
func NewRouter(logger *slog.Logger, userHandler *handler.UserHandler, codec *token.Codec, lookup middleware.PrincipalLookup) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Auth(codec, lookup))

	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/verify", userHandler.Verify)

	r.POST("/avatar/:userId", userHandler.UploadAvatar)
	r.GET("/avatar/:userId", userHandler.GetAvatar)

	return r
}
