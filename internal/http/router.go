package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/passwordless/internal/http/handlers"
	"github.com/you/passwordless/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, jwtmw *middleware.AuthMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/email", ah.RequestEmailToken)
	auth.POST("/mobile", ah.RequestMobileToken)
	auth.POST("/token", ah.ExchangeToken)
	auth.POST("/refresh", ah.Refresh)

	v := r.Group("/auth").Use(jwtmw.WithJWT())
	v.POST("/verify/email", ah.RequestEmailVerification)
	v.POST("/verify/mobile", ah.RequestMobileVerification)
	v.POST("/verify", ah.ConfirmVerification)
	v.POST("/logout", ah.Logout)
	v.GET("/me", ah.Me)

	return r
}
