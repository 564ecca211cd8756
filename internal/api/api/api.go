package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"expoDesk/cmd/middleware"
	"expoDesk/internal/registration"
	"expoDesk/internal/service"
)

type Routers struct {
	Service service.Service
	Tokens  middleware.TokenValidator
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())

	app.GET("/health", r.Service.Health)
	app.POST("/register", r.Service.Register(registration.Visitor.Key))
	app.POST("/register-trade-expo", r.Service.Register(registration.TradeExpo.Key))

	apiGroup := app.Group("/v1")
	apiGroup.POST("/registrations/:eventType", r.Service.RegisterByType)
	apiGroup.POST("/admin/login", r.Service.Login)

	admin := apiGroup.Group("/admin", middleware.AdminAuth(r.Tokens))
	admin.GET("/registrations", r.Service.ListRegistrations)
	admin.GET("/registrations/:code", r.Service.GetRegistration)
	admin.POST("/registrations/:code/check-in", r.Service.CheckIn)
	admin.POST("/registrations/:code/cancel", r.Service.Cancel)
	admin.GET("/stats", r.Service.Stats)

	return app
}
