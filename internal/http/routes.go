package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler, allowedOrigin string, ratePerMin int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	rl := NewRateLimiter(ratePerMin, time.Minute).WithRedis(h.Redis)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api", CORS(allowedOrigin))
	{
		api.GET("/greetings", h.ListGreetings)
		api.POST("/greetings", RateLimitSubmit(rl), h.SubmitGreeting)
		api.OPTIONS("/greetings", func(c *gin.Context) { c.Status(http.StatusOK) })
		api.GET("/ip", h.IP)
		api.OPTIONS("/ip", func(c *gin.Context) { c.Status(http.StatusOK) })
	}
	return r
}
