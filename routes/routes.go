package routes

import (
	"github.com/brianvfarias/daily-diet-api/controllers"
	"github.com/brianvfarias/daily-diet-api/metrics"
	"github.com/brianvfarias/daily-diet-api/middlewares"
	"github.com/brianvfarias/daily-diet-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies wires the router. DB, Realtime and Limiter are optional; a
// nil value leaves the matching route or middleware out.
type Dependencies struct {
	Log          *zap.Logger
	Sessions     *services.SessionService
	Meals        controllers.MealStore
	Analytics    controllers.AnalyticsSummarizer
	Realtime     *services.RealtimeHub
	DB           *gorm.DB
	Limiter      *middlewares.RateLimiter
	CookieSecure bool
}

func SetupRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Log))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if d.DB != nil {
		r.GET("/healthz", controllers.NewHealthController(d.DB).Healthz)
	}

	mealCtl := controllers.NewMealController(d.Meals, d.Log)
	analyticsCtl := controllers.NewAnalyticsController(d.Analytics, d.Log)

	meal := r.Group("/meal")
	if d.Limiter != nil {
		meal.Use(d.Limiter.Handler())
	}

	// creation is the only route that may start a session
	meal.POST("", middlewares.ResolveSession(d.Sessions, d.CookieSecure, d.Log), mealCtl.CreateMeal)

	scoped := meal.Group("")
	scoped.Use(middlewares.RequireSession(d.Sessions))
	{
		scoped.GET("", mealCtl.ListMeals)
		scoped.GET("/analytics", analyticsCtl.GetAnalytics)
		if d.Realtime != nil {
			scoped.GET("/stream", controllers.NewRealtimeController(d.Realtime).MealStream)
		}
		scoped.GET("/:id", mealCtl.GetMeal)
		scoped.PUT("/:id", mealCtl.UpdateMeal)
		scoped.DELETE("/:id", mealCtl.DeleteMeal)
	}

	return r
}
