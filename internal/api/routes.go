package api

import (
	"net/http"

	"alcyxob/tritrack/internal/metrics"
	"alcyxob/tritrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the domain services the routes dispatch to.
type Services struct {
	Profile   service.ProfileService
	Nutrition service.NutritionService
	Plan      service.PlanService
	Workout   service.WorkoutService
	Coach     service.CoachService
}

// RouteOptions carries the cross-cutting wiring of the router.
type RouteOptions struct {
	JWTSecret    string
	AIConfigured bool
	Metrics      *metrics.Manager
	Gatherer     prometheus.Gatherer
	// RateLimiter throttles the AI endpoints. Nil disables throttling.
	RateLimiter RequestRateLimiter
	AIPerMinute int
}

func SetupRoutes(router *gin.Engine, opts RouteOptions, services Services) {
	proxyHandler := NewProxyHandler(services.Coach, services.Plan, opts.AIConfigured)
	profileHandler := NewProfileHandler(services.Profile)
	mealHandler := NewMealHandler(services.Nutrition)
	planHandler := NewPlanHandler(services.Plan)
	workoutHandler := NewWorkoutHandler(services.Workout)
	coachHandler := NewCoachHandler(services.Coach)

	router.Use(RequestLogger())
	if opts.Metrics != nil {
		router.Use(RequestMetrics(opts.Metrics))
	}
	router.MaxMultipartMemory = maxPlanImages * maxPlanImageSize

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	aiLimit := RateLimit(opts.RateLimiter, "ai", opts.AIPerMinute)

	// Public AI endpoints. Any method is routed so that non-POST requests get 405 with a JSON body.
	public := router.Group("/api")
	{
		public.Any("/coach", aiLimit, proxyHandler.Coach)
		public.Any("/parse-plan", aiLimit, proxyHandler.ParsePlan)
	}

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(opts.JWTSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, ok := requireUser(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID})
		})

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)

		meals := protected.Group("/meals")
		{
			meals.GET("", mealHandler.ListMeals)
			meals.POST("", mealHandler.LogMeal)
			meals.GET("/summary", mealHandler.DailySummary)
			meals.DELETE("/:mealId", mealHandler.DeleteMeal)
		}

		plans := protected.Group("/plans")
		{
			plans.GET("", planHandler.ListPlans)
			plans.POST("", planHandler.CreatePlan)
			plans.GET("/active", planHandler.GetActivePlan)
			plans.POST("/upload", aiLimit, planHandler.UploadPlan)
			plans.POST("/import", planHandler.ImportPlan)
			plans.GET("/:planId", planHandler.GetPlan)
			plans.POST("/:planId/activate", planHandler.ActivatePlan)
			plans.DELETE("/:planId", planHandler.DeletePlan)
		}

		planned := protected.Group("/planned-workouts")
		{
			planned.GET("", workoutHandler.ListPlanned)
			planned.POST("", workoutHandler.CreatePlanned)
			planned.DELETE("/:workoutId", workoutHandler.DeletePlanned)
		}

		workouts := protected.Group("/workouts")
		{
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.POST("", workoutHandler.LogWorkout)
			workouts.GET("/stats", workoutHandler.WeeklyStats)
			workouts.PATCH("/:workoutId", workoutHandler.UpdateWorkout)
			workouts.DELETE("/:workoutId", workoutHandler.DeleteWorkout)
		}

		coach := protected.Group("/coach")
		{
			coach.GET("/session", coachHandler.GetSession)
			coach.POST("/messages", aiLimit, coachHandler.SendMessage)
			coach.DELETE("/session", coachHandler.ClearSession)
		}
	}
}
