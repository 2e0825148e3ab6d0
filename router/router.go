package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	advisorCtrl "agriverse/pkg/advisor/controllerImp"
	authCtrl "agriverse/pkg/auth/controllerImp"
	cycleCtrl "agriverse/pkg/cycle/controllerImp"
	diseaseCtrl "agriverse/pkg/disease/controllerImp"
	growthCtrl "agriverse/pkg/growth/controllerImp"
	healthCtrl "agriverse/pkg/health/controllerImp"
	kbCtrl "agriverse/pkg/kb/controllerImp"
	landCtrl "agriverse/pkg/land/controllerImp"
	"agriverse/pkg/logger"
	"agriverse/pkg/middleware"
	productCtrl "agriverse/pkg/product/controllerImp"
	schedCtrl "agriverse/pkg/schedule/controllerImp"
	suggestCtrl "agriverse/pkg/suggest/controllerImp"
	weatherCtrl "agriverse/pkg/weather/controllerImp"
)

type Handlers struct {
	Auth     *authCtrl.AuthCtrl
	Land     *landCtrl.LandCtrl
	Weather  *weatherCtrl.WeatherCtrl
	Suggest  *suggestCtrl.SuggestCtrl
	Schedule *schedCtrl.SchedCtrl
	Cycle    *cycleCtrl.CycleCtrl
	Growth   *growthCtrl.GrowthCtrl
	Disease  *diseaseCtrl.DiseaseCtrl
	Advisor  *advisorCtrl.AdvisorCtrl
	Product  *productCtrl.ProductCtrl
	KB       *kbCtrl.KBCtrl
	Health   *healthCtrl.HealthCtrl
}

type Options struct {
	Tokens      middleware.TokenParser
	CORSOrigins []string
	Log         *logger.Logger
}

func New(e *echo.Echo, h Handlers, o Options) *echo.Echo {
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: o.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(middleware.RequestLog(o.Log))

	e.GET("/health", h.Health.Health)

	api := e.Group("/api")
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.GET("/weather/:lat/:lng", h.Weather.Current)
	api.GET("/products", h.Product.List)
	api.GET("/products/:id", h.Product.Get)

	authed := api.Group("", middleware.JWT(o.Tokens))
	authed.GET("/profile", h.Auth.Profile)
	authed.POST("/crop-suggestions", h.Suggest.Suggest)

	authed.POST("/kb/ingest", h.KB.IngestText)
	authed.POST("/kb/ingest/url", h.KB.IngestURL)
	authed.GET("/kb/search", h.KB.Search)

	farm := authed.Group("", middleware.FarmerOnly())
	farm.POST("/lands", h.Land.Create)
	farm.GET("/lands", h.Land.List)
	farm.GET("/lands/:id", h.Land.Get)
	farm.PUT("/lands/:id", h.Land.Update)
	farm.DELETE("/lands/:id", h.Land.Delete)

	farm.POST("/generate-schedule", h.Schedule.Generate)
	farm.POST("/save-schedule", h.Schedule.Save)
	farm.GET("/check-existing-schedule", h.Schedule.CheckExisting)
	farm.GET("/crop-schedules/:id", h.Schedule.ListByLand)
	farm.GET("/crop-schedules/:id/complete", h.Schedule.Complete)
	farm.PUT("/crop-schedules/:id/task-action", h.Schedule.TaskAction)
	farm.GET("/crop-schedules/:id/export", h.Schedule.Export)
	farm.POST("/integrate-disease-tasks", h.Schedule.InjectDiseaseTasks)

	farm.POST("/cultivation-cycles", h.Cycle.Create)
	farm.GET("/cultivation-cycles/:id", h.Cycle.Get)
	farm.POST("/cultivation-cycles/:id/use-again", h.Cycle.UseAgain)
	farm.PUT("/cultivation-cycles/:id/status", h.Cycle.SetStatus)
	farm.PUT("/cultivation-cycles/:id/tasks/:task_id", h.Cycle.UpdateTask)
	farm.GET("/crop-planning-history/:id", h.Cycle.History)

	farm.GET("/growth-data/:id", h.Growth.View)
	farm.POST("/growth-data/:id/measurements", h.Growth.AddMeasurement)
	farm.POST("/analyze-growth-photo", h.Growth.AnalyzePhoto)
	farm.POST("/analyze-yield", h.Growth.AnalyzeYield)

	farm.POST("/detect-disease", h.Disease.Detect)
	farm.GET("/disease-reports", h.Disease.Reports)
	farm.POST("/disease-management-plan", h.Disease.ManagementPlan)

	farm.POST("/ai-farm-analysis", h.Advisor.FarmAnalysis)
	farm.POST("/ai-chat", h.Advisor.Chat)
	farm.POST("/plant-plan", h.Advisor.CreatePlantPlan)
	farm.GET("/plant-plans", h.Advisor.ListPlantPlans)

	farm.POST("/products", h.Product.Create)
	farm.GET("/my-products", h.Product.Mine)
	farm.PATCH("/products/:id", h.Product.Update)

	return e
}
