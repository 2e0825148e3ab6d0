package router

import (
	"gorm.io/gorm"

	"agriverse/config"
	advisorRepo "agriverse/pkg/advisor/repositoryImp"
	advisorSvc "agriverse/pkg/advisor/serviceImp"
	"agriverse/pkg/ai"
	"agriverse/pkg/auth"
	authRepo "agriverse/pkg/auth/repositoryImp"
	authSvc "agriverse/pkg/auth/serviceImp"
	"agriverse/pkg/blob"
	cycleRepo "agriverse/pkg/cycle/repositoryImp"
	cycleSvc "agriverse/pkg/cycle/serviceImp"
	diseaseRepo "agriverse/pkg/disease/repositoryImp"
	diseaseSvc "agriverse/pkg/disease/serviceImp"
	growthRepo "agriverse/pkg/growth/repositoryImp"
	growthSvc "agriverse/pkg/growth/serviceImp"
	kbRepo "agriverse/pkg/kb/repositoryImp"
	kbSvc "agriverse/pkg/kb/serviceImp"
	landRepo "agriverse/pkg/land/repositoryImp"
	landSvc "agriverse/pkg/land/serviceImp"
	"agriverse/pkg/logger"
	productRepo "agriverse/pkg/product/repositoryImp"
	productSvc "agriverse/pkg/product/serviceImp"
	"agriverse/pkg/schedule/generator"
	schedRepo "agriverse/pkg/schedule/repositoryImp"
	schedSvc "agriverse/pkg/schedule/serviceImp"
	"agriverse/pkg/suggest"
	"agriverse/pkg/weather"

	advisorCtrl "agriverse/pkg/advisor/controllerImp"
	authCtrl "agriverse/pkg/auth/controllerImp"
	cycleCtrl "agriverse/pkg/cycle/controllerImp"
	diseaseCtrl "agriverse/pkg/disease/controllerImp"
	growthCtrl "agriverse/pkg/growth/controllerImp"
	healthCtrl "agriverse/pkg/health/controllerImp"
	kbCtrl "agriverse/pkg/kb/controllerImp"
	landCtrl "agriverse/pkg/land/controllerImp"
	productCtrl "agriverse/pkg/product/controllerImp"
	schedCtrl "agriverse/pkg/schedule/controllerImp"
	suggestCtrl "agriverse/pkg/suggest/controllerImp"
	weatherCtrl "agriverse/pkg/weather/controllerImp"
)

// Deps are the process-wide collaborators built once at startup.
type Deps struct {
	DB       *gorm.DB
	LLM      ai.Client
	Weather  *weather.Client
	Store    blob.Store // nil disables photo uploads
	Template []generator.Task
	Tokens   *auth.TokenIssuer
	Checks   map[string]healthCtrl.Check
	Log      *logger.Logger
}

// Wire builds every repository, service and controller over d.
func Wire(cfg config.AppConfig, d Deps) Handlers {
	lands := landRepo.New(d.DB)
	schedules := schedRepo.New(d.DB)

	kb := kbSvc.New(kbRepo.New(d.DB), cfg, d.Log)
	gen := generator.New(d.LLM, kb, d.Template, d.Log)
	crops := suggest.New(d.LLM, d.Weather, suggest.DefaultTable(), d.Log)

	return Handlers{
		Auth:     authCtrl.New(authSvc.NewAuthService(authRepo.New(d.DB), d.Tokens, d.Log)),
		Land:     landCtrl.New(landSvc.NewLandService(lands)),
		Weather:  weatherCtrl.New(d.Weather),
		Suggest:  suggestCtrl.New(crops),
		Schedule: schedCtrl.New(schedSvc.NewScheduleService(schedules, lands, d.Weather, gen, d.Log)),
		Cycle:    cycleCtrl.New(cycleSvc.NewCycleService(cycleRepo.New(d.DB), lands, d.Weather, gen, d.Log)),
		Growth: growthCtrl.New(growthSvc.NewGrowthService(growthRepo.New(d.DB), schedules, lands,
			d.Weather, d.LLM, d.Store, d.Log)),
		Disease: diseaseCtrl.New(diseaseSvc.NewDiseaseService(diseaseRepo.New(d.DB), lands, d.LLM, d.Store, d.Log)),
		Advisor: advisorCtrl.New(advisorSvc.NewAdvisorService(advisorRepo.New(d.DB), lands, schedules,
			d.Weather, d.LLM, kb, crops, d.Log)),
		Product: productCtrl.New(productSvc.NewProductService(productRepo.New(d.DB), d.Log)),
		KB:      kbCtrl.New(kb),
		Health:  healthCtrl.NewHealthCtrl(d.DB, d.Checks),
	}
}
