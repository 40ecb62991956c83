package handlers

import (
	"html/template"
	"net/http"

	"ttportal/internal/config"
	"ttportal/internal/db"
	"ttportal/internal/middleware"
	"ttportal/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	cfg           config.Config
	txRunner      db.TxRunner
	users         UserStore
	usage         UsageStore
	balances      BalanceStore
	recharges     RechargeStore
	monetaryPlans MonetaryPlanStore
	dataPlans     DataPlanStore
	agencies      AgencyStore
	questions     QuestionStore
	answers       AnswerStore
	forecasts     ForecastService
	locator       LocatorService
	hub           *websocket.Hub
	templates     map[string]*template.Template
}

func New(cfg config.Config, txRunner db.TxRunner, users UserStore, usage UsageStore, balances BalanceStore, recharges RechargeStore, monetaryPlans MonetaryPlanStore, dataPlans DataPlanStore, agencies AgencyStore, questions QuestionStore, answers AnswerStore, forecasts ForecastService, locator LocatorService, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:           cfg,
		txRunner:      txRunner,
		users:         users,
		usage:         usage,
		balances:      balances,
		recharges:     recharges,
		monetaryPlans: monetaryPlans,
		dataPlans:     dataPlans,
		agencies:      agencies,
		questions:     questions,
		answers:       answers,
		forecasts:     forecasts,
		locator:       locator,
		hub:           hub,
		templates:     parseTemplates(),
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// data-load API, fed by the operator's systems and the simulator
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.SessionSecret))
		r.Get("/users", h.ListUsers)
		r.Post("/users", h.CreateUsers)
		r.Delete("/users", h.DeleteAllUsers)
		r.Get("/users/{id}", h.GetUser)
		r.Delete("/users/{id}", h.DeleteUser)

		r.Get("/usageHistory", h.ListUsage)
		r.Post("/usageHistory", h.CreateUsage)
		r.Delete("/usageHistory", h.DeleteAllUsage)
		r.Get("/usageHistory/{id}", h.GetUsage)
		r.Delete("/usageHistory/{id}", h.DeleteUsage)
		r.Get("/usageHistory/user/{userId}", h.ListUsageByUser)

		r.Get("/balances", h.ListBalances)
		r.Post("/balances", h.CreateBalances)
		r.Delete("/balances", h.DeleteAllBalances)
		r.Get("/balances/{id}", h.GetBalance)
		r.Delete("/balances/{id}", h.DeleteBalance)
		r.Get("/balances/user/{userId}", h.GetBalanceByUser)
		r.Patch("/balances/user/{userId}", h.PatchBalanceByUser)

		r.Get("/recharges", h.ListRecharges)
		r.Post("/recharges", h.CreateRecharges)
		r.Delete("/recharges", h.DeleteAllRecharges)
		r.Get("/recharges/{id}", h.GetRecharge)
		r.Delete("/recharges/{id}", h.DeleteRecharge)
		r.Get("/recharges/user/{userId}", h.ListRechargesByUser)

		r.Get("/monetaryPlans", h.ListMonetaryPlans)
		r.Post("/monetaryPlans", h.CreateMonetaryPlans)
		r.Delete("/monetaryPlans", h.DeleteAllMonetaryPlans)
		r.Get("/monetaryPlans/{id}", h.GetMonetaryPlan)
		r.Delete("/monetaryPlans/{id}", h.DeleteMonetaryPlan)

		r.Get("/mobileDataPlans", h.ListDataPlans)
		r.Post("/mobileDataPlans", h.CreateDataPlans)
		r.Delete("/mobileDataPlans", h.DeleteAllDataPlans)
		r.Get("/mobileDataPlans/{id}", h.GetDataPlan)
		r.Delete("/mobileDataPlans/{id}", h.DeleteDataPlan)

		r.Get("/agencyLocations", h.ListAgencies)
		r.Post("/agencyLocations", h.CreateAgencies)
		r.Delete("/agencyLocations", h.DeleteAllAgencies)
		r.Get("/agencyLocations/{id}", h.GetAgency)
		r.Delete("/agencyLocations/{id}", h.DeleteAgency)

		r.Get("/questions", h.ListQuestions)
		r.Delete("/questions", h.DeleteAllQuestions)
		r.Delete("/questions/{id}", h.DeleteQuestion)
		r.Get("/questions/user/{userId}", h.ListQuestionsByUser)

		r.Get("/answers", h.ListAnswers)
		r.Delete("/answers", h.DeleteAllAnswers)
		r.Get("/answers/question/{questionId}", h.ListAnswersByQuestion)
		r.Get("/answers/user/{userId}", h.ListAnswersByUser)
	})

	// subscriber-facing pages
	router.Get("/login", h.LoginPage)
	router.Post("/login", h.Login)
	router.Get("/signup", h.SignupPage)
	router.Post("/signup", h.Signup)
	router.Get("/logout", h.Logout)

	session := middleware.Session(h.cfg.SessionSecret)
	router.Group(func(r chi.Router) {
		r.Use(session)
		r.Get("/", h.Home)
		r.Get("/subscriptions", h.Subscriptions)
		r.Get("/questions", h.QuestionsPage)
		r.Post("/questions", h.SubmitQuestion)
		r.Get("/question/{id}", h.QuestionThread)
		r.Post("/question/{id}", h.SubmitAnswer)
		r.Get("/find", h.FindAgencyPage)
		r.Post("/find", h.FindAgency)
		r.Get("/predict", h.PredictPage)
		r.Post("/predict", h.Predict)
		r.Get("/ws/balances", h.WSBalances)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
