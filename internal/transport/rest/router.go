package rest

import (
	"aperturelab/internal/config"
	"aperturelab/internal/platform/logger"
	"aperturelab/internal/service"
	"aperturelab/internal/transport/rest/handler"
	"aperturelab/internal/transport/rest/middleware"
	"aperturelab/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	CatalogService *service.CatalogService
	LessonService  *service.LessonService
	QuizService    *service.QuizService
	WSHub          *ws.Hub
	CORS           config.CORS
	Logger         *logger.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(c.LessonService)
	catalogHandler := handler.NewCatalogHandler(c.CatalogService)
	lessonHandler := handler.NewLessonHandler(c.LessonService)
	quizHandler := handler.NewQuizHandler(c.QuizService)
	progressHandler := handler.NewProgressHandler(c.LessonService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, log)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))
	r.Use(middleware.RequestLogger(log))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/topics", catalogHandler.ListTopics).Methods("GET", "OPTIONS")
	v1.HandleFunc("/topics/{topicId}", catalogHandler.GetTopic).Methods("GET", "OPTIONS")
	v1.HandleFunc("/settings/ranges", catalogHandler.Ranges).Methods("GET", "OPTIONS")
	v1.HandleFunc("/effects", catalogHandler.Effects).Methods("GET", "OPTIONS")
	v1.HandleFunc("/effects/snap", catalogHandler.Snap).Methods("GET", "OPTIONS")
	v1.HandleFunc("/docs/doc.json", handler.DocJSON).Methods("GET")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/learner", wsHandler.LearnerWS).Methods("GET")

	// Learner routes (require learner token)
	learnerRoutes := v1.NewRoute().Subrouter()
	learnerRoutes.Use(authMW.RequireLearner)

	learnerRoutes.HandleFunc("/lesson", lessonHandler.Get).Methods("GET", "OPTIONS")
	learnerRoutes.HandleFunc("/lesson/advance", lessonHandler.Advance).Methods("POST", "OPTIONS")
	learnerRoutes.HandleFunc("/lesson/previous", lessonHandler.Previous).Methods("POST", "OPTIONS")
	learnerRoutes.HandleFunc("/lesson/topics/{topicIndex}/jump", lessonHandler.JumpToTopic).Methods("POST", "OPTIONS")
	learnerRoutes.HandleFunc("/lesson/quickcheck/select", lessonHandler.SelectOption).Methods("POST", "OPTIONS")
	learnerRoutes.HandleFunc("/lesson/quickcheck/reveal", lessonHandler.Reveal).Methods("POST", "OPTIONS")

	learnerRoutes.HandleFunc("/quiz/{flavor}", quizHandler.Get).Methods("GET", "OPTIONS")
	learnerRoutes.HandleFunc("/quiz/{flavor}/answers", quizHandler.Submit).Methods("POST", "OPTIONS")
	learnerRoutes.HandleFunc("/quiz/{flavor}/continue", quizHandler.Continue).Methods("POST", "OPTIONS")
	learnerRoutes.HandleFunc("/quiz/{flavor}/previous", quizHandler.Previous).Methods("POST", "OPTIONS")
	learnerRoutes.HandleFunc("/quiz/{flavor}/restart", quizHandler.Restart).Methods("POST", "OPTIONS")
	learnerRoutes.HandleFunc("/quiz/{flavor}/hint", quizHandler.Hint).Methods("GET", "OPTIONS")
	learnerRoutes.HandleFunc("/quiz/{flavor}/history", quizHandler.History).Methods("GET", "OPTIONS")

	learnerRoutes.HandleFunc("/progress/flag", progressHandler.GetFlag).Methods("GET", "OPTIONS")
	learnerRoutes.HandleFunc("/progress/flag", progressHandler.DeleteFlag).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(cors config.CORS) mux.MiddlewareFunc {
	origins := valueOr(cors.Origins, "*")
	methods := valueOr(cors.Methods, "GET, POST, PUT, DELETE, OPTIONS")
	headers := valueOr(cors.Headers, "Content-Type, Authorization")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origins)
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
