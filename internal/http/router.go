package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"aprende/internal/handlers"
	"aprende/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService       service.ChatService
	VocabularyService service.VocabularyService
	DB                handlers.Pinger
	// WebSocket serves /ws and upgrade requests on other non-API paths. Nil disables it.
	WebSocket http.Handler
	// AllowedOrigins feeds the CORS middleware.
	AllowedOrigins []string
	// StaticDir holds the built web client. Empty disables static serving.
	StaticDir string
	// ShowErrorDetails adds error chains to chat 500 responses.
	ShowErrorDetails bool
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.AllowedOrigins))
	if deps.WebSocket != nil {
		r.Use(WebSocketUpgrade(deps.WebSocket))
	}

	chatHandler := handlers.NewChatHandler(deps.ChatService, deps.ShowErrorDetails)
	vocabularyHandler := handlers.NewVocabularyHandler(deps.VocabularyService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(MaxBodySize(MaxBodyBytes))

		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/vocabulary", func(r chi.Router) {
			r.Get("/", vocabularyHandler.List)
			r.Post("/", vocabularyHandler.Create)
			r.Delete("/{id}", vocabularyHandler.Delete)
			r.Post("/{id}/review", vocabularyHandler.Review)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/messages", chatHandler.Messages)
			r.Post("/send", chatHandler.Send)
		})
	})

	if deps.WebSocket != nil {
		r.Method(http.MethodGet, "/ws", deps.WebSocket)
	}

	if deps.StaticDir != "" {
		r.Handle("/*", spaHandler(deps.StaticDir))
	}

	return r
}
