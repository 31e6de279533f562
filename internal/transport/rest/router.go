package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"showdown/internal/service"
	"showdown/internal/transport/rest/handler"
	"showdown/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	GameService *service.GameService
	WSHub       *ws.Hub
	Logger      *slog.Logger

	// CORSAllowedOrigins is the Access-Control-Allow-Origin value,
	// "*" by default.
	CORSAllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(c.GameService)
	leaderboardHandler := handler.NewLeaderboardHandler(c.GameService)
	wsHandler := ws.NewHandler(c.WSHub, c.GameService, c.Logger)

	r.Use(corsMiddleware(c.CORSAllowedOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/join", roomHandler.Join).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/code/{code}", roomHandler.GetByCode).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{roomId}", roomHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{roomId}/ready", roomHandler.Ready).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{roomId}/start", roomHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{roomId}/answer", roomHandler.Answer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{roomId}/leave", roomHandler.Leave).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{roomId}/reset", roomHandler.Reset).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{roomId}/stats", roomHandler.Stats).Methods("GET", "OPTIONS")
	v1.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods("GET", "OPTIONS")

	// Live updates (WebSocket)
	v1.HandleFunc("/ws/rooms/{roomId}", wsHandler.Events).Methods("GET")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
