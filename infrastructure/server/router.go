package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the REST query surface and the WebSocket endpoint.
func NewRouter(chat *ChatHandler, authHandler *AuthHandler, ws *WSHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
	})

	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/send", chat.Send)
		r.Post("/conversations", chat.CreateConversation)
		r.Get("/conversations/user/{userID}", chat.ListConversations)
		r.Get("/conversations/waiting", chat.ListWaiting)
		r.Get("/conversations/{conversationID}/messages", chat.History)
		r.Put("/conversations/{conversationID}/assign", chat.Assign)
		r.Put("/conversations/{conversationID}/close", chat.Close)
		r.Get("/online-users", chat.OnlineUsers)
		r.Get("/ws", ws.Handle)
	})

	return r
}
