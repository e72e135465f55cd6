// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"

	"github.com/tahcohcat/vocalize/config"
	"github.com/tahcohcat/vocalize/internal/api"
	"github.com/tahcohcat/vocalize/internal/audio"
	"github.com/tahcohcat/vocalize/internal/history"
	"github.com/tahcohcat/vocalize/internal/logger"
	"github.com/tahcohcat/vocalize/internal/studio"
	"github.com/tahcohcat/vocalize/internal/tts"
	"github.com/tahcohcat/vocalize/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %s", err)
	}
	logger.SetGlobalLevel(cfg.Log.Level)

	synth, err := tts.NewSynthesizer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize speech provider: %v", err)
	}

	store, err := history.NewStore()
	if err != nil {
		log.Fatalf("Failed to initialize history store: %v", err)
	}
	defer store.Close()

	player := audio.NewPlayer()

	hub := websocket.NewHub()
	go hub.Run()

	st := studio.New(synth, player, store, hub)

	cookieStore := sessions.NewCookieStore([]byte(cfg.Server.SessionSecret))

	r := mux.NewRouter()

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	api.RegisterRoutes(apiRouter, st, cookieStore)

	hub.RegisterRoutes(r)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("./web/static/"))))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./web/templates/index.html")
	}).Methods("GET")

	// CORS setup for development
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	log.Printf("🎙️ Vocalize studio starting on port %s", port)
	log.Printf("📍 Open http://localhost:%s in your browser", port)
	log.Printf("🗣️ Speech provider: %s", synth.Name())

	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
