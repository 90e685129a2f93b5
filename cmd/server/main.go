package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mailroom/backend/internal/api/handler"
	"mailroom/backend/internal/chathub"
	"mailroom/backend/internal/config"
	"mailroom/backend/internal/history"
	"mailroom/backend/internal/mcptools"
	"mailroom/backend/internal/rooms"
)

func main() {
	log.Println("Starting Mailroom Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := history.NewFileStore(cfg.HistoryDir)
	if err != nil {
		log.Fatalf("Failed to open history store: %v", err)
	}

	conns := chathub.NewConnectionTable()
	registry := rooms.NewRegistry(conns)
	hub := chathub.NewHub()
	coordinator := chathub.NewCoordinator(store, registry, conns, hub)
	hub.SetCoordinator(coordinator)

	go hub.Run()

	tokens := handler.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)
	h := handler.NewHandler(hub, coordinator, tokens)

	r := gin.Default()
	r.GET("/ws", h.ServeWebSocket)
	r.GET("/rooms/:room_id/history", h.GetHistory)
	r.GET("/rooms/:room_id/status", h.GetStatus)

	mcpServer := mcptools.NewServer(coordinator, tokens)
	r.Any("/mcp", gin.WrapH(mcptools.HTTPHandler(mcpServer)))

	// No WriteTimeout: the MCP endpoint holds long-lived streaming
	// responses and websockets outlive any fixed deadline.
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	log.Printf("Listening on %s", cfg.Addr)
	log.Fatal(server.ListenAndServe())
}
