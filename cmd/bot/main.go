package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"cf-zone-bot/external_resource/cloudflare"
	"cf-zone-bot/internal/handler"
	"cf-zone-bot/internal/handler/telegram"
	"cf-zone-bot/internal/repository"
	"cf-zone-bot/internal/usecase"
	"cf-zone-bot/pkg/config"
	"cf-zone-bot/pkg/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
)

// WebhookServer serves the Telegram webhook endpoint
type WebhookServer struct {
	server  *http.Server
	addr    string
	running bool
	mu      sync.RWMutex
}

// NewWebhookServer creates the HTTP server Telegram will post updates to
func NewWebhookServer(addr string, bot *telegram.Bot) *WebhookServer {
	router := mux.NewRouter()
	router.HandleFunc("/webhook", bot.WebhookHandler()).Methods(http.MethodPost)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)

	return &WebhookServer{
		server: &http.Server{Addr: addr, Handler: router},
		addr:   addr,
	}
}

// Start starts serving in the background
func (s *WebhookServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}
	s.running = true

	go func() {
		log.Printf("[Webhook] Listening on %s", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[Webhook] Server error: %v", err)
		}
	}()

	return nil
}

// Stop stops the webhook server
func (s *WebhookServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("server is not running")
	}

	if err := s.server.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.running = false
	log.Println("[Webhook] Server stopped")
	return nil
}

// IsRunning returns whether the server is running
func (s *WebhookServer) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateBot(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Enabled: cfg.LogEnabled,
		Level:   logging.ParseLevel(cfg.LogLevel),
		Path:    cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logger.Close()

	// Initialize Cloudflare client
	var cfClient cloudflare.Client
	if cfg.UseAPIToken() {
		cfClient, err = cloudflare.NewClient(cfg.CloudflareAPIToken, logger)
	} else {
		cfClient, err = cloudflare.NewClientWithKey(cfg.CloudflareAPIKey, cfg.CloudflareEmail, logger)
	}
	if err != nil {
		log.Fatalf("Failed to create Cloudflare client: %v", err)
	}

	// Test Cloudflare connection
	ctx := context.Background()
	zones, err := cfClient.ListZones(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to Cloudflare: %v", err)
	}
	log.Printf("Connected to Cloudflare. Found %d zones.", len(zones))

	// Initialize repositories
	zoneRepo := repository.NewZoneRepository(cfClient)
	dnsRepo := repository.NewDNSRepository(cfClient)
	firewallRepo := repository.NewFirewallRepository(cfClient)
	redirectRepo := repository.NewRedirectRepository(cfClient)

	// Initialize usecases
	uc := telegram.Usecases{
		Zones:     usecase.NewZoneUsecase(zoneRepo, logger),
		Records:   usecase.NewDNSUsecase(zoneRepo, dnsRepo, logger),
		Firewall:  usecase.NewFirewallUsecase(firewallRepo, logger),
		Redirects: usecase.NewRedirectUsecase(redirectRepo, logger),
	}

	// Initialize Telegram transport
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram client: %v", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	transport := telegram.NewTransport(api, logger)
	bot := telegram.NewBot(transport, uc, cfg.PageSize, cfg.WebhookURL, logger)

	// The server must be listening before Telegram starts delivering
	server := NewWebhookServer(cfg.ListenAddr, bot)
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start webhook server: %v", err)
	}

	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to register webhook: %v", err)
	}
	log.Printf("Webhook registered at %s", cfg.WebhookURL)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Bot is running. Press Ctrl+C to stop.")
	<-sigChan

	log.Println("Shutting down...")

	if err := bot.Stop(); err != nil {
		log.Printf("Error removing webhook: %v", err)
	}
	if err := server.Stop(); err != nil {
		log.Printf("Error stopping webhook server: %v", err)
	}

	log.Println("Bot stopped.")
}

// ensure Bot implements handler.BotHandler
var _ handler.BotHandler = (*telegram.Bot)(nil)
