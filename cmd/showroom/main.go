// Package main is the showroom CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/showroom/internal/assets"
	"github.com/hyperjump/showroom/internal/brochure"
	"github.com/hyperjump/showroom/internal/chat"
	"github.com/hyperjump/showroom/internal/config"
	"github.com/hyperjump/showroom/internal/inventory"
	"github.com/hyperjump/showroom/internal/models"
	"github.com/hyperjump/showroom/internal/server"
	"github.com/hyperjump/showroom/internal/storage"
	"github.com/hyperjump/showroom/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/showroom/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded (for watching, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "leads":
		runLeads()
	case "reindex":
		runReindex()
	case "version", "--version", "-v":
		fmt.Printf("showroom version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Storage,
		components.Index,
		components.Relay,
		components.Assets,
		&cfg.Server,
		cfg.Chat,
		logger,
	)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	watcher := config.NewWatcher(resolvedConfigPath, func(newCfg *config.Config) {
		srv.UpdateChatConfig(newCfg.Chat)
	}, logger)
	if err := watcher.Start(watchCtx); err != nil {
		logger.Warn("config watch unavailable", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runLeads() {
	fs := flag.NewFlagSet("leads", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	token := fs.String("token", "", "admin bearer token (if the server requires one)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	req, err := http.NewRequest(http.MethodGet, *serverURL+"/api/v1/appointments", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Leads failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var leads []*models.Appointment
	if err := json.NewDecoder(resp.Body).Decode(&leads); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(leads); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if len(leads) == 0 {
			fmt.Println("No leads yet.")
			return
		}
		for _, lead := range leads {
			fmt.Printf("%s  %-10s %-20s %-16s %s\n", lead.Date, lead.Status, lead.Name, lead.Phone, lead.Model)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func runReindex() {
	fs := flag.NewFlagSet("reindex", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	idx, err := inventory.NewIndex(cfg.Storage.IndexPath)
	if err != nil {
		fmt.Printf("Failed to open index: %v\n", err)
		os.Exit(1)
	}
	defer idx.Close()

	ctx := context.Background()
	cars, err := store.ListCars(ctx)
	if err != nil {
		fmt.Printf("Failed to list cars: %v\n", err)
		os.Exit(1)
	}
	if err := idx.Rebuild(ctx, cars); err != nil {
		fmt.Printf("Reindex failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Indexed %d car(s)\n", len(cars))
}

// Components holds initialized services.
type Components struct {
	Storage storage.Storage
	Index   *inventory.Index
	Relay   *chat.Relay
	Assets  *assets.Store
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	idx, err := inventory.NewIndex(cfg.Storage.IndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize inventory index: %w", err)
	}
	cars, err := store.ListCars(context.Background())
	if err == nil {
		if err := idx.Rebuild(context.Background(), cars); err != nil {
			logger.Warn("inventory index rebuild failed", zap.Error(err))
		}
	}

	assetStore, err := assets.NewStore(cfg.Storage.AssetsDir, cfg.Server.BaseURL)
	if err != nil {
		_ = store.Close()
		_ = idx.Close()
		return nil, fmt.Errorf("failed to initialize asset store: %w", err)
	}

	// The relay stays nil without an API key; chat requests then return a
	// configuration error while the rest of the storefront keeps working.
	var relay *chat.Relay
	if apiKey := cfg.Chat.APIKey(); apiKey != "" {
		gen, err := chat.NewGenAIGenerator(context.Background(), apiKey, cfg.Chat.Model)
		if err != nil {
			_ = store.Close()
			_ = idx.Close()
			return nil, fmt.Errorf("failed to initialize model client: %w", err)
		}
		fetcher := brochure.NewFetcher(time.Duration(cfg.Chat.FetchTimeoutSeconds) * time.Second)
		relay = chat.NewRelay(gen, fetcher, chat.Options{
			PromptTemplate: cfg.Chat.PromptTemplate,
			BrochureMode:   cfg.Chat.BrochureMode,
		}, logger)
	} else {
		logger.Warn("chat relay disabled: model provider API key is not set",
			zap.String("env", cfg.Chat.APIKeyEnv))
	}

	return &Components{
		Storage: store,
		Index:   idx,
		Relay:   relay,
		Assets:  assetStore,
	}, nil
}

func printUsage() {
	fmt.Println(`showroom - digital storefront server

Usage:
  showroom server [flags]    Start the HTTP server
  showroom leads [flags]     List appointment leads via the HTTP API
  showroom reindex [flags]   Rebuild the inventory search index
  showroom version           Show version
  showroom help              Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/showroom/config.yaml)
  --debug            Enable debug logging

Leads Flags:
  --server string    Server URL (default: http://localhost:8080)
  --token string     Admin bearer token (if the server requires one)
  --output string    Output format: text or json (default: text)

Reindex Flags:
  --config string    Config file path

Examples:
  showroom server
  showroom leads
  showroom leads --output json
  showroom reindex`)
}
