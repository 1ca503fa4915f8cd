package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/romdeck/romdeck/internal/config"
	"github.com/romdeck/romdeck/internal/domain"
	"github.com/romdeck/romdeck/internal/gallery"
	"github.com/romdeck/romdeck/internal/log"
	"github.com/romdeck/romdeck/internal/romm"
	"github.com/romdeck/romdeck/internal/session"
	"github.com/romdeck/romdeck/internal/store"
	"github.com/romdeck/romdeck/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("romdeck %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting romdeck", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	client := romm.NewClient(cfg.Server.URL, cfg.Server.Token, logger)
	scanner := romm.NewScanSocket(cfg.Server.URL, cfg.Server.Token, logger)

	localStore, err := store.Open(config.GetCachePath(), cfg.Server.URL)
	if err != nil {
		// A missing local tier degrades capability, never startup.
		logger.Warn("local store unavailable", "error", err)
		localStore, _ = store.Open("", "")
	}
	defer localStore.Close()

	notifier := tui.NewProgramNotifier()
	launcher := session.NewLauncher(cfg.Emulator.Command, cfg.Emulator.Args, logger)

	prompterSaves := tui.NewDirPrompter(cfg.Emulator.DownloadDir, "*.srm")
	prompterStates := tui.NewDirPrompter(cfg.Emulator.DownloadDir, "*.state*")
	exporter := tui.NewDirExporter(cfg.Emulator.DownloadDir)

	saves := session.NewMediator(domain.AssetSave, client, localStore, notifier, prompterSaves, exporter, logger)
	states := session.NewMediator(domain.AssetState, client, localStore, notifier, prompterStates, exporter, logger)
	sess := session.NewSession(saves, states, cfg.Preferences.AutoLoadState, logger)

	ctrl := gallery.NewController(client, localStore, notifier, cfg.Preferences.PageSize, logger)

	model := tui.NewModel(client, ctrl, sess, launcher, scanner, cfg.Emulator.DownloadDir)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	notifier.Attach(p)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	sess.End()
	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to romdeck!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	var serverURL, token string
	for {
		fmt.Print("Enter your server URL (e.g., http://192.168.1.100:8080): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimRight(strings.TrimSpace(input), "/")
		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		fmt.Print("Enter your API token: ")
		tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
		if token == "" {
			fmt.Println("Token cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		if err := verifyServer(serverURL, token, logger); err != nil {
			fmt.Printf("✗ Could not reach the server: %v\n", err)
			fmt.Println("Please check the URL and token and try again.")
			fmt.Println()
			continue
		}
		break
	}

	cfg.Server.URL = serverURL
	cfg.Server.Token = token

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run romdeck again to start the application.")

	return nil
}

// verifyServer checks the credentials with a platform listing
func verifyServer(serverURL, token string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := romm.NewClient(serverURL, token, logger)
	platforms, err := client.GetPlatforms(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Connected, %d platforms found\n", len(platforms))
	return nil
}
