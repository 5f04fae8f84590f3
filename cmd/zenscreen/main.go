package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zenscreen/zenscreen/internal/app"
	"github.com/zenscreen/zenscreen/internal/client"
	"github.com/zenscreen/zenscreen/internal/config"
	"github.com/zenscreen/zenscreen/internal/session"
)

func main() {
	configPath := flag.String("config", "", "Path to the config file (YAML)")
	debugLog := flag.String("log", "", "Write debug logs to this file")
	flag.Parse()

	if *debugLog != "" {
		f, err := tea.LogToFile(*debugLog, "zenscreen")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(os.Stderr)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	persist := session.NewFileStore(cfg.State.Dir)

	var sync *client.SyncClient
	var watch *client.WatchClient
	if cfg.Sync.BaseURL != "" {
		sync = client.NewSyncClient(cfg.Sync.BaseURL, cfg.Sync.Token)
		if cfg.Sync.WatchURL != "" {
			watch = client.NewWatchClient(cfg.Sync.WatchURL, cfg.Sync.Token)
			defer watch.Close()
		}
	}

	var remote session.RemoteSaver
	if sync != nil {
		remote = sync
	}
	store, err := session.NewStore(persist, remote, cfg.State.SaveDebounce)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		os.Exit(1)
	}

	// Prefer the remote copy at startup when one exists.
	if sync != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if doc, err := sync.Load(ctx, session.LocalUserID); err != nil {
			log.Printf("remote profile unavailable, using local copy: %v", err)
		} else if doc != nil {
			store.ReplaceState(doc)
		}
		cancel()
	}

	gen := client.NewGenerator(context.Background(), cfg.Content.APIKey, cfg.Content.Model)

	m := app.New(store, watch, gen)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, runErr := p.Run()

	// Write out anything still behind the debounce timer.
	store.Flush()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
