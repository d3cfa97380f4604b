package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/graphrapids/graphsettings/internal/api"
	"github.com/graphrapids/graphsettings/internal/config"
	"github.com/graphrapids/graphsettings/internal/provider"
	"github.com/graphrapids/graphsettings/internal/scoped"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Printf("graphsettings-console %s (commit: %s, built: %s)\n", version, commit, date)
			os.Exit(0)
		}
	}

	cfg := config.Parse()

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		})
	}

	if cfg.APIToken == "" {
		log.Printf("no API token configured; requests go out unauthenticated")
	} else if warning := config.TokenWarning(cfg.APIToken, time.Now()); warning != "" {
		log.Printf("WARNING: %s", warning)
	}

	client := scoped.NewClient(cfg.APIURL, cfg.APIToken, scoped.ClientOptions{Insecure: cfg.Insecure})
	adapter := scoped.NewAdapter(client, scoped.FullCapabilities())

	server := &api.Server{
		Provider: provider.New(adapter),
		Events:   api.NewEventHub(),
	}

	log.Printf("Graph Settings Console %s starting on %s (backend: %s)", version, cfg.Listen, cfg.APIURL)
	if err := http.ListenAndServe(cfg.Listen, api.NewRouter(server)); err != nil {
		log.Fatal(err)
	}
}
