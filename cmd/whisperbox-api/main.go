package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/whisperbox-dev/whisperbox/internal/config"
	"github.com/whisperbox-dev/whisperbox/internal/logger"
	"github.com/whisperbox-dev/whisperbox/internal/router"
	"github.com/whisperbox-dev/whisperbox/internal/setup"
)

func main() {
	log.SetFlags(log.Lshortfile)

	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()
	cfg := config.MustLoad(configFolder)

	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer deps.Storage.Cleanup()

	r := router.New(deps)

	logger.Log.Info("Server started")
	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	log.Fatal(http.ListenAndServe(":"+httpPort, r))
}
