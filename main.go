package main

import (
	"log"

	"github.com/Speshl/gorrc_subaru/internal/app"
	"github.com/Speshl/gorrc_subaru/internal/config"
	"github.com/Speshl/gorrc_subaru/internal/logging"
)

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatalf("failed loading config: %s", err.Error())
	}

	logCloser := logging.Init(cfg.LogCfg)
	defer logCloser.Close()

	app, err := app.NewApp(cfg)
	if err != nil {
		log.Printf("failed starting: %s", err.Error())
		return
	}

	err = app.Start()
	if err != nil {
		log.Printf("controller shutdown with error: %s", err.Error())
	} else {
		log.Println("controller shutdown successfully")
	}
}
