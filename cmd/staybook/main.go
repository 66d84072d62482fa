package main

import (
	"log"
	"os"

	html "github.com/gofiber/template/html/v2"

	"staybook/internal/config"
	"staybook/internal/http/handlers"
	applog "staybook/internal/log"
	"staybook/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
			applog.Init(cfg.LogLevel)
		} else {
			defer f.Close()
			applog.Init(cfg.LogLevel, f)
		}
	} else {
		applog.Init(cfg.LogLevel)
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(true)

	deps := handlers.NewDeps(db, cfg)
	defer deps.Close()

	app := handlers.NewApp(cfg, deps, engine)
	applog.Logger.WithField("port", cfg.Port).Info("server.start")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
