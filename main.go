package main

import (
	"flag"
	"log/slog"
	"time"

	"WhatsEase/bot"
	"WhatsEase/impl/core"
	"WhatsEase/internal/config"
	repository "WhatsEase/internal/database"
	"WhatsEase/internal/http-server/api"
	"WhatsEase/internal/lib/logger"
	"WhatsEase/internal/lib/sl"
	authservice "WhatsEase/internal/service/auth"
	botservice "WhatsEase/internal/service/bot"
	chatservice "WhatsEase/internal/service/chat"
	"WhatsEase/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Telegram alerting is optional; without it the logger stays as is.
	if conf.Telegram.Enabled {
		tgBot, err := bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting whatsease", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.Error("mongo client", sl.Err(err))
		return
	}
	lg.With(
		slog.String("host", conf.Mongo.Host),
		slog.String("port", conf.Mongo.Port),
		slog.String("database", conf.Mongo.Database),
	).Info("mongo client initialized")

	authService := authservice.NewAuthService(lg, time.Duration(conf.Auth.TokenTTLHours)*time.Hour)
	authService.SetRepository(db)

	responder := botservice.NewResponder(conf.Bot.Name)

	registry := ws.NewRegistry()
	hub := ws.NewHub(lg, registry)
	go hub.Run()

	chatService := chatservice.NewService(db, registry, hub, responder, conf.Bot.Identifier, lg)

	handler := core.New(lg, conf.Bot.Identifier)
	handler.SetRepository(db)
	handler.SetAuthService(authService)
	handler.SetChatService(chatService)
	hub.SetHandler(handler)

	lg.With(
		slog.String("bot", conf.Bot.Identifier),
	).Info("chat service initialized")

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub, authService)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
