package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"supportbot/internal/api"
	"supportbot/internal/config"
	"supportbot/internal/db"
	"supportbot/internal/handlers"
	"supportbot/internal/mediagroup"
	"supportbot/internal/relay"
	"supportbot/internal/telegram_api"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	store, err := db.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Ошибка инициализации базы данных: %v", err)
	}
	defer store.Close()

	bot, err := telegram_api.InitBot(cfg.TelegramToken, cfg.AppEnv == "dev")
	if err != nil {
		log.Fatalf("Ошибка инициализации бота: %v", err)
	}

	engine := relay.NewEngine(bot, store, cfg.GroupChatID)

	albums := mediagroup.New(mediagroup.DefaultFlushDelay, mediagroup.DefaultMaxAge, store, func(b *mediagroup.Batch) {
		if err := engine.RelayAlbum(b); err != nil {
			log.Printf("Медиагруппа %s не переслана: %v", b.Key, err)
		}
	})

	botHandler := handlers.NewBotHandler(handlers.HandlerDependencies{
		Config: cfg,
		Bot:    bot,
		Store:  store,
		Engine: engine,
		Albums: albums,
	})

	// Служебный HTTP: healthcheck и статистика
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))
	api.SetupRoutes(router, api.ApiDependencies{Store: store})

	go func() {
		addr := ":" + cfg.HTTPPort
		log.Printf("HTTP сервер запущен на %s", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			log.Fatalf("HTTP сервер остановлен: %v", err)
		}
	}()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("🛑 Завершение работы...")
		bot.StopReceivingUpdates()
	}()

	log.Println("✅ Бот запущен, ожидание сообщений")
	for update := range updates {
		go botHandler.HandleMessage(update)
	}

	log.Println("🛑 Бот остановлен")
}
