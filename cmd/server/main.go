package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"syllabuddy/api"
	"syllabuddy/handlers"
	"syllabuddy/internal/config"
	"syllabuddy/internal/database"
	"syllabuddy/services/accounts"
	"syllabuddy/services/calendarstore"
	"syllabuddy/services/events"
	"syllabuddy/services/extraction"
	"syllabuddy/services/notifier"
	"syllabuddy/services/threads"
	"syllabuddy/utils"
)

func main() {
	// A missing .env file is fine, the environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[server] config: %v", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   filepath.Join(cfg.DataDir, "logs", "server.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}))

	db, err := database.NewDB(database.Config{
		DatabasePath: filepath.Join(cfg.DataDir, "syllabuddy.db"),
	})
	if err != nil {
		log.Fatalf("[server] database: %v", err)
	}
	defer db.Close()

	conn := db.Connection()
	accountRepo := database.NewAccountRepository(conn)
	notifiedRepo := database.NewNotifiedRepository(conn)
	threadRepo := database.NewThreadRepository(conn)

	calendar, err := calendarstore.New(filepath.Join(cfg.DataDir, "calendars"))
	if err != nil {
		log.Fatalf("[server] calendar store: %v", err)
	}

	eventsService := events.NewService(accountRepo, calendar)

	local := notifier.NewLocalNotificationService()
	tracker := notifier.NewTracker(notifiedRepo, local)
	notifierService := notifier.NewService(accountRepo, calendar, tracker)

	accountsService := accounts.NewService(accountRepo, notifierService)
	threadsService := threads.NewService(threadRepo)

	extractor := extraction.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ExtractionModel, cfg.ExtractionTimeout)
	if !extractor.IsConfigured() {
		log.Printf("[server] OPENAI_API_KEY unset, syllabus extraction will use the regex scanner")
	}
	pipeline := extraction.NewPipeline(extractor, extraction.NewScanner(), eventsService, calendar)

	accountsHandler := handlers.NewAccountsHandler(accountsService)
	eventsHandler := handlers.NewEventsHandler(eventsService)
	syllabusHandler := handlers.NewSyllabusHandler(pipeline)
	notificationsHandler := handlers.NewNotificationsHandler(notifierService, local)
	threadsHandler := handlers.NewThreadsHandler(threadsService)

	r := utils.NewRouter()

	r.HandleFunc("/accounts", accountsHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/accounts/login", accountsHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{accountID}", accountsHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{accountID}/profile", accountsHandler.UpdateProfile).Methods(http.MethodPut)
	r.HandleFunc("/accounts/{accountID}/logout", accountsHandler.Logout).Methods(http.MethodPost)

	r.HandleFunc("/accounts/{accountID}/events", eventsHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{accountID}/events", eventsHandler.Add).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{accountID}/events", eventsHandler.Edit).Methods(http.MethodPut)
	r.HandleFunc("/accounts/{accountID}/events", eventsHandler.Delete).Methods(http.MethodDelete)

	// Each ingest call spends model quota, so it gets a low per-IP limit.
	ingestLimiter := api.NewIPRateLimiter(rate.Every(12*time.Second), 5)
	r.HandleFunc("/syllabus/ingest", api.RateLimitHandlerFunc(ingestLimiter, syllabusHandler.Ingest)).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{accountID}/syllabus/commit", syllabusHandler.Commit).Methods(http.MethodPost)

	r.HandleFunc("/notifications/check", notificationsHandler.Check).Methods(http.MethodPost)
	r.HandleFunc("/notifications/pending", notificationsHandler.Pending).Methods(http.MethodGet)

	r.HandleFunc("/threads", threadsHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/threads", threadsHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/threads/{threadID}", threadsHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/threads/{threadID}/replies", threadsHandler.Reply).Methods(http.MethodPost)

	log.Printf("[server] listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatalf("[server] listen: %v", err)
	}
}
