package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"doctor-assistant/internal/agent"
	"doctor-assistant/internal/config"
	"doctor-assistant/internal/consultation"
	"doctor-assistant/internal/medicine"
	"doctor-assistant/internal/platform/telegram"
	"doctor-assistant/internal/report"
	"doctor-assistant/internal/taxonomy"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	}

	// 1. Infrastructure
	var db *sql.DB
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", cfg.Database.URL)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			break
		}
		log.Infof("Waiting for DB... (%d/10)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		// The matcher degrades to fallback synthesis without a medicine
		// table, so a missing DB is not fatal.
		log.Warnf("Could not connect to DB: %v. Continuing without medicine lookups.", err)
		db = nil
	} else {
		log.Info("Connected to database")
		m, err := migrate.New("file://"+cfg.Database.MigrationsPath, cfg.Database.URL)
		if err != nil {
			log.Warnf("Migration init failed: %v", err)
		} else if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Warnf("Migration up failed: %v", err)
		} else {
			log.Info("Migrations applied")
		}
	}

	// 2. Shared domain state and clients
	tax := taxonomy.New()
	catalog := taxonomy.NewCatalog(tax)

	lookup, err := medicine.NewPostgresLookup(db)
	if err != nil {
		log.Fatalf("failed to construct medicine lookup: %v", err)
	}
	matcher := medicine.NewMatcher(tax, lookup, log)

	generator := agent.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	var reportSvc consultation.ReportService
	if cfg.Telegram.BotToken != "" && cfg.Telegram.DoctorChatID != 0 {
		tgClient := telegram.NewClient(cfg.Telegram.BotToken)
		reportSvc = report.NewService(tgClient, cfg.Telegram.DoctorChatID, log)
	} else {
		log.Warn("Telegram bot token or doctor chat ID not set; doctor reports disabled")
	}

	// 3. Services
	store := consultation.NewStore()
	svc := consultation.NewService(store, tax, catalog, matcher, generator, reportSvc, log)
	handler := consultation.NewHandler(svc)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for the web frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			if r.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		consultation.RegisterRoutes(r, handler)
	})

	log.Infof("Server starting on port %s...", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, r); err != nil {
		log.Fatal(err)
	}
}
