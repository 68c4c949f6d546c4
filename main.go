package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/common/config"
	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/common/redis"
	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/gemini"
	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/keys"
	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/studio"
)

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "lumina-fashion-studio",
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	keyProvider := keys.NewEnvProvider(cfg.GeminiAPIKeys)
	generator := gemini.NewService(cfg, keyProvider)

	sessionManager := studio.NewSessionManager(cfg.SessionMaxAge, cfg.SessionIdleLimit)
	sessionManager.StartCleanupRoutine()

	controller := studio.NewController(sessionManager, generator)

	// Job dispatch: through Redis when configured, direct goroutine
	// otherwise. Either path ends in controller.ProcessJob.
	rdb := connectRedis(cfg)
	if rdb != nil {
		controller.SetDispatch(func(job *studio.Job) {
			if _, err := redis.EnqueueJob(context.Background(), rdb, studio.JobRef(job)); err != nil {
				log.Printf("⚠️ Enqueue failed, running job %s inline: %v", job.ID, err)
				go controller.ProcessJob(context.Background(), job)
			}
		})
		go controller.StartWorker(rdb)
	} else {
		log.Printf("ℹ️ Redis not configured, running jobs in-process")
		controller.SetDispatch(func(job *studio.Job) {
			go controller.ProcessJob(context.Background(), job)
		})
	}

	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ws", controller.HandleWebSocket)
	r.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionManager.MetricsSnapshot())
	}).Methods("GET")
	r.HandleFunc("/admin/cleanup", func(w http.ResponseWriter, _ *http.Request) {
		sessionManager.ForceCleanup()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "Cleanup completed"})
	}).Methods("POST")

	controller.RegisterRoutes(r)

	log.Printf("🚀 Lumina Fashion Studio Server starting on port %s", cfg.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost:%s/ws", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("📊 Metrics: http://localhost:%s/metrics", cfg.Port)
	log.Printf("🧹 Admin cleanup: http://localhost:%s/admin/cleanup", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func connectRedis(cfg *config.Config) *goredis.Client {
	if cfg.RedisHost == "" {
		return nil
	}
	return redis.Connect(cfg)
}
