package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/common/config"
)

// QueueKey is the list generation jobs travel through. Only job/session
// IDs are queued; payloads stay in process memory.
const QueueKey = "studio:jobs"

// Connect - Redis 연결 생성
func Connect(cfg *config.Config) *redis.Client {
	log.Printf("🔌 Connecting to Redis: %s", cfg.GetRedisAddr())

	var tlsConfig *tls.Config
	if cfg.RedisUseTLS {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, // managed Redis with self-signed certs
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		TLSConfig:    tlsConfig,
		DB:           0,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Printf("🔍 Testing Redis connection...")
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Redis ping failed: %v", err)
		return nil
	}

	return rdb
}

// EnqueueJob pushes a job reference onto the queue and returns its position.
func EnqueueJob(ctx context.Context, rdb *redis.Client, jobRef string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := rdb.LPush(ctx, QueueKey, jobRef).Result(); err != nil {
		return 0, fmt.Errorf("failed to enqueue job: %w", err)
	}

	queueLen, _ := rdb.LLen(ctx, QueueKey).Result()
	log.Printf("✅ Job %s enqueued successfully (position: %d)", jobRef, queueLen)
	return queueLen, nil
}
