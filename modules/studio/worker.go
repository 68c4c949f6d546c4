package studio

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/common/redis"
)

// JobRef encodes a queued job as "sessionID|jobID". Only the reference
// travels through Redis; payloads stay in process memory.
func JobRef(job *Job) string {
	return job.SessionID + "|" + job.ID
}

func parseJobRef(ref string) (sessionID, jobID string, err error) {
	parts := strings.SplitN(ref, "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed job ref: %q", ref)
	}
	return parts[0], parts[1], nil
}

// StartWorker watches the job queue and processes entries as they
// arrive. Blocks forever; run it in a goroutine.
func (c *Controller) StartWorker(rdb *goredis.Client) {
	log.Printf("👀 Watching queue: %s", redis.QueueKey)

	ctx := context.Background()

	for {
		result, err := rdb.BRPop(ctx, 0, redis.QueueKey).Result()
		if err != nil {
			log.Printf("❌ Redis BRPOP error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		// result[0] is the queue key, result[1] the job ref
		ref := result[1]
		log.Printf("🎯 Received new job: %s", ref)

		sessionID, jobID, err := parseJobRef(ref)
		if err != nil {
			log.Printf("⚠️ Dropping %v", err)
			continue
		}

		job, err := c.ResolveJob(sessionID, jobID)
		if err != nil {
			log.Printf("⚠️ Dropping job %s: %v", ref, err)
			continue
		}

		go c.ProcessJob(ctx, job)
	}
}
