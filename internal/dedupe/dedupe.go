// Package dedupe keeps a ledger of extracted-text digests so a document that
// was already handed to the ingestion tool is not handed over again.
package dedupe

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// ledgerKey is the redis set holding every recorded digest.
const ledgerKey = "pdfpipe:digests"

// Ledger records which extracted texts have already been ingested.
type Ledger interface {
	Seen(ctx context.Context, digest string) (bool, error)
	Record(ctx context.Context, digest string) error
}

// RedisLedger stores digests in a redis set.
type RedisLedger struct {
	client *redis.Client
}

// NewRedisLedger connects to redis and probes it. When redis is unreachable
// it returns nil so the pipeline runs without duplicate detection.
func NewRedisLedger(addr, password string, db int) *RedisLedger {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Warning: failed to connect to Redis: %v", err)
		log.Println("Pipeline will run without duplicate detection")
		return nil
	}
	return &RedisLedger{client: client}
}

func (l *RedisLedger) Seen(ctx context.Context, digest string) (bool, error) {
	return l.client.SIsMember(ctx, ledgerKey, digest).Result()
}

func (l *RedisLedger) Record(ctx context.Context, digest string) error {
	return l.client.SAdd(ctx, ledgerKey, digest).Err()
}

// HashFile returns the hex SHA-512 digest of the file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha512.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
