package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"quivato_reviews/internal/adapters/observability"
	redisad "quivato_reviews/internal/adapters/redis"
	"quivato_reviews/internal/app"
	"quivato_reviews/internal/domain"
	"quivato_reviews/internal/shared"
	"quivato_reviews/internal/storage"
)

// record is one entry of the import file, in the same shape the API serves.
type record struct {
	Review              string  `json:"review"`
	ReviewerName        string  `json:"reviewer_name"`
	ReviewerDesignation string  `json:"reviewer_designation"`
	ReviewerImage       *string `json:"reviewer_image"`
}

func (r record) fields() (domain.ReviewFields, error) {
	if r.ReviewerImage != nil {
		if _, err := base64.StdEncoding.DecodeString(*r.ReviewerImage); err != nil {
			return domain.ReviewFields{}, domain.Invalid("reviewer_image", "not valid base64")
		}
	}
	return domain.ReviewFields{
		Text:        r.Review,
		Name:        r.ReviewerName,
		Designation: r.ReviewerDesignation,
		Image:       r.ReviewerImage,
	}, nil
}

func readRecords(src io.Reader) ([]record, error) {
	var rs []record
	if err := json.NewDecoder(src).Decode(&rs); err != nil {
		return nil, fmt.Errorf("decode import file: %w", err)
	}
	return rs, nil
}

// importAll creates every record with at most workers in flight and returns
// the number that failed.
func importAll(ctx context.Context, cmds *app.ReviewCommands, rs []record, workers int) int64 {
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for i, rec := range rs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			failed.Add(int64(len(rs) - i))
			break
		}
		wg.Add(1)
		go func(i int, rec record) {
			defer wg.Done()
			defer sem.Release(1)

			f, err := rec.fields()
			var id string
			if err == nil {
				id, err = cmds.Create(ctx, f)
			}
			if err != nil {
				failed.Add(1)
				log.Warn().Int("index", i).Err(err).Msg("import failed")
				return
			}
			log.Info().Int("index", i).Str("id", id).Msg("import ok")
		}(i, rec)
	}
	wg.Wait()
	return failed.Load()
}

func main() {
	cfg := shared.Load()
	path := flag.String("file", "reviews.json", "JSON array of reviews to import")
	workers := flag.Int("workers", cfg.EncodeWorkers, "concurrent inserts")
	flag.Parse()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("open import file")
	}
	rs, err := readRecords(f)
	_ = f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("read import file")
	}
	if *workers <= 0 {
		*workers = 1
	}
	log.Info().Str("file", *path).Int("records", len(rs)).Int("workers", *workers).Msg("seed starting")

	repo, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store connection failed")
	}

	// writes must still drop stale cached reads the API holds
	var cache domain.Cache = redisad.Nop{}
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	failed := importAll(ctx, app.NewReviewCommands(repo, cache), rs, *workers)
	if err := closeStore(context.Background()); err != nil {
		log.Warn().Err(err).Msg("store close failed")
	}
	if failed > 0 {
		log.Error().Int64("failed", failed).Int("records", len(rs)).Msg("seed completed with failures")
		os.Exit(1)
	}
	log.Info().Int("records", len(rs)).Msg("seed completed")
}
