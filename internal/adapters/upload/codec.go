package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/semaphore"

	"quivato_reviews/internal/adapters/observability"
	"quivato_reviews/internal/domain"
)

// Codec turns a transient file into its base64 text and removes the file.
// At most `workers` encodes run at once.
type Codec struct {
	fs  afero.Fs
	sem *semaphore.Weighted
}

func NewCodec(fs afero.Fs, workers int) *Codec {
	if workers <= 0 {
		workers = 1
	}
	return &Codec{fs: fs, sem: semaphore.NewWeighted(int64(workers))}
}

// Encode reads h fully and returns its base64 encoding. The transient file is
// removed on every return path, including a failed read or slot acquisition.
func (c *Codec) Encode(ctx context.Context, h Handle) (out string, err error) {
	if h.Empty() {
		return "", errors.New("encode: empty upload handle")
	}
	defer func() {
		rmErr := c.fs.Remove(h.Path)
		if rmErr == nil || errors.Is(rmErr, os.ErrNotExist) {
			return
		}
		if err == nil {
			out, err = "", domain.Processing("remove transient file", rmErr)
			return
		}
		log.Error().Err(rmErr).Str("path", h.Path).Msg("transient file cleanup failed")
	}()

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", domain.Processing("acquire encode slot", err)
	}
	defer c.sem.Release(1)

	b, err := afero.ReadFile(c.fs, h.Path)
	observability.ObserveEncode(len(b), err)
	if err != nil {
		return "", domain.Processing("read transient file", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
