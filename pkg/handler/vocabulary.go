package handler

import (
	"context"
	"sync"
	"time"

	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/db"
	"go.uber.org/zap"
)

// Vocabulary holds the currently loaded cv.ra and swaps it on reload.
type Vocabulary struct {
	mu       sync.RWMutex
	path     string
	opts     []cv.Option
	file     *cv.File
	loadedAt time.Time

	// OnLoad runs after every successful load, outside the lock.
	OnLoad func(*cv.File)
}

func NewVocabulary(path string, opts ...cv.Option) *Vocabulary {
	return &Vocabulary{path: path, opts: opts}
}

func (v *Vocabulary) Path() string {
	return v.path
}

// Load reads the file again. On error the previous vocabulary stays in place.
func (v *Vocabulary) Load() error {
	f, err := cv.Open(v.path, v.opts...)
	if err != nil {
		logger.Warn("Cannot load controlled vocabulary", zap.String("path", v.path), zap.Error(err))
		return err
	}

	v.mu.Lock()
	v.file = f
	v.loadedAt = time.Now()
	v.mu.Unlock()

	logger.Info("Loaded controlled vocabulary", zap.String("path", v.path), zap.Int("stanzas", f.Len()))
	if v.OnLoad != nil {
		v.OnLoad(f)
	}
	return nil
}

// Current returns the loaded file, or nil before the first successful Load.
func (v *Vocabulary) Current() (*cv.File, time.Time) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.file, v.loadedAt
}

// ExportOnLoad mirrors every loaded vocabulary into store.
func ExportOnLoad(ctx context.Context, store *db.Store) func(*cv.File) {
	return func(f *cv.File) {
		if err := store.ExportCV(ctx, db.Survey(f)); err != nil {
			logger.Error("Cannot export controlled vocabulary", zap.String("db", store.Path()), zap.Error(err))
		}
	}
}
