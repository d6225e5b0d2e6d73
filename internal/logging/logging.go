package logging

import (
	"io"
	"log"
	"os"

	"github.com/Speshl/gorrc_subaru/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init points the standard logger at stderr and, when a log file is
// configured, at a size-rotated file as well. The returned closer releases the
// file and is a no-op without one.
func Init(cfg config.LogConfig) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	log.Printf("logging to %s\n", cfg.File)
	return rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
