package internal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/mindsync/internal/checksum"
	"github.com/starford/mindsync/internal/mindmap"
	"github.com/starford/mindsync/internal/models"
	"github.com/starford/mindsync/internal/storage"
	"github.com/starford/mindsync/internal/syncer"
)

// Convert performs a one-off conversion of in to out outside any pair,
// checkpoint or backup. name labels the mind-map root for DirectionToGraph
// and defaults to the pair name derived from in.
func Convert(dir models.Direction, in, out, name string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger, closeLog := newLogger(app, os.Stderr)
	defer closeLog()
	store := storage.NewLocal()

	src, err := store.Read(in)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	var result []byte
	switch dir {
	case models.DirectionToGraph:
		tmpl, err := loadTemplate(app.config.Tracking.TemplatePath)
		if err != nil {
			return err
		}
		if name == "" {
			name = syncer.PairName(in)
		}
		result, err = mindmap.FromOutline(tmpl, string(src), name, app.config.Palette)
		if err != nil {
			return fmt.Errorf("convert: %w", err)
		}
	case models.DirectionToText:
		text, err := mindmap.Decode(src)
		if err != nil {
			return fmt.Errorf("convert: %w", err)
		}
		result = []byte(text)
	default:
		return fmt.Errorf("convert: unsupported direction %q", dir)
	}

	if err := store.Write(out, result); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	logger.Info("convert: done",
		slog.String("direction", dir.String()),
		slog.String("in", in),
		slog.String("out", out),
		slog.String("checksum", checksum.Short(result)))
	return nil
}
