package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/phobologic/kaskara/internal/discover"
	"github.com/phobologic/kaskara/internal/lang"
	"github.com/phobologic/kaskara/internal/model"
)

// Options controls project extraction.
type Options struct {
	// Workers bounds concurrent file extraction. Zero means GOMAXPROCS.
	Workers int
	// Strict fails the whole extraction on the first unreadable or
	// unparsable file instead of skipping it.
	Strict bool
	// MaxFileSize skips files larger than this many bytes. Zero disables
	// the limit.
	MaxFileSize int64
	Logger      *slog.Logger
}

// Project extracts every file concurrently and returns one document whose
// records follow the order of files. Filenames in the document are the
// project-relative entry paths.
func Project(ctx context.Context, root string, files []discover.FileEntry, opts Options) (*model.Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*model.Document, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := extractFile(ctx, root, f, opts.MaxFileSize)
			if err != nil {
				if opts.Strict {
					return err
				}
				logger.Warn("skipping file", "file", f.Path, "error", err)
				return nil
			}
			logger.Debug("extracted file", "file", f.Path,
				"functions", len(doc.Functions),
				"statements", len(doc.Statements),
				"loops", len(doc.Loops))
			results[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &model.Document{
		Files:      []string{},
		Functions:  []model.FunctionRecord{},
		Statements: []model.StatementRecord{},
		Loops:      []model.LoopRecord{},
	}
	for _, doc := range results {
		if doc != nil {
			out.Append(doc)
		}
	}
	return out, nil
}

func extractFile(ctx context.Context, root string, f discover.FileEntry, maxSize int64) (*model.Document, error) {
	l, ok := lang.Languages[f.Language]
	if !ok {
		return nil, fmt.Errorf("%s: unsupported language %q", f.Path, f.Language)
	}
	source, err := os.ReadFile(filepath.Join(root, f.Path))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	if maxSize > 0 && int64(len(source)) > maxSize {
		return nil, fmt.Errorf("%s: larger than %d bytes", f.Path, maxSize)
	}

	// Parsers are not safe for concurrent use.
	parser := l.NewParser()
	defer parser.Close()
	return File(ctx, l, parser, source, filepath.ToSlash(f.Path))
}
