// Command store-backup snapshots the billing server's data files into
// gzip-compressed copies. Each collection file is compressed on its own
// goroutine; the snapshot is named by timestamp so successive backups never
// overwrite each other.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"
)

// collections are the store keys worth backing up.
var collections = []string{"customers", "products", "apikeys"}

func main() {
	var (
		dataDir   string
		backupDir string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing the JSON data files")
	flag.StringVar(&backupDir, "backup-dir", "backups", "directory to write compressed snapshots into")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, backupDir); err != nil {
		slog.Error("backup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("backup completed successfully")
}

func run(ctx context.Context, dataDir, backupDir string) error {
	stamp := time.Now().Format("20060102-150405")
	dest := filepath.Join(backupDir, stamp)
	if err := os.MkdirAll(dest, 0o700); err != nil {
		return errors.Wrap(err, "create backup dir")
	}

	slog.Info("writing snapshot", slog.String("dest", dest))

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range collections {
		g.Go(backupCollection(ctx, dataDir, dest, name))
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}

func backupCollection(ctx context.Context, dataDir, dest, name string) func() error {
	return func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		src := filepath.Join(dataDir, name+".json")
		in, err := os.Open(src)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				slog.Info("collection not present, skipping", slog.String("name", name))
				return nil
			}
			return errors.Wrapf(err, "open %s", src)
		}
		defer in.Close()

		outPath := filepath.Join(dest, name+".json.gz")
		out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return errors.Wrapf(err, "create %s", outPath)
		}
		defer out.Close()

		gz := pgzip.NewWriter(out)
		n, err := io.Copy(gz, in)
		if err != nil {
			return errors.Wrapf(err, "compress %s", name)
		}
		if err := gz.Close(); err != nil {
			return errors.Wrapf(err, "finish %s", name)
		}
		if err := out.Close(); err != nil {
			return errors.Wrapf(err, "close %s", outPath)
		}

		slog.Info("backed up collection",
			slog.String("name", name),
			slog.Int64("bytes", n),
		)
		return nil
	}
}
