package health

import (
	"context"
	"os"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck reports unhealthy when the goroutine count exceeds
// threshold. Useful as a liveness check for goroutine leaks.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		count := runtime.NumGoroutine()
		if count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// DirWritableCheck reports unhealthy when dir cannot be written to. Used as
// a readiness check on the data directory: the store cannot persist
// anything once the directory is gone or read-only.
func DirWritableCheck(dir string) CheckFunc {
	return func(_ context.Context) error {
		f, err := os.CreateTemp(dir, ".healthcheck.*")
		if err != nil {
			return errors.Wrap(err, "data dir not writable")
		}
		name := f.Name()
		f.Close()
		return os.Remove(name)
	}
}
