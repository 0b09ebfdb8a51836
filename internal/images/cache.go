package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dgallion1/mdenrich/internal/metrics"
)

// Cache is a directory of downloaded images named by CacheKey. A file that
// already exists is never fetched again.
type Cache struct {
	dir     string
	fetcher Fetcher
	log     logrus.FieldLogger
}

// NewCache returns a cache rooted at dir. The directory is created on the
// first write.
func NewCache(dir string, fetcher Fetcher, log logrus.FieldLogger) *Cache {
	return &Cache{dir: dir, fetcher: fetcher, log: log}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Path returns the on-disk path for a cache file name. It returns false for
// names that could escape the cache directory.
func (c *Cache) Path(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", false
	}
	return filepath.Join(c.dir, name), true
}

// Resolve returns the cache file name for url, downloading it when absent.
// hit reports whether the file was already cached.
func (c *Cache) Resolve(ctx context.Context, url string) (name string, hit bool, err error) {
	name = CacheKey(url)
	dst := filepath.Join(c.dir, name)

	if _, err := os.Stat(dst); err == nil {
		c.log.WithField("url", url).Debug("image cache hit")
		return name, true, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, fmt.Errorf("stat cache file: %w", err)
	}

	start := time.Now()
	data, err := c.fetcher.Fetch(ctx, url)
	metrics.ImageFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", false, err
	}
	if err := c.write(dst, data); err != nil {
		return "", false, err
	}
	return name, false, nil
}

// write stores data atomically so concurrent readers never see a partial file.
func (c *Cache) write(dst string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, ".fetch-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("rename image: %w", err)
	}
	return nil
}
