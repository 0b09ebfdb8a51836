package images

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/mdenrich/internal/metrics"
)

// ErrNoBaseURL marks a relative reference that cannot be resolved because no
// base URL was given.
var ErrNoBaseURL = errors.New("relative image reference without base url")

// DefaultLinkDir is the directory name used in rewritten references.
const DefaultLinkDir = "img"

// Stats summarizes one Rewrite run. Counts are per reference except Cached,
// which counts distinct URLs served from the cache.
type Stats struct {
	Found     int `json:"found"`
	Localized int `json:"localized"`
	Cached    int `json:"cached"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Localizer rewrites image references to point at cached local copies.
type Localizer struct {
	cache       *Cache
	linkDir     string
	concurrency int
	log         logrus.FieldLogger
}

// NewLocalizer returns a Localizer that links files as ./<linkDir>/<key> and
// keeps at most concurrency downloads in flight.
func NewLocalizer(cache *Cache, linkDir string, concurrency int, log logrus.FieldLogger) *Localizer {
	if linkDir == "" {
		linkDir = DefaultLinkDir
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Localizer{cache: cache, linkDir: linkDir, concurrency: concurrency, log: log}
}

type outcome struct {
	name string
	hit  bool
	err  error
}

// Rewrite localizes every image reference in text. Relative URLs are resolved
// against baseURL; without one they are skipped. A failed download leaves its
// reference untouched and never stops the others.
func (l *Localizer) Rewrite(ctx context.Context, text, baseURL string) (string, Stats) {
	refs := scan(text)
	stats := Stats{Found: len(refs)}
	if len(refs) == 0 {
		return text, stats
	}

	var base *url.URL
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			l.log.WithError(err).WithField("base_url", baseURL).Warn("ignoring invalid base url")
		} else {
			base = u
		}
	}

	// targets maps a reference start offset to its absolute URL.
	targets := make(map[int]string, len(refs))
	var unique []string
	seen := map[string]bool{}
	for _, ref := range refs {
		target, err := l.resolve(ref.url, base)
		if err != nil {
			stats.Skipped++
			metrics.ImageFetchTotal.WithLabelValues(metrics.FetchSkipped).Inc()
			l.log.WithField("url", ref.url).WithError(err).Debug("skipping image reference")
			continue
		}
		targets[ref.start] = target
		if !seen[target] {
			seen[target] = true
			unique = append(unique, target)
		}
	}

	results := l.fetchAll(ctx, unique)
	for _, o := range results {
		if o.err == nil && o.hit {
			stats.Cached++
		}
	}

	out := rewrite(text, refs, func(ref reference) (string, bool) {
		target, ok := targets[ref.start]
		if !ok {
			return "", false
		}
		o := results[target]
		if o.err != nil {
			stats.Failed++
			return "", false
		}
		stats.Localized++
		return "./" + l.linkDir + "/" + o.name, true
	})
	return out, stats
}

// fetchAll resolves each distinct URL through the cache with bounded
// concurrency. Errors are recorded per URL; the group itself never fails.
func (l *Localizer) fetchAll(ctx context.Context, urls []string) map[string]outcome {
	results := make(map[string]outcome, len(urls))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for _, u := range urls {
		g.Go(func() error {
			name, hit, err := l.cache.Resolve(gctx, u)
			log := l.log.WithField("url", u)
			switch {
			case err != nil:
				metrics.ImageFetchTotal.WithLabelValues(metrics.FetchError).Inc()
				log.WithError(err).Warn("image download failed, keeping original reference")
			case hit:
				metrics.ImageFetchTotal.WithLabelValues(metrics.FetchHit).Inc()
			default:
				metrics.ImageFetchTotal.WithLabelValues(metrics.FetchFetched).Inc()
				log.WithField("file", name).Info("image downloaded")
			}

			mu.Lock()
			results[u] = outcome{name: name, hit: hit, err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// resolve turns a reference into an absolute http(s) URL, or explains why it
// is skipped.
func (l *Localizer) resolve(ref string, base *url.URL) (string, error) {
	if l.isLocal(ref) {
		return "", errors.New("already local")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if !u.IsAbs() {
		if base == nil {
			return "", ErrNoBaseURL
		}
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.New("unsupported scheme " + u.Scheme)
	}
	return u.String(), nil
}

// isLocal reports whether ref already points into the link directory.
func (l *Localizer) isLocal(ref string) bool {
	clean := path.Clean(strings.TrimPrefix(ref, "./"))
	return strings.HasPrefix(clean, l.linkDir+"/")
}
