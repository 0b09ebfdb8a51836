package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/mdenrich/internal/config"
	"github.com/dgallion1/mdenrich/internal/enhance"
	"github.com/dgallion1/mdenrich/internal/images"
	"github.com/dgallion1/mdenrich/internal/logging"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

const tutorial = "# Docker Quickstart\n\n## Install\n\n1. Install Docker\n2. Run `docker run hello-world`\n"

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("png"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestWorker(t *testing.T) (*Worker, string) {
	t.Helper()
	dir := t.TempDir()
	fetcher := images.NewHTTPFetcher(images.FetcherConfig{Timeout: 5 * time.Second})
	cache := images.NewCache(dir, fetcher, logging.Discard())
	localizer := images.NewLocalizer(cache, "img", 2, logging.Discard())
	enhancer := enhance.New(taxonomy.MustDefault("en"))
	return NewWorker(localizer, enhancer, logging.Discard()), dir
}

func TestWorker_OrganizeAndEnhance(t *testing.T) {
	srv := newImageServer(t)
	w, dir := newTestWorker(t)

	input := tutorial + "\n![shot](" + srv.URL + "/shot.png)\n"
	job := NewJob("quickstart.md", []byte(input), Options{Organize: true, Enhance: true})
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 1, snap.Progress.Images.Localized)
	assert.Equal(t, []string{"objectives", "prerequisites", "faq"}, snap.Progress.SectionsInserted)

	out, ok := job.Result()
	require.True(t, ok)
	name := images.CacheKey(srv.URL + "/shot.png")
	assert.Contains(t, out, "![shot](./img/"+name+")")
	assert.Contains(t, out, "## FAQ")

	_, err := os.Stat(filepath.Join(dir, name))
	assert.NoError(t, err)
}

func TestWorker_FailedImageIsPartial(t *testing.T) {
	srv := newImageServer(t)
	w, _ := newTestWorker(t)

	input := "# Notes\n\n![gone](" + srv.URL + "/missing.png)\n"
	job := NewJob("notes.md", []byte(input), Options{Organize: true})
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusPartial, snap.Status)
	assert.Equal(t, 1, snap.Progress.Images.Failed)
	require.Len(t, snap.Progress.Errors, 1)

	out, ok := job.Result()
	require.True(t, ok)
	assert.Contains(t, out, srv.URL+"/missing.png", "failed reference stays untouched")
}

func TestWorker_EnhanceOnly(t *testing.T) {
	w, _ := newTestWorker(t)

	job := NewJob("quickstart.md", []byte(tutorial), Options{Enhance: true})
	w.Process(context.Background(), job)

	assert.Equal(t, StatusCompleted, job.Snapshot().Status)
	assert.Zero(t, job.Snapshot().Progress.Images.Found)
	out, _ := job.Result()
	assert.True(t, strings.HasPrefix(out, "# Docker Quickstart\n"))
}

func TestWorker_InvalidUTF8(t *testing.T) {
	w, _ := newTestWorker(t)

	job := NewJob("bad.md", []byte{0xff, 0xfe, 0xfd}, Options{Enhance: true})
	w.Process(context.Background(), job)

	assert.Equal(t, StatusFailed, job.Snapshot().Status)
	_, ok := job.Result()
	assert.False(t, ok)
}

func TestWorker_Cancelled(t *testing.T) {
	w, _ := newTestWorker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := NewJob("a.md", []byte(tutorial), Options{Organize: true, Enhance: true})
	w.Process(ctx, job)

	assert.Equal(t, StatusFailed, job.Snapshot().Status)
}

func TestOrchestrator_SubmitAndComplete(t *testing.T) {
	w, _ := newTestWorker(t)
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, w.localizer, w.enhancer, logging.Discard())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("quickstart.md", []byte(tutorial), Options{Enhance: true})
	require.NoError(t, o.Submit(job))
	assert.Same(t, job, o.GetJob(job.ID))

	require.Eventually(t, func() bool {
		return job.Snapshot().Status.Done()
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, StatusCompleted, job.Snapshot().Status)
	assert.Equal(t, 1, o.JobCount())
}

func TestOrchestrator_QueueFull(t *testing.T) {
	w, _ := newTestWorker(t)
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	// Not started: nothing drains the queue.
	o := NewOrchestrator(cfg, w.localizer, w.enhancer, logging.Discard())

	require.NoError(t, o.Submit(NewJob("a.md", nil, Options{Enhance: true})))
	assert.Equal(t, 1, o.QueueDepth())

	second := NewJob("b.md", nil, Options{Enhance: true})
	assert.Error(t, o.Submit(second))
	assert.Equal(t, StatusFailed, second.Snapshot().Status)
	assert.Equal(t, "queue_full", second.Snapshot().Phase)
}
