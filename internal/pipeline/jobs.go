package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/mdenrich/internal/images"
)

// JobStatus represents the state of a document job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusOrganizing JobStatus = "organizing"
	StatusEnhancing  JobStatus = "enhancing"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusPartial || s == StatusFailed
}

// Options selects the steps a job runs.
type Options struct {
	BaseURL  string `json:"base_url,omitempty"`
	Organize bool   `json:"organize"`
	Enhance  bool   `json:"enhance"`
}

// Job tracks the state of a single document run.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Options  Options   `json:"options"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	input  []byte
	result string
	errors []string
}

// Progress tracks what a job has done so far.
type Progress struct {
	Images           images.Stats `json:"images"`
	SectionsInserted []string     `json:"sections_inserted"`
	Errors           []string     `json:"errors"`
}

// NewJob creates a queued job for one uploaded document.
func NewJob(filename string, input []byte, opts Options) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		Options:     opts,
		ContentHash: ContentHashHex(input),
		CreatedAt:   now,
		UpdatedAt:   now,
		input:       input,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetImageStats records the image localization outcome.
func (j *Job) SetImageStats(s images.Stats) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Images = s
	j.UpdatedAt = time.Now()
}

// AddSections records inserted section names.
func (j *Job) AddSections(sections ...string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsInserted = append(j.Progress.SectionsInserted, sections...)
	j.UpdatedAt = time.Now()
}

// Input returns the uploaded document bytes.
func (j *Job) Input() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.input
}

// SetResult stores the processed document.
func (j *Job) SetResult(text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = text
	j.UpdatedAt = time.Now()
}

// Result returns the processed document once the job has finished with a
// usable result.
func (j *Job) Result() (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != StatusCompleted && j.Status != StatusPartial {
		return "", false
	}
	return j.result, true
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Options     Options   `json:"options"`
	ContentHash string    `json:"content_hash"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	sections := append([]string{}, j.Progress.SectionsInserted...)
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Options:     j.Options,
		ContentHash: j.ContentHash,
		Progress: Progress{
			Images:           j.Progress.Images,
			SectionsInserted: sections,
			Errors:           errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
