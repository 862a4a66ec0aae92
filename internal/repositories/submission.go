package repositories

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/models"
)

// SubmissionsKey is the storage key of the submission collection.
const SubmissionsKey = "sim_submissions"

type SubmissionRepository struct {
	storage Storage
	logger  *slog.Logger

	mu sync.RWMutex
	// submissions are ordered newest first.
	submissions []models.Submission
}

// NewSubmissionRepository loads the stored submissions. Malformed stored data is an error.
func NewSubmissionRepository(ctx context.Context, storage Storage, logger *slog.Logger) (*SubmissionRepository, error) {
	raw, err := storage.Load(ctx, SubmissionsKey)
	if err != nil {
		return nil, errors.Wrap(err, "load submissions")
	}
	var submissions []models.Submission
	if len(raw) > 0 {
		if err = json.Unmarshal(raw, &submissions); err != nil {
			return nil, errors.Wrap(err, "decode submissions", slog.String("key", SubmissionsKey))
		}
	}
	logger = logger.With(slog.String("source", "SubmissionRepository"))
	logger.LogAttrs(ctx, slog.LevelInfo, "loaded submissions", slog.Int("count", len(submissions)))
	return &SubmissionRepository{
		storage:     storage,
		logger:      logger,
		submissions: submissions,
	}, nil
}

// Append stores the submission as the newest one. When saving fails the collection is left unchanged.
func (r *SubmissionRepository) Append(ctx context.Context, submission models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.submissions
	next := make([]models.Submission, 0, len(previous)+1)
	next = append(next, submission)
	next = append(next, previous...)

	raw, err := json.Marshal(next)
	if err != nil {
		return errors.Wrap(err, "encode submissions")
	}
	if err = r.storage.Save(ctx, SubmissionsKey, raw); err != nil {
		return errors.Wrap(err, "save submissions", slog.String("submission_id", submission.ID))
	}
	r.submissions = next
	r.logger.LogAttrs(ctx, slog.LevelInfo, "appended submission",
		slog.String("submission_id", submission.ID), slog.Int("count", len(next)))
	return nil
}

// List returns a copy of the submissions, newest first.
func (r *SubmissionRepository) List() []models.Submission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.submissions)
}

// Get returns the submission with id.
func (r *SubmissionRepository) Get(id string) (models.Submission, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.submissions, func(s models.Submission) bool { return s.ID == id })
	if i < 0 {
		return models.Submission{}, false
	}
	return r.submissions[i], true
}

func (r *SubmissionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.submissions)
}
