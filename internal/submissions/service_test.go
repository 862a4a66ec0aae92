package submissions_test

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/models"
	"github.com/myrjola/reaksi/internal/repositories"
	"github.com/myrjola/reaksi/internal/submissions"
	"github.com/myrjola/reaksi/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

type fakeEvaluator struct {
	// release gates the evaluations when set.
	release chan struct{}
	calls   atomic.Int32
	mu      sync.Mutex
	sims    []models.SimulationState
	ctxErrs []error
}

func (f *fakeEvaluator) Evaluate(
	ctx context.Context,
	_ models.StudentAnswers,
	sim models.SimulationState,
) models.Evaluation {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.sims = append(f.sims, sim)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()
	return models.Evaluation{Score: 85, Feedback: "Jawaban tepat", Summary: "Baik"}
}

func validInput() submissions.Input {
	return submissions.Input{
		GroupName:  "Kelompok 1",
		Members:    "Ani, Budi",
		RedInitial: 20,
		Answers: models.StudentAnswers{
			Reduction:  "Partikel merah berkurang",
			Formation:  "Partikel biru bertambah",
			Negative:   "Tanda negatif menunjukkan pengurangan",
			Air:        "Oksigen mempercepat kebakaran",
			Definition: "Laju reaksi adalah perubahan konsentrasi per satuan waktu",
		},
	}
}

type fixture struct {
	service   *submissions.Service
	repo      *repositories.SubmissionRepository
	storage   *repositories.MemoryStorage
	evaluator *fakeEvaluator
}

func newFixture(t *testing.T, evaluator *fakeEvaluator) fixture {
	t.Helper()
	logger := testhelpers.NewLogger(io.Discard)
	storage := repositories.NewMemoryStorage()
	repo, err := repositories.NewSubmissionRepository(context.Background(), storage, logger)
	require.NoError(t, err)
	service := submissions.NewService(evaluator, repo, logger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- service.Run(ctx) }()
	t.Cleanup(func() {
		if evaluator.release != nil {
			select {
			case <-evaluator.release:
			default:
				close(evaluator.release)
			}
		}
		cancel()
		require.NoError(t, <-done)
	})
	return fixture{service: service, repo: repo, storage: storage, evaluator: evaluator}
}

func TestService_SubmitAndAwait(t *testing.T) {
	f := newFixture(t, &fakeEvaluator{})
	ctx := context.Background()

	taskID, err := f.service.Submit(ctx, "client", validInput())
	require.NoError(t, err)
	require.NotEmpty(t, taskID)

	submission, err := f.service.Await(ctx, taskID)
	require.NoError(t, err)
	require.Equal(t, taskID, submission.ID)
	require.Equal(t, "Kelompok 1", submission.GroupName)
	require.Equal(t, 20, submission.RedInitial)
	require.InDelta(t, 85, submission.AIScore, 0.001)
	require.Equal(t, "Jawaban tepat\n\nSummary: Baik", submission.AIFeedback)
	require.False(t, submission.SubmittedAt.IsZero())

	stored, ok := f.repo.Get(taskID)
	require.True(t, ok)
	require.Equal(t, submission, stored)
	require.Eventually(t, func() bool { return !f.service.InFlight("client") }, time.Second, time.Millisecond)

	// A later reader gets the persisted submission.
	again, err := f.service.Await(ctx, taskID)
	require.NoError(t, err)
	require.Equal(t, submission, again)
}

func TestService_SubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(in *submissions.Input)
		wantErr error
	}{
		{name: "missing group", modify: func(in *submissions.Input) { in.GroupName = "  " },
			wantErr: submissions.ErrMissingIdentity},
		{name: "missing members", modify: func(in *submissions.Input) { in.Members = "" },
			wantErr: submissions.ErrMissingIdentity},
		{name: "blank answer", modify: func(in *submissions.Input) { in.Answers.Air = " \n\t" },
			wantErr: submissions.ErrMissingAnswers},
		{name: "missing answer", modify: func(in *submissions.Input) { in.Answers.Definition = "" },
			wantErr: submissions.ErrMissingAnswers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &fakeEvaluator{})
			in := validInput()
			tt.modify(&in)

			taskID, err := f.service.Submit(context.Background(), "client", in)
			require.ErrorIs(t, err, tt.wantErr)
			require.Empty(t, taskID)
			require.False(t, f.service.InFlight("client"))
			require.Equal(t, int32(0), f.evaluator.calls.Load())
			require.Equal(t, 0, f.repo.Len())
		})
	}
}

func TestService_RedInitialClamped(t *testing.T) {
	f := newFixture(t, &fakeEvaluator{})
	ctx := context.Background()
	in := validInput()
	in.RedInitial = 99

	taskID, err := f.service.Submit(ctx, "client", in)
	require.NoError(t, err)
	submission, err := f.service.Await(ctx, taskID)
	require.NoError(t, err)
	require.Equal(t, 30, submission.RedInitial)

	f.evaluator.mu.Lock()
	defer f.evaluator.mu.Unlock()
	require.Equal(t, models.SimulationState{
		T0:  models.ParticleSnapshot{Red: 30, Blue: 0},
		T10: models.ParticleSnapshot{Red: 18, Blue: 12},
		T20: models.ParticleSnapshot{Red: 6, Blue: 24},
	}, f.evaluator.sims[0])
}

func TestService_InFlight(t *testing.T) {
	f := newFixture(t, &fakeEvaluator{release: make(chan struct{})})
	ctx := context.Background()

	taskID, err := f.service.Submit(ctx, "client", validInput())
	require.NoError(t, err)
	require.True(t, f.service.InFlight("client"))

	_, err = f.service.Submit(ctx, "client", validInput())
	require.ErrorIs(t, err, submissions.ErrInFlight)

	otherTaskID, err := f.service.Submit(ctx, "other-client", validInput())
	require.NoError(t, err, "other clients are not blocked")

	close(f.evaluator.release)
	_, err = f.service.Await(ctx, taskID)
	require.NoError(t, err)
	_, err = f.service.Await(ctx, otherTaskID)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return !f.service.InFlight("client") }, time.Second, time.Millisecond)
	_, err = f.service.Submit(ctx, "client", validInput())
	require.NoError(t, err, "client can submit again after the evaluation finished")
}

func TestService_EvaluationOutlivesRequest(t *testing.T) {
	f := newFixture(t, &fakeEvaluator{release: make(chan struct{})})
	requestCtx, cancelRequest := context.WithCancel(context.Background())

	taskID, err := f.service.Submit(requestCtx, "client", validInput())
	require.NoError(t, err)
	cancelRequest()
	close(f.evaluator.release)

	submission, err := f.service.Await(context.Background(), taskID)
	require.NoError(t, err)
	require.Equal(t, taskID, submission.ID)

	f.evaluator.mu.Lock()
	defer f.evaluator.mu.Unlock()
	require.NoError(t, f.evaluator.ctxErrs[0], "evaluation context must not be cancelled with the request")
}

func TestService_SubsequentAwaitersReadRepository(t *testing.T) {
	f := newFixture(t, &fakeEvaluator{release: make(chan struct{})})
	ctx := context.Background()

	taskID, err := f.service.Submit(ctx, "client", validInput())
	require.NoError(t, err)

	type awaited struct {
		submission models.Submission
		err        error
	}
	results := make(chan awaited, 3)
	for range 3 {
		go func() {
			s, awaitErr := f.service.Await(ctx, taskID)
			results <- awaited{submission: s, err: awaitErr}
		}()
	}
	close(f.evaluator.release)
	for range 3 {
		r := <-results
		require.NoError(t, r.err)
		require.Equal(t, taskID, r.submission.ID)
	}
}

func TestService_AwaitUnknownTask(t *testing.T) {
	f := newFixture(t, &fakeEvaluator{})
	_, err := f.service.Await(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, submissions.ErrTaskNotFound)
}

func TestService_AwaitCancelled(t *testing.T) {
	f := newFixture(t, &fakeEvaluator{release: make(chan struct{})})
	taskID, err := f.service.Submit(context.Background(), "client", validInput())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = f.service.Await(ctx, taskID)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestService_StoreFailure(t *testing.T) {
	f := newFixture(t, &fakeEvaluator{})
	errDiskFull := errors.NewSentinel("disk full")
	f.storage.SaveErr = errDiskFull
	ctx := context.Background()

	taskID, err := f.service.Submit(ctx, "client", validInput())
	require.NoError(t, err)
	_, err = f.service.Await(ctx, taskID)
	// The failure reaches the awaiter unless the evaluation finished before it subscribed.
	require.True(t, errors.Is(err, errDiskFull) || errors.Is(err, submissions.ErrTaskNotFound), err)
	require.Equal(t, 0, f.repo.Len())
	require.Eventually(t, func() bool { return !f.service.InFlight("client") }, time.Second, time.Millisecond)
}
