package submissions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/reaksi/internal/broker"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/logging"
	"github.com/myrjola/reaksi/internal/metrics"
	"github.com/myrjola/reaksi/internal/models"
	"github.com/myrjola/reaksi/internal/repositories"
	"github.com/myrjola/reaksi/internal/simulation"
)

var (
	ErrMissingIdentity = errors.NewSentinel("group name and members are required")
	ErrMissingAnswers  = errors.NewSentinel("all answers are required")
	ErrInFlight        = errors.NewSentinel("a submission is already being evaluated")
	ErrTaskNotFound    = errors.NewSentinel("task not found")
)

// Evaluator scores answers. [*ai.Client] implements it and never fails; failures become a fallback evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, answers models.StudentAnswers, sim models.SimulationState) models.Evaluation
}

// Input is the submitted worksheet.
type Input struct {
	GroupName  string
	Members    string
	RedInitial int
	Answers    models.StudentAnswers
}

type result struct {
	submission models.Submission
	err        error
}

// Service evaluates submissions in the background and stores the results.
type Service struct {
	evaluator Evaluator
	repo      *repositories.SubmissionRepository
	broker    *broker.ChannelBroker[string, result]
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time

	// evaluations tracks the running evaluation goroutines.
	evaluations sync.WaitGroup
	mu          sync.Mutex
	// inFlight maps client IDs to the task being evaluated for them.
	inFlight map[string]string
}

// NewService creates the service. m may be nil. Call [Service.Run] before submitting.
func NewService(
	evaluator Evaluator,
	repo *repositories.SubmissionRepository,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		evaluator: evaluator,
		repo:      repo,
		broker:    broker.NewChannelBroker[string, result](),
		metrics:   m,
		logger:    logger.With(slog.String("source", "submissions.Service")),
		now:       time.Now,
		inFlight:  map[string]string{},
	}
}

// Run dispatches evaluation results until ctx is done and then waits for the running evaluations to be stored.
func (s *Service) Run(ctx context.Context) error {
	err := s.broker.Run(ctx)
	s.evaluations.Wait()
	if err != nil {
		return errors.Wrap(err, "run broker")
	}
	return nil
}

// Submit validates the input and starts evaluating it. It returns the task ID to [Service.Await].
//
// A client can have only one evaluation in flight. The evaluation is not cancelled with ctx.
func (s *Service) Submit(ctx context.Context, clientID string, in Input) (string, error) {
	in.GroupName = strings.TrimSpace(in.GroupName)
	in.Members = strings.TrimSpace(in.Members)
	if in.GroupName == "" || in.Members == "" {
		s.metrics.CountSubmission(metrics.SubmissionInvalid)
		return "", errors.Wrap(ErrMissingIdentity, "validate submission")
	}
	if missing := in.Answers.Missing(); len(missing) > 0 {
		s.metrics.CountSubmission(metrics.SubmissionInvalid)
		return "", errors.Wrap(ErrMissingAnswers, "validate submission", slog.Any("missing", missing))
	}

	s.mu.Lock()
	if taskID, busy := s.inFlight[clientID]; busy {
		s.mu.Unlock()
		s.metrics.CountSubmission(metrics.SubmissionInFlight)
		return "", errors.Wrap(ErrInFlight, "start evaluation", slog.String("task_id", taskID))
	}
	taskID := uuid.NewString()
	s.inFlight[clientID] = taskID
	s.mu.Unlock()

	results := make(chan result, 1)
	if err := s.broker.Publish(taskID, results); err != nil {
		s.release(clientID)
		return "", errors.Wrap(err, "publish task", slog.String("task_id", taskID))
	}

	ctx = logging.WithAttrs(context.WithoutCancel(ctx), slog.String("task_id", taskID))
	s.evaluations.Add(1)
	go s.evaluate(ctx, clientID, taskID, in, results)

	s.metrics.CountSubmission(metrics.SubmissionAccepted)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "submission accepted", slog.String("group", in.GroupName))
	return taskID, nil
}

func (s *Service) evaluate(ctx context.Context, clientID, taskID string, in Input, results chan<- result) {
	defer s.evaluations.Done()
	defer s.broker.Unpublish(taskID)
	defer s.release(clientID)
	defer close(results)
	defer func() {
		if r := recover(); r != nil {
			err := errors.New("evaluation panicked", slog.String("panic", fmt.Sprint(r)))
			s.logger.LogAttrs(ctx, slog.LevelError, "evaluation failed", errors.SlogError(err))
			results <- result{err: err}
		}
	}()

	redInitial := simulation.Clamp(in.RedInitial)
	evaluation := s.evaluator.Evaluate(ctx, in.Answers, simulation.Derive(redInitial))
	submission := models.Submission{
		ID:          taskID,
		GroupName:   in.GroupName,
		Members:     in.Members,
		RedInitial:  redInitial,
		Answers:     in.Answers,
		AIScore:     evaluation.Score,
		AIFeedback:  evaluation.CombinedFeedback(),
		SubmittedAt: s.now(),
	}
	if err := s.repo.Append(ctx, submission); err != nil {
		err = errors.Wrap(err, "store submission")
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to store submission", errors.SlogError(err))
		results <- result{err: err}
		return
	}
	results <- result{submission: submission}
}

func (s *Service) release(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, clientID)
}

// Await blocks until the task is evaluated and returns the stored submission.
//
// Only the first caller receives the result directly. Other callers wait for the evaluation to finish and read the
// repository.
func (s *Service) Await(ctx context.Context, taskID string) (models.Submission, error) {
	var results chan result
	select {
	case results = <-s.broker.Subscribe(taskID):
	case <-ctx.Done():
		return models.Submission{}, errors.Wrap(ctx.Err(), "wait for subscription")
	}
	if results != nil {
		select {
		case r, ok := <-results:
			if ok {
				if r.err != nil {
					return models.Submission{}, errors.Wrap(r.err, "evaluate", slog.String("task_id", taskID))
				}
				return r.submission, nil
			}
		case <-ctx.Done():
			return models.Submission{}, errors.Wrap(ctx.Err(), "wait for result")
		}
	}
	if submission, ok := s.repo.Get(taskID); ok {
		return submission, nil
	}
	return models.Submission{}, errors.Wrap(ErrTaskNotFound, "await", slog.String("task_id", taskID))
}

// InFlight reports whether the client has an evaluation running.
func (s *Service) InFlight(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[clientID]
	return ok
}
