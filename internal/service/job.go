package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/p4zaa/influence-service/internal/config"
	"github.com/p4zaa/influence-service/internal/models"
	"github.com/p4zaa/influence-service/pkg/cascade"
	"github.com/p4zaa/influence-service/pkg/graph"
	"github.com/p4zaa/influence-service/pkg/influence"
)

// JobService handles background influence computations
type JobService struct {
	jobs            map[string]*models.Job
	cancels         map[string]context.CancelFunc
	workers         chan struct{}
	datasetService  *DatasetService
	mutex           sync.RWMutex
	jobTimeout      time.Duration
	jobTTL          time.Duration
	cleanupInterval time.Duration
	maxTrials       int
	maxK            int
}

// NewJobService creates a new job service
func NewJobService(datasetService *DatasetService, cfg *config.Config) *JobService {
	service := &JobService{
		jobs:            make(map[string]*models.Job),
		cancels:         make(map[string]context.CancelFunc),
		workers:         make(chan struct{}, cfg.Jobs.MaxWorkers),
		datasetService:  datasetService,
		jobTimeout:      cfg.Jobs.JobTimeout,
		jobTTL:          cfg.Jobs.ResultTTL,
		cleanupInterval: cfg.Jobs.CleanupInterval,
		maxTrials:       cfg.Limits.MaxTrials,
		maxK:            cfg.Limits.MaxK,
	}

	go service.cleanupLoop()

	return service
}

// Submit creates and queues a new job
func (s *JobService) Submit(datasetID string, op models.OperationType, params models.JobParameters) (*models.Job, error) {
	if _, err := s.datasetService.Get(datasetID); err != nil {
		return nil, err
	}
	if err := s.validateParameters(op, params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	jobID := uuid.New().String()
	now := time.Now()
	job := &models.Job{
		ID:         jobID,
		DatasetID:  datasetID,
		Operation:  op,
		Parameters: params,
		Status:     models.JobStatusQueued,
		Progress: models.JobProgress{
			Percentage: 0,
			Message:    "Queued",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.jobs[jobID] = job

	log.Info().
		Str("job_id", jobID).
		Str("dataset_id", datasetID).
		Str("operation", string(op)).
		Msg("Job submitted")

	go s.processJob(jobID)

	return snapshotJob(job), nil
}

// snapshotJob copies a job so callers can read it without holding the
// service mutex. Pointer fields are replaced, never written through,
// once a job is visible outside the service.
func snapshotJob(job *models.Job) *models.Job {
	copied := *job
	return &copied
}

// Get retrieves a job by ID
func (s *JobService) Get(jobID string) (*models.Job, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return snapshotJob(job), nil
}

// List returns all jobs for a dataset
func (s *JobService) List(datasetID string) []*models.Job {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var jobs []*models.Job
	for _, job := range s.jobs {
		if job.DatasetID == datasetID {
			jobs = append(jobs, snapshotJob(job))
		}
	}
	return jobs
}

// Cancel cancels a queued or running job
func (s *JobService) Cancel(jobID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if job.Status == models.JobStatusQueued || job.Status == models.JobStatusRunning {
		if cancel, ok := s.cancels[jobID]; ok {
			cancel()
		}
		job.Status = models.JobStatusCancelled
		job.Progress.Message = "Cancelled"
		now := time.Now()
		job.CompletedAt = &now
		job.UpdatedAt = now

		log.Info().Str("job_id", jobID).Msg("Job cancelled")
	}

	return nil
}

func (s *JobService) validateParameters(op models.OperationType, params models.JobParameters) error {
	switch op {
	case models.OperationCELF:
		if params.K == nil {
			return fmt.Errorf("k is required for celf")
		}
		if *params.K > s.maxK {
			return fmt.Errorf("k exceeds limit: %d > %d", *params.K, s.maxK)
		}
	case models.OperationSimulate, models.OperationEstimate:
		if len(params.Seeds) == 0 {
			return fmt.Errorf("seeds are required for %s", op)
		}
	default:
		return fmt.Errorf("unknown operation: %s", op)
	}

	if params.Trials != nil && (*params.Trials < 1 || *params.Trials > s.maxTrials) {
		return fmt.Errorf("trials must be in [1, %d]: %d", s.maxTrials, *params.Trials)
	}
	if params.DefaultProb != nil && (*params.DefaultProb < 0 || *params.DefaultProb > 1) {
		return fmt.Errorf("default probability out of range [0,1]: %f", *params.DefaultProb)
	}
	if params.MaxSteps != nil && *params.MaxSteps < 0 {
		return fmt.Errorf("max steps must be non-negative: %d", *params.MaxSteps)
	}

	return nil
}

// processJob runs a job in the background
func (s *JobService) processJob(jobID string) {
	// Acquire worker slot
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	s.mutex.Lock()
	job, exists := s.jobs[jobID]
	if !exists || job.Status != models.JobStatusQueued {
		// Cancelled while queued
		s.mutex.Unlock()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	s.cancels[jobID] = cancel
	startTime := time.Now()
	job.Status = models.JobStatusRunning
	job.StartedAt = &startTime
	job.Progress.Message = "Running"
	job.UpdatedAt = startTime
	datasetID := job.DatasetID
	op := job.Operation
	params := job.Parameters
	s.mutex.Unlock()

	defer func() {
		cancel()
		s.mutex.Lock()
		delete(s.cancels, jobID)
		s.mutex.Unlock()
	}()

	log.Info().
		Str("job_id", jobID).
		Str("dataset_id", datasetID).
		Str("operation", string(op)).
		Msg("Job processing started")

	g, err := s.datasetService.GetGraph(datasetID)
	if err != nil {
		s.failJob(jobID, fmt.Errorf("failed to get dataset graph: %w", err))
		return
	}

	result, err := s.runOperation(ctx, g, op, params)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled or timed out; Cancel already set the status
			log.Warn().Str("job_id", jobID).Err(ctx.Err()).Msg("Job aborted")
			return
		}
		s.failJob(jobID, err)
		return
	}

	result.ProcessingTimeMS = time.Since(startTime).Milliseconds()
	s.completeJob(jobID, result)
}

// runOperation executes the requested influence computation
func (s *JobService) runOperation(ctx context.Context, g *graph.Graph, op models.OperationType, params models.JobParameters) (*models.JobResult, error) {
	cfg := buildConfig(params)

	switch op {
	case models.OperationCELF:
		selection, err := influence.CELF(ctx, g, *params.K, cfg)
		if err != nil {
			return nil, fmt.Errorf("celf failed: %w", err)
		}
		return &models.JobResult{
			Seeds:          selection.Seeds,
			Gains:          selection.Gains,
			ExpectedSpread: selection.ExpectedSpread,
			Statistics: map[string]interface{}{
				"spreadEvaluations": selection.Statistics.SpreadEvaluations,
				"trialsPerEstimate": selection.Statistics.TrialsPerEstimate,
			},
		}, nil

	case models.OperationSimulate:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opts := cascade.Options{
			MaxSteps:    cfg.MaxSteps(),
			ProbAttr:    cfg.ProbAttr(),
			DefaultProb: cfg.DefaultProb(),
			Seed:        cfg.RandomSeed(),
		}
		result, err := cascade.Simulate(g, params.Seeds, opts)
		if err != nil {
			return nil, fmt.Errorf("simulation failed: %w", err)
		}
		activated := make([]string, 0, len(result.Active))
		for node := range result.Active {
			activated = append(activated, node)
		}
		sort.Strings(activated)
		return &models.JobResult{
			Activated: activated,
			Steps:     result.Steps,
		}, nil

	case models.OperationEstimate:
		estimate, err := influence.EstimateSpread(ctx, g, params.Seeds, cfg)
		if err != nil {
			return nil, fmt.Errorf("spread estimation failed: %w", err)
		}
		return &models.JobResult{
			SpreadMean:   estimate.Mean,
			SpreadStdDev: estimate.StdDev,
			Trials:       estimate.Trials,
		}, nil

	default:
		return nil, fmt.Errorf("unknown operation: %s", op)
	}
}

// buildConfig maps job parameters onto the algorithm configuration
func buildConfig(params models.JobParameters) *influence.Config {
	cfg := influence.NewConfig()
	cfg.Set("logging.enable_progress", false)

	if params.Trials != nil {
		cfg.Set("estimator.trials", *params.Trials)
	}
	if params.MaxSteps != nil {
		cfg.Set("simulation.max_steps", *params.MaxSteps)
	}
	if params.ProbAttr != nil {
		cfg.Set("simulation.prob_attr", *params.ProbAttr)
	}
	if params.DefaultProb != nil {
		cfg.Set("simulation.default_prob", *params.DefaultProb)
	}
	if params.RandomSeed != nil {
		cfg.Set("algorithm.random_seed", *params.RandomSeed)
	}

	return cfg
}

// completeJob marks a job as completed with its result
func (s *JobService) completeJob(jobID string, result *models.JobResult) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists || job.Status == models.JobStatusCancelled {
		return
	}

	job.Status = models.JobStatusCompleted
	job.Progress.Percentage = 100
	job.Progress.Message = "Complete"
	job.Result = result
	now := time.Now()
	job.CompletedAt = &now
	job.UpdatedAt = now

	log.Info().
		Str("job_id", jobID).
		Int64("processing_time_ms", result.ProcessingTimeMS).
		Msg("Job completed successfully")
}

// failJob marks a job as failed
func (s *JobService) failJob(jobID string, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists || job.Status == models.JobStatusCancelled {
		return
	}

	job.Status = models.JobStatusFailed
	job.Error = err.Error()
	job.Progress.Message = "Failed"
	now := time.Now()
	job.CompletedAt = &now
	job.UpdatedAt = now

	log.Error().
		Str("job_id", jobID).
		Err(err).
		Msg("Job failed")
}

// cleanupLoop periodically removes expired jobs
func (s *JobService) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

func (s *JobService) cleanup() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-s.jobTTL)
	cleaned := 0

	for jobID, job := range s.jobs {
		if job.UpdatedAt.Before(cutoff) {
			delete(s.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Info().
			Int("cleaned_jobs", cleaned).
			Msg("Job cleanup completed")
	}
}
