package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/WeOneApp/wardsponsor/internal/pkg/cache"
)

const (
	// Redis key layout
	JobKeyPrefix     = "job:"
	JobQueueKey      = "job_queue"
	JobProcessingKey = "job_processing"
	JobStatsKey      = "job_stats"

	// Job settings
	DefaultMaxRetries = 3
	JobTTL            = 24 * time.Hour
)

// staleJobAge is how long a job may sit in the processing list before the
// sweeper assumes its worker died and requeues it.
const staleJobAge = 10 * time.Minute

// Queue runs background jobs backed by Redis lists. Pending job IDs live in
// JobQueueKey, in-flight IDs in JobProcessingKey, and job bodies under
// JobKeyPrefix with a TTL.
type Queue struct {
	client  *redis.Client
	workers int
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewQueue creates a queue with the given worker count.
func NewQueue(workers int) *Queue {
	if workers <= 0 {
		workers = 2
	}
	return &Queue{
		client:  cache.GetClient(),
		workers: workers,
		stopCh:  make(chan struct{}),
	}
}

// Start launches the workers and the stale-job sweeper.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}
	q.running = true
	log.Infof("[JobQueue] Starting %d workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	q.wg.Add(1)
	go q.sweepStaleJobs(time.Minute)
}

// Stop signals all workers and waits for them to drain.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		return
	}
	log.Info("[JobQueue] Stopping workers...")
	close(q.stopCh)
	q.running = false
	q.wg.Wait()
	log.Info("[JobQueue] All workers stopped")
}

// EnqueueJob stores a new job and pushes its ID onto the pending list.
func (q *Queue) EnqueueJob(jobType JobType, payload map[string]interface{}) (*Job, error) {
	ctx := context.Background()
	now := time.Now()

	job := &Job{
		ID:         uuid.New().String(),
		Type:       jobType,
		Status:     JobStatusPending,
		Payload:    payload,
		CreatedAt:  now,
		UpdatedAt:  now,
		MaxRetries: DefaultMaxRetries,
	}

	data, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Set(ctx, JobKeyPrefix+job.ID, data, JobTTL)
	pipe.LPush(ctx, JobQueueKey, job.ID)
	pipe.HIncrBy(ctx, JobStatsKey, string(JobStatusPending), 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	log.Infof("[JobQueue] Enqueued job %s (Type: %s)", job.ID, job.Type)
	return job, nil
}

// GetJobStats returns the lifetime per-status counters.
func (q *Queue) GetJobStats(ctx context.Context) (map[JobStatus]int64, error) {
	raw, err := q.client.HGetAll(ctx, JobStatsKey).Result()
	if err != nil {
		return nil, err
	}
	stats := make(map[JobStatus]int64, len(raw))
	for status, count := range raw {
		if n, err := json.Number(count).Int64(); err == nil {
			stats[JobStatus(status)] = n
		}
	}
	return stats, nil
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()
	log.Infof("[JobQueue] Worker %d started", id)

	ctx := context.Background()
	for {
		select {
		case <-q.stopCh:
			log.Infof("[JobQueue] Worker %d stopping", id)
			return
		default:
		}

		job, err := q.dequeueJob(ctx)
		if err != nil {
			if err != redis.Nil {
				log.Errorf("[JobQueue] Worker %d: dequeue error: %v", id, err)
				time.Sleep(time.Second)
			}
			continue
		}
		if job != nil {
			log.Infof("[JobQueue] Worker %d processing job %s (Type: %s)", id, job.ID, job.Type)
			q.processJob(ctx, job)
		}
	}
}

// dequeueJob atomically moves the next job ID from pending to processing and
// loads its body. Returns redis.Nil when the queue is empty.
func (q *Queue) dequeueJob(ctx context.Context) (*Job, error) {
	jobID, err := q.client.BRPopLPush(ctx, JobQueueKey, JobProcessingKey, time.Second).Result()
	if err != nil {
		return nil, err
	}

	data, err := q.client.Get(ctx, JobKeyPrefix+jobID).Result()
	if err != nil {
		q.client.LRem(ctx, JobProcessingKey, 1, jobID)
		return nil, fmt.Errorf("job data not found for ID %s", jobID)
	}

	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		q.client.LRem(ctx, JobProcessingKey, 1, jobID)
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", jobID, err)
	}
	return &job, nil
}

func (q *Queue) processJob(ctx context.Context, job *Job) {
	job.MarkAsProcessing()
	q.updateJob(ctx, job)

	var err error
	switch job.Type {
	case JobTypeSponsorshipExpiry:
		err = q.processSponsorshipExpiryJob(job)
	case JobTypeReceiptEmail:
		err = q.processReceiptEmailJob(job)
	default:
		err = fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err == nil {
		log.Infof("[JobQueue] Job %s completed", job.ID)
		job.MarkAsCompleted()
		q.bumpStat(ctx, JobStatusCompleted)
		q.client.Del(ctx, JobKeyPrefix+job.ID)
		q.client.LRem(ctx, JobProcessingKey, 1, job.ID)
		return
	}

	log.Errorf("[JobQueue] Job %s failed: %v", job.ID, err)
	job.MarkAsFailed(err.Error())

	if job.IsRetryable() {
		log.Infof("[JobQueue] Retrying job %s (Attempt %d/%d)", job.ID, job.RetryCount, job.MaxRetries)
		job.MarkAsRetrying()
		// Backoff grows with the attempt count.
		delay := time.Minute * time.Duration(job.RetryCount)
		time.AfterFunc(delay, func() {
			q.client.LPush(context.Background(), JobQueueKey, job.ID)
		})
	} else {
		log.Errorf("[JobQueue] Job %s permanently failed after %d retries", job.ID, job.RetryCount)
		q.bumpStat(ctx, JobStatusFailed)
	}

	q.updateJob(ctx, job)
	q.client.LRem(ctx, JobProcessingKey, 1, job.ID)
}

// sweepStaleJobs requeues jobs whose worker died mid-flight.
func (q *Queue) sweepStaleJobs(interval time.Duration) {
	defer q.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ctx := context.Background()

	for {
		select {
		case <-q.stopCh:
			return
		case <-ticker.C:
			ids, err := q.client.LRange(ctx, JobProcessingKey, 0, -1).Result()
			if err != nil {
				log.Errorf("[JobQueue] Sweeper LRange error: %v", err)
				continue
			}
			for _, id := range ids {
				q.requeueIfStale(ctx, id)
			}
		}
	}
}

func (q *Queue) requeueIfStale(ctx context.Context, jobID string) {
	data, err := q.client.Get(ctx, JobKeyPrefix+jobID).Result()
	if err != nil {
		// Body expired or missing, the processing entry is garbage.
		if err != redis.Nil {
			log.Errorf("[JobQueue] Sweeper Get error for %s: %v", jobID, err)
		}
		q.client.LRem(ctx, JobProcessingKey, 1, jobID)
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		log.Errorf("[JobQueue] Sweeper unmarshal error for %s: %v", jobID, err)
		q.client.LRem(ctx, JobProcessingKey, 1, jobID)
		return
	}
	if job.Status != JobStatusProcessing {
		q.client.LRem(ctx, JobProcessingKey, 1, jobID)
		return
	}

	started := job.ProcessedAt
	if started == nil || started.IsZero() {
		tmp := job.UpdatedAt
		if tmp.IsZero() {
			tmp = job.CreatedAt
		}
		started = &tmp
	}
	if age := time.Since(*started); age > staleJobAge {
		log.Warnf("[JobQueue] Recovering stuck job %s (type=%s), age=%s", job.ID, job.Type, age)
		job.Status = JobStatusPending
		job.ErrorMsg = "recovered by sweeper"
		job.UpdatedAt = time.Now()
		q.updateJob(ctx, &job)
		q.client.LRem(ctx, JobProcessingKey, 1, jobID)
		q.client.RPush(ctx, JobQueueKey, jobID)
	}
}

func (q *Queue) updateJob(ctx context.Context, job *Job) {
	data, err := json.Marshal(job)
	if err != nil {
		log.Errorf("[JobQueue] Failed to marshal job %s: %v", job.ID, err)
		return
	}
	if err := q.client.Set(ctx, JobKeyPrefix+job.ID, data, JobTTL).Err(); err != nil {
		log.Errorf("[JobQueue] Failed to update job %s: %v", job.ID, err)
	}
}

func (q *Queue) bumpStat(ctx context.Context, status JobStatus) {
	if err := q.client.HIncrBy(ctx, JobStatsKey, string(status), 1).Err(); err != nil {
		log.Errorf("[JobQueue] Failed to update job stats: %v", err)
	}
}
