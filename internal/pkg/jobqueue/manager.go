package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/WeOneApp/wardsponsor/internal/pkg/env"
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue        *Queue
	expiryTicker *time.Ticker
	stopCh       chan struct{}
	wg           sync.WaitGroup
	mu           sync.Mutex
	running      bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 2
		if v, err := strconv.Atoi(env.GetEnv("JOB_QUEUE_WORKERS", "")); err == nil && v > 0 {
			workerCount = v
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	// Start the job queue
	m.queue.Start()

	// Expiry sweep interval, configurable in minutes
	expiryInterval := 30 * time.Minute
	if v, err := strconv.Atoi(env.GetEnv("SPONSORSHIP_EXPIRY_INTERVAL_MINUTES", "")); err == nil && v > 0 {
		expiryInterval = time.Duration(v) * time.Minute
	}

	m.expiryTicker = time.NewTicker(expiryInterval)
	m.wg.Add(1)
	go m.expiryWorker(expiryInterval)

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.expiryTicker != nil {
		m.expiryTicker.Stop()
	}

	// Signal workers to stop
	close(m.stopCh)
	m.stopCh = nil
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	// Stop the job queue
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// expiryWorker periodically enqueues a sponsorship expiry sweep
func (m *Manager) expiryWorker(interval time.Duration) {
	defer m.wg.Done()
	log.Infof("[JobQueue Manager] Started expiry worker (interval: %s)", interval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Expiry worker stopping")
			return
		case <-m.expiryTicker.C:
			payload := SponsorshipExpiryJobPayload{RequestedAt: time.Now()}
			if _, err := m.queue.EnqueueJob(JobTypeSponsorshipExpiry, payload.ToMap()); err != nil {
				log.Errorf("[JobQueue Manager] Error enqueuing expiry sweep: %v", err)
			}
		}
	}
}

// RunExpirySweepOnce exposes a manual trigger for a single expiry sweep (admin use).
func (m *Manager) RunExpirySweepOnce() error {
	_, err := m.queue.EnqueueJob(JobTypeSponsorshipExpiry, SponsorshipExpiryJobPayload{RequestedAt: time.Now()}.ToMap())
	return err
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
