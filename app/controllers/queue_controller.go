package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/WeOneApp/wardsponsor/app/repository"
	"github.com/WeOneApp/wardsponsor/internal/pkg/jobqueue"
)

// HandleAdminQueueStats reports the background queue depths and manager state.
func HandleAdminQueueStats(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().Queue

	pending, err := repo.GetListLength(jobqueue.JobQueueKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to read queue length"})
	}
	processing, err := repo.GetListLength(jobqueue.JobProcessingKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to read processing length"})
	}

	jobKeys, err := repo.FindKeysByPatterns([]string{jobqueue.JobKeyPrefix + "*"})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to scan job keys"})
	}

	stats, err := jobqueue.GetManager().GetQueue().GetJobStats(c.Context())
	if err != nil {
		log.Warnf("[Queue] failed to read job stats: %v", err)
		stats = map[jobqueue.JobStatus]int64{}
	}

	return c.JSON(fiber.Map{
		"running":    jobqueue.GetManager().IsRunning(),
		"pending":    pending,
		"processing": processing,
		"tracked":    len(jobKeys),
		"lifetime":   stats,
	})
}

// HandleAdminQueueJobs lists tracked job records with their remaining TTL.
func HandleAdminQueueJobs(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().Queue

	keys, err := repo.FindKeysByPatterns([]string{jobqueue.JobKeyPrefix + "*"})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to scan job keys"})
	}

	jobs := make([]fiber.Map, 0, len(keys))
	for _, key := range keys {
		value, err := repo.GetValue(key)
		if err != nil {
			continue
		}
		ttl, err := repo.GetTTL(key)
		if err != nil {
			ttl = -1
		}
		jobs = append(jobs, fiber.Map{
			"key":         key,
			"job":         value,
			"ttl_seconds": int64(ttl.Seconds()),
		})
	}

	return c.JSON(fiber.Map{"jobs": jobs})
}

// HandleAdminQueuePurge deletes finished job records matching the given
// pattern (defaults to everything under the job key prefix).
func HandleAdminQueuePurge(c *fiber.Ctx) error {
	pattern := c.Query("pattern", jobqueue.JobKeyPrefix+"*")

	repo := repository.GetGlobalRepositories().Queue
	keys, err := repo.FindKeysByPatterns([]string{pattern})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to scan keys"})
	}

	deleted, err := repo.DeleteKeys(keys)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete keys"})
	}

	log.Infof("[Queue] purged %d keys matching %s", deleted, pattern)
	return c.JSON(fiber.Map{"deleted": deleted})
}

// HandleAdminExpirySweep triggers a sponsorship expiry sweep immediately.
func HandleAdminExpirySweep(c *fiber.Ctx) error {
	if err := jobqueue.GetManager().RunExpirySweepOnce(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to enqueue expiry sweep"})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"ok": true})
}
