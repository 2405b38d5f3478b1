// Package scheduler implements the offer-driven smoke scheduler: a job
// catalog of pending work, a greedy offer matcher, a ledger of launched
// tasks, and the termination policy deciding when the run stops.
package scheduler

import (
	log "github.com/sirupsen/logrus"

	"github.com/twitter/smoke/sched"
)

// jobCatalog holds pending jobs, partitioned into limited jobs (fixed task
// count, serviced FIFO in insertion order) and at most one endless job.
//
// Limited jobs are not prioritized beyond insertion order; a pluggable
// comparator is a known extension point that has never been built.
type jobCatalog struct {
	limited []*sched.Job
	endless *sched.Job

	// jobsScheduled counts limited jobs that reached their total-task bound.
	jobsScheduled int
}

// newJobCatalog partitions jobs and assigns catalog indexes. If more than
// one endless job is supplied only the first is retained; the rest are
// diagnosed and dropped.
func newJobCatalog(jobs []*sched.Job) *jobCatalog {
	c := &jobCatalog{}
	for _, job := range jobs {
		if !job.Endless() {
			job.Index = len(c.limited)
			c.limited = append(c.limited, job)
		} else if c.endless == nil {
			c.endless = job
		} else {
			log.Warnf("Only one endless job is supported, dropping job with cmd:%q "+
				"(keeping cmd:%q)", job.Command, c.endless.Command)
		}
	}
	if c.endless != nil {
		c.endless.Index = len(c.limited)
	}
	return c
}

// selectJob returns the next job to service: the first limited job not yet
// fully scheduled, else the endless job, else nil. A nil result means all
// work is scheduled and offers should be declined outright.
func (c *jobCatalog) selectJob() *sched.Job {
	for _, job := range c.limited {
		if !job.Scheduled {
			return job
		}
	}
	return c.endless
}

// jobScheduled records that a limited job reached its bound.
func (c *jobCatalog) jobScheduled() {
	c.jobsScheduled++
}

// allLimitedScheduled reports whether every limited job reached its bound.
func (c *jobCatalog) allLimitedScheduled() bool {
	return c.jobsScheduled >= len(c.limited)
}

// endlessMode reports whether the catalog holds an endless job, in which
// case the run never terminates on its own.
func (c *jobCatalog) endlessMode() bool {
	return c.endless != nil
}
