package scheduler

import (
	log "github.com/sirupsen/logrus"

	"github.com/twitter/smoke/cloud/master"
	"github.com/twitter/smoke/common/stats"
	"github.com/twitter/smoke/sched"
)

// matchOffer greedily derives tasks for one job from one offer: while the
// offer's remaining resources dominate the job's per-task requirement,
// subtract the requirement and synthesize one task bound to the offer's
// agent. Only one job is ever matched per offer; leftovers are not spilled
// to another job in the same round.
//
// A target-host mismatch skips the offer for this round entirely, with no
// explicit decline. The manager may then hold those resources until its
// offer timeout; see the package notes on declining such offers instead.
//
// Returns the synthesized tasks and whether the offer was skipped.
func matchOffer(offer master.Offer, job *sched.Job, catalog *jobCatalog, ledger *taskLedger, stat stats.StatsReceiver) ([]master.TaskInfo, bool) {
	if job.TargetHostname != "" && job.TargetHostname != offer.Hostname {
		log.Infof("Offered host %s not matched with target %s. Omitting.", offer.Hostname, job.TargetHostname)
		stat.Counter(stats.SchedOffersSkippedCounter).Inc(1)
		return nil, true
	}

	remaining := offer.Resources
	var tasks []master.TaskInfo
	for {
		if !remaining.Contains(job.TaskResources) {
			log.Infof("Not enough resources for task %s. Needed: %s Offered: %s",
				job.NextTaskID(), job.TaskResources, remaining)
			break
		}
		remaining = remaining.Minus(job.TaskResources)

		task := job.CreateTask(offer.AgentID)
		tasks = append(tasks, task)
		ledger.taskLaunched(task.ID)
		job.TasksLaunched++
		log.WithFields(log.Fields{
			"taskID": task.ID,
			"agent":  offer.AgentID,
			"host":   offer.Hostname,
		}).Info("Launching task")

		if !job.Endless() && job.TasksLaunched >= job.TotalTasks {
			// Limited jobs stop once their total-task bound is reached.
			job.Scheduled = true
			catalog.jobScheduled()
			stat.Counter(stats.SchedJobsScheduledCounter).Inc(1)
			break
		}
	}
	return tasks, false
}
