package scheduler

import (
	log "github.com/sirupsen/logrus"

	"github.com/twitter/smoke/cloud/master"
	"github.com/twitter/smoke/common/stats"
	"github.com/twitter/smoke/sched"
)

// RunResult is delivered once, when the termination policy stops the run.
type RunResult struct {
	Success bool

	// AbnormalTasks is the number of tasks that terminated in a state other
	// than finished. Zero when Success.
	AbnormalTasks int

	// TasksLaunched is the total number of tasks this run launched.
	TasksLaunched int
}

// smokeScheduler drives smoke jobs against manager offers. It exclusively
// owns the job catalog, task ledger and termination policy for the life of
// the process.
//
// Concurrency: callbacks are invoked serially by the driver and do all of
// their work synchronously on in-memory state; there is no locking here. A
// driver that can deliver events concurrently must serialize them first.
type smokeScheduler struct {
	catalog *jobCatalog
	ledger  *taskLedger
	policy  *terminationPolicy

	frameworkID master.FrameworkID
	stat        stats.StatsReceiver
	resultCh    chan RunResult
	resultSent  bool
}

// NewScheduler builds a scheduler over the given jobs. The returned value
// implements master.Scheduler.
func NewScheduler(jobs []*sched.Job, stat stats.StatsReceiver) *smokeScheduler {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	catalog := newJobCatalog(jobs)
	s := &smokeScheduler{
		catalog:  catalog,
		ledger:   newTaskLedger(stat),
		policy:   newTerminationPolicy(catalog.endlessMode()),
		stat:     stat,
		resultCh: make(chan RunResult, 1),
	}
	log.Info("Smoke scheduler initialized.")
	return s
}

// Result delivers the run outcome once the termination policy stops the
// run. Never delivered in endless mode.
func (s *smokeScheduler) Result() <-chan RunResult {
	return s.resultCh
}

func (s *smokeScheduler) Registered(d master.Driver, frameworkID master.FrameworkID, masterInfo master.MasterInfo) {
	log.WithFields(log.Fields{
		"master":      masterInfo,
		"frameworkID": frameworkID,
	}).Info("Registered with master")
	s.frameworkID = frameworkID
}

func (s *smokeScheduler) Reregistered(d master.Driver, masterInfo master.MasterInfo) {
	log.Infof("Reregistered with master %s", masterInfo)
}

func (s *smokeScheduler) Disconnected(d master.Driver) {
	// Reconnection is the driver's responsibility; no scheduler state changes.
	log.Info("Disconnected!")
}

// ResourceOffers packs each offer against the current job. Every offer is
// answered in this round: accepted with a single launch operation (possibly
// empty), declined outright when no work remains, or skipped on a
// target-host mismatch.
func (s *smokeScheduler) ResourceOffers(d master.Driver, offers []master.Offer) {
	defer s.stat.Latency(stats.SchedOfferMatchLatency_ms).Time().Stop()

	for _, offer := range offers {
		s.stat.Counter(stats.SchedOffersReceivedCounter).Inc(1)

		job := s.catalog.selectJob()
		if job == nil {
			// Scheduling is over; fully resign from any offer.
			if err := d.DeclineOffer(offer.ID, master.DeclineForever); err != nil {
				log.Errorf("Failed to decline offer %s: %v", offer.ID, err)
			}
			s.stat.Counter(stats.SchedOffersDeclinedCounter).Inc(1)
			continue
		}

		log.WithFields(log.Fields{
			"offerID":   offer.ID,
			"agent":     offer.AgentID,
			"host":      offer.Hostname,
			"resources": offer.Resources.String(),
		}).Info("Received offer")

		tasks, skipped := matchOffer(offer, job, s.catalog, s.ledger, s.stat)
		if skipped {
			continue
		}

		operation := master.NewLaunchOperation(tasks)
		if err := d.AcceptOffers([]master.OfferID{offer.ID}, []master.Operation{operation}, master.Filters{}); err != nil {
			log.Errorf("Failed to accept offer %s: %v", offer.ID, err)
		}
	}
}

func (s *smokeScheduler) OfferRescinded(d master.Driver, offerID master.OfferID) {
	log.Infof("Offer %s has been rescinded", offerID)
}

// StatusUpdate feeds the task ledger and re-evaluates the termination
// policy. Updates for unknown task ids change nothing.
func (s *smokeScheduler) StatusUpdate(d master.Driver, status master.TaskStatus) {
	switch status.State {
	case master.TaskLost, master.TaskKilled, master.TaskFailed:
		log.WithFields(log.Fields{
			"taskID":  status.TaskID,
			"state":   status.State,
			"reason":  status.Reason,
			"source":  status.Source,
			"message": status.Message,
		}).Error("Task is in unexpected state")
	default:
		log.Infof("Task '%s' is in state %s", status.TaskID, status.State)
	}

	if !s.ledger.record(status) {
		return
	}

	switch s.policy.evaluate(s.catalog, s.ledger) {
	case stoppedSuccess:
		log.Info("Stopping framework.")
		s.deliverResult(RunResult{Success: true, TasksLaunched: s.ledger.tasksLaunched})
		d.Stop()
	case stoppedFailure:
		log.Errorf("Failed to complete successfully: %d of %d terminated abnormally",
			s.policy.abnormalTasks, s.ledger.tasksLaunched)
		s.deliverResult(RunResult{
			AbnormalTasks: s.policy.abnormalTasks,
			TasksLaunched: s.ledger.tasksLaunched,
		})
		d.Stop()
	}
}

// FrameworkMessage is fatal: this framework registers no executor-side code
// that could legitimately send one, so receiving one is an integration error.
func (s *smokeScheduler) FrameworkMessage(d master.Driver, executorID master.ExecutorID, agentID master.AgentID, data string) {
	log.Fatalf("Received framework message from executor '%s' on agent %s: '%s'", executorID, agentID, data)
}

func (s *smokeScheduler) AgentLost(d master.Driver, agentID master.AgentID) {
	log.Infof("Lost agent %s", agentID)
}

func (s *smokeScheduler) ExecutorLost(d master.Driver, executorID master.ExecutorID, agentID master.AgentID, status int) {
	log.Infof("Lost executor '%s' on agent %s, status %d", executorID, agentID, status)
}

func (s *smokeScheduler) Error(d master.Driver, message string) {
	log.Error(message)
}

func (s *smokeScheduler) deliverResult(result RunResult) {
	if s.resultSent {
		return
	}
	s.resultSent = true
	s.resultCh <- result
}
