package scheduler

import (
	log "github.com/sirupsen/logrus"

	"github.com/twitter/smoke/cloud/master"
	"github.com/twitter/smoke/common/stats"
)

// taskLedger records every launched task's identity and aggregates
// launch/finish/terminate counts. Counters only ever increase.
type taskLedger struct {
	activeTasks map[master.TaskID]bool

	tasksLaunched   int
	tasksFinished   int
	tasksTerminated int

	stat stats.StatsReceiver
}

func newTaskLedger(stat stats.StatsReceiver) *taskLedger {
	return &taskLedger{
		activeTasks: make(map[master.TaskID]bool),
		stat:        stat,
	}
}

// taskLaunched adds a task to the active set.
func (l *taskLedger) taskLaunched(id master.TaskID) {
	l.activeTasks[id] = true
	l.tasksLaunched++
	l.stat.Counter(stats.SchedTasksLaunchedCounter).Inc(1)
	l.stat.Gauge(stats.SchedActiveTasksGauge).Update(int64(len(l.activeTasks)))
}

// record applies a status update. Updates for unknown task ids indicate a
// protocol anomaly, not a local bug; they are logged and ignored, and the
// caller must not re-evaluate termination for them. Returns true if the
// update referenced a known task.
func (l *taskLedger) record(status master.TaskStatus) bool {
	if !l.activeTasks[status.TaskID] {
		log.Warnf("Unknown task '%s' is in state %s", status.TaskID, status.State)
		l.stat.Counter(stats.SchedUnknownStatusCounter).Inc(1)
		return false
	}

	if status.State.Terminal() {
		if status.State == master.TaskFinished {
			l.tasksFinished++
			l.stat.Counter(stats.SchedTasksFinishedCounter).Inc(1)
		}
		l.tasksTerminated++
		l.stat.Counter(stats.SchedTasksTerminatedCounter).Inc(1)
		delete(l.activeTasks, status.TaskID)
		l.stat.Gauge(stats.SchedActiveTasksGauge).Update(int64(len(l.activeTasks)))
	}
	return true
}
