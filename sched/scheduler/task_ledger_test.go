package scheduler

import (
	"testing"

	"github.com/twitter/smoke/cloud/master"
	"github.com/twitter/smoke/common/stats"
)

func Test_TaskLedger_CountsTerminalStates(t *testing.T) {
	ledger := newTaskLedger(stats.NilStatsReceiver())
	ledger.taskLaunched("0_0")
	ledger.taskLaunched("0_1")
	ledger.taskLaunched("0_2")

	// Non-terminal updates change no terminal counters.
	ledger.record(master.TaskStatus{TaskID: "0_0", State: master.TaskRunning})
	if ledger.tasksTerminated != 0 || ledger.tasksFinished != 0 {
		t.Errorf("Non-terminal update should not terminate, got terminated=%d", ledger.tasksTerminated)
	}

	ledger.record(master.TaskStatus{TaskID: "0_0", State: master.TaskFinished})
	ledger.record(master.TaskStatus{TaskID: "0_1", State: master.TaskFailed})
	ledger.record(master.TaskStatus{TaskID: "0_2", State: master.TaskLost})

	if ledger.tasksLaunched != 3 || ledger.tasksTerminated != 3 || ledger.tasksFinished != 1 {
		t.Errorf("Wrong counts: launched=%d terminated=%d finished=%d",
			ledger.tasksLaunched, ledger.tasksTerminated, ledger.tasksFinished)
	}
	if len(ledger.activeTasks) != 0 {
		t.Errorf("Terminated tasks should leave the active set, %d remain", len(ledger.activeTasks))
	}
}

func Test_TaskLedger_UnknownTaskIgnored(t *testing.T) {
	ledger := newTaskLedger(stats.NilStatsReceiver())
	ledger.taskLaunched("0_0")

	if ledger.record(master.TaskStatus{TaskID: "9_9", State: master.TaskFinished}) {
		t.Errorf("Update for an unknown task should report ignored")
	}
	if ledger.tasksTerminated != 0 || ledger.tasksFinished != 0 || len(ledger.activeTasks) != 1 {
		t.Errorf("Unknown task update should change no counters")
	}
}

func Test_TaskLedger_TerminatedTaskBecomesUnknown(t *testing.T) {
	ledger := newTaskLedger(stats.NilStatsReceiver())
	ledger.taskLaunched("0_0")
	ledger.record(master.TaskStatus{TaskID: "0_0", State: master.TaskFinished})

	// A duplicate terminal update arrives out of order; it no longer counts.
	if ledger.record(master.TaskStatus{TaskID: "0_0", State: master.TaskFailed}) {
		t.Errorf("Update for an already-terminated task should report ignored")
	}
	if ledger.tasksTerminated != 1 || ledger.tasksFinished != 1 {
		t.Errorf("Duplicate terminal update should change no counters")
	}
}
