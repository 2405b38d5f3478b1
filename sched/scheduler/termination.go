package scheduler

// runState is the termination policy's state.
type runState int

const (
	// running: limited jobs remain unscheduled.
	running runState = iota

	// allWorkScheduled: every limited job reached its bound; waiting for
	// launched tasks to terminate.
	allWorkScheduled

	// stoppedSuccess: all tasks terminated and every one finished cleanly.
	stoppedSuccess

	// stoppedFailure: all tasks terminated but some abnormally.
	stoppedFailure

	// endless: an endless job is present; this state is absorbing and the
	// run only ends via an external stop or kill.
	endless
)

func (s runState) String() string {
	asString := [5]string{"Running", "AllWorkScheduled", "StoppedSuccess", "StoppedFailure", "Endless"}
	return asString[s]
}

func (s runState) stopped() bool {
	return s == stoppedSuccess || s == stoppedFailure
}

// terminationPolicy decides, from catalog completion state and ledger
// counts, whether the run should stop and how.
type terminationPolicy struct {
	state runState

	// abnormalTasks is terminated minus finished, set when entering
	// stoppedFailure.
	abnormalTasks int
}

func newTerminationPolicy(endlessMode bool) *terminationPolicy {
	if endlessMode {
		return &terminationPolicy{state: endless}
	}
	return &terminationPolicy{state: running}
}

// evaluate advances the state machine. Called on every ledger update;
// endless and stopped states never transition further.
func (p *terminationPolicy) evaluate(catalog *jobCatalog, ledger *taskLedger) runState {
	if p.state == endless || p.state.stopped() {
		return p.state
	}

	if p.state == running && catalog.allLimitedScheduled() {
		p.state = allWorkScheduled
	}

	// Completion signals arrive asynchronously and out of order, so compare
	// aggregate counts rather than tracking individual task order.
	if p.state == allWorkScheduled && ledger.tasksTerminated >= ledger.tasksLaunched {
		if abnormal := ledger.tasksTerminated - ledger.tasksFinished; abnormal > 0 {
			p.abnormalTasks = abnormal
			p.state = stoppedFailure
		} else {
			p.state = stoppedSuccess
		}
	}
	return p.state
}
