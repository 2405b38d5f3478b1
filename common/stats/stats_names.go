package stats

// Instrument names used by the smoke scheduler.
const (
	// SchedOffersReceivedCounter is the number of resource offers delivered
	// by the manager.
	SchedOffersReceivedCounter = "schedOffersReceivedCounter"

	// SchedOffersDeclinedCounter is the number of offers declined outright
	// because no work remained.
	SchedOffersDeclinedCounter = "schedOffersDeclinedCounter"

	// SchedOffersSkippedCounter is the number of offers skipped due to a
	// target-host mismatch.
	SchedOffersSkippedCounter = "schedOffersSkippedCounter"

	// SchedTasksLaunchedCounter is the number of tasks launched.
	SchedTasksLaunchedCounter = "schedTasksLaunchedCounter"

	// SchedTasksFinishedCounter is the number of tasks that reached
	// TASK_FINISHED.
	SchedTasksFinishedCounter = "schedTasksFinishedCounter"

	// SchedTasksTerminatedCounter is the number of tasks that reached any
	// terminal state.
	SchedTasksTerminatedCounter = "schedTasksTerminatedCounter"

	// SchedJobsScheduledCounter is the number of limited jobs that reached
	// their total-task bound.
	SchedJobsScheduledCounter = "schedJobsScheduledCounter"

	// SchedActiveTasksGauge is the current number of launched,
	// non-terminated tasks.
	SchedActiveTasksGauge = "schedActiveTasksGauge"

	// SchedUnknownStatusCounter is the number of status updates referencing
	// task ids this scheduler never launched.
	SchedUnknownStatusCounter = "schedUnknownStatusCounter"

	// SchedOfferMatchLatency_ms is the time spent matching one offer batch.
	SchedOfferMatchLatency_ms = "schedOfferMatchLatency_ms"
)
