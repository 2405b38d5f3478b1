// Package sched provides definitions for smoke Jobs and the job
// specifications they are built from.
package sched

import (
	"fmt"

	"github.com/twitter/smoke/cloud/master"
)

// Job is a unit-of-work template the scheduler packs offers against.
// A limited job launches exactly TotalTasks tasks and is then marked
// Scheduled; an endless job (TotalTasks == 0) launches tasks for as long
// as offers keep arriving.
type Job struct {
	// Index is the job's position in the catalog, assigned at catalog
	// construction. Task ids are derived from it.
	Index int

	Command        string
	TaskResources  master.Resources
	TotalTasks     int
	TargetHostname string
	URI            string

	TasksLaunched int
	Scheduled     bool
}

// Endless returns true for jobs with no total-task bound.
func (j *Job) Endless() bool {
	return j.TotalTasks <= 0
}

// NextTaskID derives the id for the job's next task from the job index
// and the per-job launch sequence. Deterministic by construction.
func (j *Job) NextTaskID() master.TaskID {
	return master.TaskID(fmt.Sprintf("%d_%d", j.Index, j.TasksLaunched))
}

// CreateTask synthesizes the job's next task, bound to the given agent
// and committing one task's worth of resources.
func (j *Job) CreateTask(agentID master.AgentID) master.TaskInfo {
	id := j.NextTaskID()
	cmd := master.CommandInfo{Value: j.Command}
	if j.URI != "" {
		cmd.URIs = []string{j.URI}
	}
	return master.TaskInfo{
		ID:        id,
		Name:      fmt.Sprintf("smoke_%s", id),
		AgentID:   agentID,
		Resources: j.TaskResources,
		Command:   cmd,
	}
}

func (j *Job) String() string {
	bound := "endless"
	if !j.Endless() {
		bound = fmt.Sprintf("%d tasks", j.TotalTasks)
	}
	return fmt.Sprintf("{cmd:%q resources:%s %s}", j.Command, j.TaskResources, bound)
}
