// Package master defines the boundary between the smoke scheduler and the
// cluster manager it registers with: offers, tasks, status updates, and the
// Driver/Scheduler interfaces bridged by a transport adapter.
package master

import "fmt"

type OfferID string
type AgentID string
type TaskID string
type ExecutorID string
type FrameworkID string

// Offer is a time-bounded grant of an agent's spare resources.
// Offers are transient; they are consumed within one matching round.
type Offer struct {
	ID        OfferID
	AgentID   AgentID
	Hostname  string
	Resources Resources
}

// TaskState mirrors the manager's task state names on the wire.
type TaskState string

const (
	TaskStaging  TaskState = "TASK_STAGING"
	TaskStarting TaskState = "TASK_STARTING"
	TaskRunning  TaskState = "TASK_RUNNING"
	TaskFinished TaskState = "TASK_FINISHED"
	TaskFailed   TaskState = "TASK_FAILED"
	TaskKilled   TaskState = "TASK_KILLED"
	TaskLost     TaskState = "TASK_LOST"
)

// Terminal returns true for states from which a task makes no further transition.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskFinished, TaskFailed, TaskKilled, TaskLost:
		return true
	}
	return false
}

// TaskStatus is a status update delivered by the manager for a launched task.
type TaskStatus struct {
	TaskID  TaskID
	State   TaskState
	Reason  string
	Source  string
	Message string
	AgentID AgentID
	UUID    string // set when the manager expects an explicit acknowledgement
}

// CommandInfo describes what an agent should run for a task.
type CommandInfo struct {
	Value string
	URIs  []string
}

// TaskInfo is one concrete scheduled unit derived from a job and an offer.
type TaskInfo struct {
	ID        TaskID
	Name      string
	AgentID   AgentID
	Resources Resources
	Command   CommandInfo
}

// Filters qualifies an accept or decline call.
// RefuseSeconds asks the manager not to re-offer the declined resources for that long.
type Filters struct {
	RefuseSeconds float64
}

// MaxRefuseSeconds is used when declining offers after all work is scheduled,
// signaling the manager not to re-offer at all.
const MaxRefuseSeconds = float64(1<<31 - 1)

// DeclineForever is the backpressure filter used once scheduling is finished.
var DeclineForever = Filters{RefuseSeconds: MaxRefuseSeconds}

type OperationType string

const OperationLaunch OperationType = "LAUNCH"

// Operation is an offer operation submitted when accepting an offer.
// Only LAUNCH is used by this framework.
type Operation struct {
	Type   OperationType
	Launch *LaunchOperation
}

type LaunchOperation struct {
	TaskInfos []TaskInfo
}

// NewLaunchOperation bundles tasks accumulated against a single offer
// into one launch operation.
func NewLaunchOperation(tasks []TaskInfo) Operation {
	return Operation{Type: OperationLaunch, Launch: &LaunchOperation{TaskInfos: tasks}}
}

// FrameworkInfo describes this framework to the manager at registration.
type FrameworkInfo struct {
	ID           FrameworkID
	User         string
	Name         string
	Role         string
	Checkpoint   bool
	Capabilities []string
	Principal    string
}

// RevocableResourcesCapability advertises that this framework accepts
// offers containing revocable resources.
const RevocableResourcesCapability = "REVOCABLE_RESOURCES"

// MasterInfo identifies the manager a driver is connected to.
type MasterInfo struct {
	ID       string
	Hostname string
	Port     int
}

func (m MasterInfo) String() string {
	return fmt.Sprintf("%s:%d (id:%s)", m.Hostname, m.Port, m.ID)
}

// Credential authenticates a framework principal with the manager.
type Credential struct {
	Principal string
	Secret    string
}
