// Package fake provides an in-memory master.Driver for tests and local
// runs: offers and status updates are injected directly and every accept
// or decline is recorded for inspection.
package fake

import (
	"github.com/davecgh/go-spew/spew"

	"github.com/twitter/smoke/cloud/master"
)

type Accept struct {
	OfferIDs   []master.OfferID
	Operations []master.Operation
	Filters    master.Filters
}

// Tasks flattens the launch operations' tasks.
func (a Accept) Tasks() []master.TaskInfo {
	var tasks []master.TaskInfo
	for _, op := range a.Operations {
		if op.Launch != nil {
			tasks = append(tasks, op.Launch.TaskInfos...)
		}
	}
	return tasks
}

type Decline struct {
	OfferID master.OfferID
	Filters master.Filters
}

// Driver implements master.Driver against in-memory state. Not safe for
// concurrent use; tests drive it from one goroutine like a real driver's
// dispatch loop would.
type Driver struct {
	Accepts  []Accept
	Declines []Decline
	Stopped  bool
	Aborted  bool

	doneCh chan struct{}
}

func NewDriver() *Driver {
	return &Driver{doneCh: make(chan struct{})}
}

// Run blocks until Stop or Abort, mirroring a real driver's Run loop.
func (d *Driver) Run() (master.DriverStatus, error) {
	<-d.doneCh
	if d.Aborted {
		return master.DriverAborted, nil
	}
	return master.DriverStopped, nil
}

func (d *Driver) AcceptOffers(offerIDs []master.OfferID, operations []master.Operation, filters master.Filters) error {
	d.Accepts = append(d.Accepts, Accept{OfferIDs: offerIDs, Operations: operations, Filters: filters})
	return nil
}

func (d *Driver) DeclineOffer(offerID master.OfferID, filters master.Filters) error {
	d.Declines = append(d.Declines, Decline{OfferID: offerID, Filters: filters})
	return nil
}

func (d *Driver) Stop() {
	if !d.Stopped && !d.Aborted {
		d.Stopped = true
		close(d.doneCh)
	}
}

func (d *Driver) Abort() {
	if !d.Stopped && !d.Aborted {
		d.Aborted = true
		close(d.doneCh)
	}
}

// LaunchedTasks flattens every accepted launch operation's tasks in order.
func (d *Driver) LaunchedTasks() []master.TaskInfo {
	var tasks []master.TaskInfo
	for _, a := range d.Accepts {
		tasks = append(tasks, a.Tasks()...)
	}
	return tasks
}

func (d *Driver) String() string {
	return spew.Sdump(struct {
		Accepts  []Accept
		Declines []Decline
		Stopped  bool
		Aborted  bool
	}{d.Accepts, d.Declines, d.Stopped, d.Aborted})
}
