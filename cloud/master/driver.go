package master

//go:generate mockgen -source=driver.go -package=master -destination=driver_mock.go

// DriverStatus is the terminal status of a driver's Run loop.
type DriverStatus int

const (
	DriverStopped DriverStatus = iota
	DriverAborted
)

func (s DriverStatus) String() string {
	asString := [2]string{"DriverStopped", "DriverAborted"}
	return asString[s]
}

// Driver is the framework's handle on the cluster manager transport.
// Implementations own connection lifecycle and reconnection; the scheduler
// core never reconnects on its own.
type Driver interface {
	// Run connects and delivers events to the Scheduler until Stop or Abort.
	Run() (DriverStatus, error)

	// AcceptOffers accepts the given offers, applying the operations to
	// their resources. Unused offer resources are returned to the manager
	// subject to the filters.
	AcceptOffers(offerIDs []OfferID, operations []Operation, filters Filters) error

	// DeclineOffer returns an offer to the manager unused.
	DeclineOffer(offerID OfferID, filters Filters) error

	// Stop disconnects cleanly; Run returns DriverStopped.
	Stop()

	// Abort disconnects without teardown; Run returns DriverAborted.
	Abort()
}

// Scheduler is the capability set a framework implements to receive
// manager events. The driver invokes these callbacks serially; nothing in
// an implementation may block.
type Scheduler interface {
	Registered(d Driver, frameworkID FrameworkID, masterInfo MasterInfo)
	Reregistered(d Driver, masterInfo MasterInfo)
	Disconnected(d Driver)
	ResourceOffers(d Driver, offers []Offer)
	OfferRescinded(d Driver, offerID OfferID)
	StatusUpdate(d Driver, status TaskStatus)
	FrameworkMessage(d Driver, executorID ExecutorID, agentID AgentID, data string)
	AgentLost(d Driver, agentID AgentID)
	ExecutorLost(d Driver, executorID ExecutorID, agentID AgentID, status int)
	Error(d Driver, message string)
}
