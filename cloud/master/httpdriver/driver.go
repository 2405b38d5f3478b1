// Package httpdriver bridges a master.Scheduler to a cluster manager
// speaking a v1-style HTTP scheduler API: calls are JSON POSTs and events
// arrive on a RecordIO-framed streaming response. Events are dispatched to
// the scheduler serially from a single goroutine. The driver owns
// reconnection; the scheduler core never reconnects on its own.
package httpdriver

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	uuid "github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/smoke/cloud/master"
)

const DefaultHTTPTries = 7 // ~2min total of trying with exponential backoff (0 and 1 both mean 1 try total)

const streamIDHeader = "Mesos-Stream-Id"

func MakePesterClient() *pester.Client {
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = DefaultHTTPTries
	client.LogHook = func(e pester.ErrEntry) {
		log.Errorf("Retrying after failed attempt: %+v", e)
	}
	return client
}

type driver struct {
	scheduler  master.Scheduler
	framework  master.FrameworkInfo
	credential *master.Credential
	endpoint   string

	client *pester.Client // call path, retried
	stream *http.Client   // subscribe path, long-lived

	frameworkID master.FrameworkID
	streamID    string
	registered  bool

	mu       sync.Mutex
	stopOnce sync.Once
	stopCh   chan struct{}
	cancel   context.CancelFunc
	aborted  bool
}

// NewDriver builds a driver posting to the scheduler api endpoint at
// masterAddr (e.g. "localhost:5050"). Credential is optional.
func NewDriver(s master.Scheduler, framework master.FrameworkInfo, masterAddr string, credential *master.Credential) master.Driver {
	return &driver{
		scheduler:  s,
		framework:  framework,
		credential: credential,
		endpoint:   "http://" + masterAddr + "/api/v1/scheduler",
		client:     MakePesterClient(),
		stream:     &http.Client{},
		stopCh:     make(chan struct{}),
	}
}

// Run subscribes and dispatches events until Stop or Abort. Subscription
// loss is reported to the scheduler as a disconnect and retried with
// exponential backoff.
func (d *driver) Run() (master.DriverStatus, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0 // retry until stopped

	for {
		if d.stopped() {
			break
		}
		err := d.subscribe()
		if d.stopped() {
			break
		}
		if err != nil {
			log.Errorf("Event stream lost: %v", err)
		}
		if d.registered {
			d.scheduler.Disconnected(d)
		}

		wait := bo.NextBackOff()
		log.Infof("Resubscribing in %v", wait)
		select {
		case <-d.stopCh:
		case <-time.After(wait):
		}
	}

	d.mu.Lock()
	aborted := d.aborted
	d.mu.Unlock()
	if aborted {
		return master.DriverAborted, nil
	}
	d.teardown()
	return master.DriverStopped, nil
}

// AcceptOffers accepts offers with the given operations applied.
func (d *driver) AcceptOffers(offerIDs []master.OfferID, operations []master.Operation, filters master.Filters) error {
	ids := make([]string, 0, len(offerIDs))
	for _, id := range offerIDs {
		ids = append(ids, string(id))
	}
	return d.call(call{
		Type: callAccept,
		Accept: &acceptCall{
			OfferIDs:   ids,
			Operations: toWireOperations(operations),
			Filters:    toWireFilters(filters),
		},
	})
}

// DeclineOffer returns an offer unused, subject to the filters.
func (d *driver) DeclineOffer(offerID master.OfferID, filters master.Filters) error {
	return d.call(call{
		Type: callDecline,
		Decline: &declineCall{
			OfferIDs: []string{string(offerID)},
			Filters:  toWireFilters(filters),
		},
	})
}

func (d *driver) Stop() {
	d.shutdown(false)
}

func (d *driver) Abort() {
	d.shutdown(true)
}

func (d *driver) shutdown(abort bool) {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.aborted = abort
		if d.cancel != nil {
			d.cancel()
		}
		d.mu.Unlock()
		close(d.stopCh)
	})
}

func (d *driver) stopped() bool {
	select {
	case <-d.stopCh:
		return true
	default:
		return false
	}
}

// subscribe opens the event stream and dispatches events until it drops.
func (d *driver) subscribe() error {
	sub := call{Type: callSubscribe, Subscribe: &subscribeCall{FrameworkInfo: d.wireFramework()}}
	if d.frameworkID != "" {
		sub.FrameworkID = string(d.frameworkID)
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return errors.Wrap(err, "could not encode subscribe call")
	}

	req, err := http.NewRequest("POST", d.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "could not build subscribe request")
	}
	d.decorate(req)

	ctx, cancel := context.WithCancel(context.Background())
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	resp, err := d.stream.Do(req.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "subscribe failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := ioutil.ReadAll(resp.Body)
		return errors.Errorf("subscribe rejected: %s: %s", resp.Status, string(msg))
	}
	if id := resp.Header.Get(streamIDHeader); id != "" {
		d.streamID = id
	} else {
		// Stream ids disambiguate calls when the manager runs multiple
		// subscriptions; synthesize one if the manager didn't.
		if generated, err := uuid.NewV4(); err == nil {
			d.streamID = generated.String()
		}
	}

	records := newRecordReader(resp.Body)
	for {
		record, err := records.Next()
		if err != nil {
			return err
		}
		var ev event
		if err := json.Unmarshal(record, &ev); err != nil {
			return errors.Wrap(err, "could not decode event")
		}
		d.dispatch(ev)
		if d.stopped() {
			return nil
		}
	}
}

// dispatch delivers one event to the scheduler. Runs on the stream
// goroutine only, so scheduler callbacks are strictly serialized.
func (d *driver) dispatch(ev event) {
	if malformed(ev) {
		log.Warnf("Ignoring %s event with missing payload", ev.Type)
		return
	}
	switch ev.Type {
	case eventSubscribed:
		d.frameworkID = master.FrameworkID(ev.Subscribed.FrameworkID)
		if !d.registered {
			d.registered = true
			d.scheduler.Registered(d, d.frameworkID, fromWireMaster(ev.Subscribed.MasterInfo))
		} else {
			d.scheduler.Reregistered(d, fromWireMaster(ev.Subscribed.MasterInfo))
		}
	case eventHeartbeat:
		log.Debug("Heartbeat from master")
	case eventOffers:
		d.scheduler.ResourceOffers(d, fromWireOffers(ev.Offers.Offers))
	case eventRescind:
		d.scheduler.OfferRescinded(d, master.OfferID(ev.Rescind.OfferID))
	case eventUpdate:
		status := fromWireStatus(ev.Update.Status)
		d.scheduler.StatusUpdate(d, status)
		if status.UUID != "" {
			if err := d.acknowledge(status); err != nil {
				log.Errorf("Failed to acknowledge status of task %s: %v", status.TaskID, err)
			}
		}
	case eventMessage:
		d.scheduler.FrameworkMessage(d,
			master.ExecutorID(ev.Message.ExecutorID), master.AgentID(ev.Message.AgentID), ev.Message.Data)
	case eventFailure:
		if ev.Failure.ExecutorID != "" {
			d.scheduler.ExecutorLost(d,
				master.ExecutorID(ev.Failure.ExecutorID), master.AgentID(ev.Failure.AgentID), ev.Failure.Status)
		} else {
			d.scheduler.AgentLost(d, master.AgentID(ev.Failure.AgentID))
		}
	case eventError:
		// Subscription-level errors don't recover by resubscribing.
		d.scheduler.Error(d, ev.Error.Message)
		d.Abort()
	default:
		log.Warnf("Ignoring unknown event type %q", ev.Type)
	}
}

func malformed(ev event) bool {
	switch ev.Type {
	case eventSubscribed:
		return ev.Subscribed == nil
	case eventOffers:
		return ev.Offers == nil
	case eventRescind:
		return ev.Rescind == nil
	case eventUpdate:
		return ev.Update == nil
	case eventMessage:
		return ev.Message == nil
	case eventFailure:
		return ev.Failure == nil
	case eventError:
		return ev.Error == nil
	}
	return false
}

func (d *driver) acknowledge(status master.TaskStatus) error {
	return d.call(call{
		Type: callAcknowledge,
		Acknowledge: &acknowledgeCall{
			AgentID: string(status.AgentID),
			TaskID:  string(status.TaskID),
			UUID:    status.UUID,
		},
	})
}

// teardown is best-effort on a clean stop; the manager also reaps the
// framework when the subscription closes.
func (d *driver) teardown() {
	if d.frameworkID == "" {
		return
	}
	if err := d.call(call{Type: callTeardown}); err != nil {
		log.Warnf("Teardown failed: %v", err)
	}
}

// call posts one framework call on the retrying client.
func (d *driver) call(c call) error {
	if c.FrameworkID == "" {
		c.FrameworkID = string(d.frameworkID)
	}
	body, err := json.Marshal(c)
	if err != nil {
		return errors.Wrapf(err, "could not encode %s call", c.Type)
	}
	req, err := http.NewRequest("POST", d.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "could not build %s request", c.Type)
	}
	d.decorate(req)
	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s call failed", c.Type)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := ioutil.ReadAll(resp.Body)
		return errors.Errorf("%s call rejected: %s: %s", c.Type, resp.Status, string(msg))
	}
	return nil
}

func (d *driver) decorate(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if d.streamID != "" {
		req.Header.Set(streamIDHeader, d.streamID)
	}
	if d.credential != nil {
		req.SetBasicAuth(d.credential.Principal, d.credential.Secret)
	}
}

func (d *driver) wireFramework() wireFramework {
	return wireFramework{
		ID:           string(d.framework.ID),
		User:         d.framework.User,
		Name:         d.framework.Name,
		Role:         d.framework.Role,
		Checkpoint:   d.framework.Checkpoint,
		Principal:    d.framework.Principal,
		Capabilities: d.framework.Capabilities,
	}
}
