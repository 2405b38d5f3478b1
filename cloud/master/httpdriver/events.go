package httpdriver

import (
	"github.com/twitter/smoke/cloud/master"
)

// Wire form of the manager's v1-style scheduler API, JSON over HTTP with a
// RecordIO-framed event stream. Field shapes mirror the manager's; the
// conversions below keep wire details out of the master package types.

const (
	eventSubscribed = "SUBSCRIBED"
	eventHeartbeat  = "HEARTBEAT"
	eventOffers     = "OFFERS"
	eventRescind    = "RESCIND"
	eventUpdate     = "UPDATE"
	eventMessage    = "MESSAGE"
	eventFailure    = "FAILURE"
	eventError      = "ERROR"

	callSubscribe   = "SUBSCRIBE"
	callAccept      = "ACCEPT"
	callDecline     = "DECLINE"
	callAcknowledge = "ACKNOWLEDGE"
	callTeardown    = "TEARDOWN"
)

type event struct {
	Type       string           `json:"type"`
	Subscribed *subscribedEvent `json:"subscribed,omitempty"`
	Offers     *offersEvent     `json:"offers,omitempty"`
	Rescind    *rescindEvent    `json:"rescind,omitempty"`
	Update     *updateEvent     `json:"update,omitempty"`
	Message    *messageEvent    `json:"message,omitempty"`
	Failure    *failureEvent    `json:"failure,omitempty"`
	Error      *errorEvent      `json:"error,omitempty"`
}

type subscribedEvent struct {
	FrameworkID              string     `json:"framework_id"`
	MasterInfo               wireMaster `json:"master_info"`
	HeartbeatIntervalSeconds float64    `json:"heartbeat_interval_seconds,omitempty"`
}

type wireMaster struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	Port     int    `json:"port"`
}

type offersEvent struct {
	Offers []wireOffer `json:"offers"`
}

type wireOffer struct {
	ID        string         `json:"id"`
	AgentID   string         `json:"agent_id"`
	Hostname  string         `json:"hostname"`
	Resources []wireResource `json:"resources"`
}

type wireResource struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Revocable bool    `json:"revocable,omitempty"`
}

type rescindEvent struct {
	OfferID string `json:"offer_id"`
}

type updateEvent struct {
	Status wireStatus `json:"status"`
}

type wireStatus struct {
	TaskID  string `json:"task_id"`
	State   string `json:"state"`
	Reason  string `json:"reason,omitempty"`
	Source  string `json:"source,omitempty"`
	Message string `json:"message,omitempty"`
	AgentID string `json:"agent_id,omitempty"`
	UUID    string `json:"uuid,omitempty"`
}

type messageEvent struct {
	ExecutorID string `json:"executor_id"`
	AgentID    string `json:"agent_id"`
	Data       string `json:"data"`
}

type failureEvent struct {
	AgentID    string `json:"agent_id,omitempty"`
	ExecutorID string `json:"executor_id,omitempty"`
	Status     int    `json:"status,omitempty"`
}

type errorEvent struct {
	Message string `json:"message"`
}

type call struct {
	Type        string           `json:"type"`
	FrameworkID string           `json:"framework_id,omitempty"`
	Subscribe   *subscribeCall   `json:"subscribe,omitempty"`
	Accept      *acceptCall      `json:"accept,omitempty"`
	Decline     *declineCall     `json:"decline,omitempty"`
	Acknowledge *acknowledgeCall `json:"acknowledge,omitempty"`
}

type subscribeCall struct {
	FrameworkInfo wireFramework `json:"framework_info"`
}

type wireFramework struct {
	ID           string   `json:"id,omitempty"`
	User         string   `json:"user"`
	Name         string   `json:"name"`
	Role         string   `json:"role,omitempty"`
	Checkpoint   bool     `json:"checkpoint,omitempty"`
	Principal    string   `json:"principal,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

type acceptCall struct {
	OfferIDs   []string        `json:"offer_ids"`
	Operations []wireOperation `json:"operations"`
	Filters    *wireFilters    `json:"filters,omitempty"`
}

type wireOperation struct {
	Type   string      `json:"type"`
	Launch *wireLaunch `json:"launch,omitempty"`
}

type wireLaunch struct {
	TaskInfos []wireTask `json:"task_infos"`
}

type wireTask struct {
	ID        string         `json:"task_id"`
	Name      string         `json:"name"`
	AgentID   string         `json:"agent_id"`
	Resources []wireResource `json:"resources"`
	Command   wireCommand    `json:"command"`
}

type wireCommand struct {
	Value string   `json:"value"`
	URIs  []string `json:"uris,omitempty"`
}

type declineCall struct {
	OfferIDs []string     `json:"offer_ids"`
	Filters  *wireFilters `json:"filters,omitempty"`
}

type wireFilters struct {
	RefuseSeconds float64 `json:"refuse_seconds"`
}

type acknowledgeCall struct {
	AgentID string `json:"agent_id"`
	TaskID  string `json:"task_id"`
	UUID    string `json:"uuid"`
}

func toWireResources(r master.Resources) []wireResource {
	out := make([]wireResource, 0, len(r))
	for _, res := range r {
		out = append(out, wireResource{Name: res.Name, Value: res.Value, Revocable: res.Revocable})
	}
	return out
}

func fromWireResources(w []wireResource) master.Resources {
	out := make(master.Resources, 0, len(w))
	for _, res := range w {
		out = append(out, master.Resource{Name: res.Name, Value: res.Value, Revocable: res.Revocable})
	}
	return out
}

func fromWireOffers(w []wireOffer) []master.Offer {
	out := make([]master.Offer, 0, len(w))
	for _, o := range w {
		out = append(out, master.Offer{
			ID:        master.OfferID(o.ID),
			AgentID:   master.AgentID(o.AgentID),
			Hostname:  o.Hostname,
			Resources: fromWireResources(o.Resources),
		})
	}
	return out
}

func fromWireStatus(w wireStatus) master.TaskStatus {
	return master.TaskStatus{
		TaskID:  master.TaskID(w.TaskID),
		State:   master.TaskState(w.State),
		Reason:  w.Reason,
		Source:  w.Source,
		Message: w.Message,
		AgentID: master.AgentID(w.AgentID),
		UUID:    w.UUID,
	}
}

func fromWireMaster(w wireMaster) master.MasterInfo {
	return master.MasterInfo{ID: w.ID, Hostname: w.Hostname, Port: w.Port}
}

func toWireOperations(ops []master.Operation) []wireOperation {
	out := make([]wireOperation, 0, len(ops))
	for _, op := range ops {
		wireOp := wireOperation{Type: string(op.Type)}
		if op.Launch != nil {
			launch := &wireLaunch{TaskInfos: make([]wireTask, 0, len(op.Launch.TaskInfos))}
			for _, t := range op.Launch.TaskInfos {
				launch.TaskInfos = append(launch.TaskInfos, wireTask{
					ID:        string(t.ID),
					Name:      t.Name,
					AgentID:   string(t.AgentID),
					Resources: toWireResources(t.Resources),
					Command:   wireCommand{Value: t.Command.Value, URIs: t.Command.URIs},
				})
			}
			wireOp.Launch = launch
		}
		out = append(out, wireOp)
	}
	return out
}

func toWireFilters(f master.Filters) *wireFilters {
	if f.RefuseSeconds == 0 {
		return nil
	}
	return &wireFilters{RefuseSeconds: f.RefuseSeconds}
}
