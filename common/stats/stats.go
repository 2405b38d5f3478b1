// Package stats provides a minimal metrics facade backed by go-metrics.
// We wrap go-metrics so callers get a StatsReceiver that can be passed down
// a call tree and scoped at each level, and so the backing library doesn't
// leak to anyone pulling in smoke as a library.
package stats

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
)

// Stats users can either reference this global receiver or construct their own.
var CurrentStatsReceiver StatsReceiver = NilStatsReceiver()

// StatsReceiver is a scoped registry of named instruments.
type StatsReceiver interface {
	// Scope returns a receiver that namespaces instrument names with the
	// given scope elements:
	//
	//   stat.Scope("sched").Counter("foo") // equivalent to
	//   stat.Counter("sched", "foo")
	Scope(scope ...string) StatsReceiver

	// Counter provides a monotonic event counter.
	Counter(name ...string) Counter

	// Gauge holds an int64 value that can be set arbitrarily.
	Gauge(name ...string) Gauge

	// Latency provides a histogram of recorded durations in nanoseconds.
	Latency(name ...string) Latency

	// Render dumps the current instrument values as JSON.
	Render(pretty bool) []byte
}

type Counter interface {
	Inc(delta int64)
	Count() int64
}

type Gauge interface {
	Update(value int64)
	Value() int64
}

// Latency is used as stat.Latency("foo_ms").Time().Stop() around a callsite.
type Latency interface {
	Time() StopWatch
	Record(d time.Duration)
}

type StopWatch interface {
	Stop()
}

// DefaultStatsReceiver returns a receiver backed by a fresh go-metrics registry.
func DefaultStatsReceiver() StatsReceiver {
	return &defaultStatsReceiver{registry: metrics.NewRegistry()}
}

type defaultStatsReceiver struct {
	registry metrics.Registry
	scope    []string
}

func (s *defaultStatsReceiver) Scope(scope ...string) StatsReceiver {
	return &defaultStatsReceiver{registry: s.registry, scope: append(append([]string{}, s.scope...), scope...)}
}

// Hierarchical names use a '/' separator. Slashes inside name elements are
// replaced rather than rejected since counter names can be dynamically
// generated.
func (s *defaultStatsReceiver) scoped(name ...string) string {
	elems := append(append([]string{}, s.scope...), name...)
	for i, e := range elems {
		elems[i] = strings.Replace(e, "/", "_SLASH_", -1)
	}
	return strings.Join(elems, "/")
}

func (s *defaultStatsReceiver) Counter(name ...string) Counter {
	return s.registry.GetOrRegister(s.scoped(name...), metrics.NewCounter).(metrics.Counter)
}

func (s *defaultStatsReceiver) Gauge(name ...string) Gauge {
	return s.registry.GetOrRegister(s.scoped(name...), metrics.NewGauge).(metrics.Gauge)
}

func (s *defaultStatsReceiver) Latency(name ...string) Latency {
	h := s.registry.GetOrRegister(s.scoped(name...), func() metrics.Histogram {
		return metrics.NewHistogram(metrics.NewExpDecaySample(1028, 0.015))
	}).(metrics.Histogram)
	return &latency{hist: h}
}

func (s *defaultStatsReceiver) Render(pretty bool) []byte {
	out := map[string]interface{}{}
	s.registry.Each(func(name string, i interface{}) {
		switch m := i.(type) {
		case metrics.Counter:
			out[name] = m.Count()
		case metrics.Gauge:
			out[name] = m.Value()
		case metrics.Histogram:
			snap := m.Snapshot()
			out[name+".count"] = snap.Count()
			out[name+".avg"] = snap.Mean()
			out[name+".p95"] = snap.Percentile(0.95)
		}
	})
	var data []byte
	if pretty {
		data, _ = json.MarshalIndent(out, "", "  ")
	} else {
		data, _ = json.Marshal(out)
	}
	return data
}

type latency struct {
	hist metrics.Histogram
}

func (l *latency) Record(d time.Duration) { l.hist.Update(int64(d)) }

func (l *latency) Time() StopWatch {
	return &stopWatch{start: time.Now(), l: l}
}

type stopWatch struct {
	start time.Time
	l     *latency
}

func (s *stopWatch) Stop() { s.l.Record(time.Since(s.start)) }

// NilStatsReceiver returns a receiver whose instruments do nothing, for
// callers that don't care about stats (e.g. tests).
func NilStatsReceiver(scope ...string) StatsReceiver {
	return nilStatsReceiver{}
}

type nilStatsReceiver struct{}

func (s nilStatsReceiver) Scope(scope ...string) StatsReceiver { return s }
func (s nilStatsReceiver) Counter(name ...string) Counter      { return nilCounter{} }
func (s nilStatsReceiver) Gauge(name ...string) Gauge          { return nilGauge{} }
func (s nilStatsReceiver) Latency(name ...string) Latency      { return nilLatency{} }
func (s nilStatsReceiver) Render(pretty bool) []byte           { return []byte("{}") }

type nilCounter struct{}

func (c nilCounter) Inc(delta int64) {}
func (c nilCounter) Count() int64    { return 0 }

type nilGauge struct{}

func (g nilGauge) Update(value int64) {}
func (g nilGauge) Value() int64       { return 0 }

type nilLatency struct{}

func (l nilLatency) Time() StopWatch        { return nilStopWatch{} }
func (l nilLatency) Record(d time.Duration) {}

type nilStopWatch struct{}

func (s nilStopWatch) Stop() {}
