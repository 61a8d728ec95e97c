package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	reqguard "github.com/halcyon-labs/reqguard"
	"github.com/halcyon-labs/reqguard/metrics"
	"github.com/halcyon-labs/reqguard/metrics/export/internaldefs"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() metrics.Snapshot
	AuditDropped() uint64
}

// counterGauge pairs a registry counter with its observable instrument.
type counterGauge struct {
	id  metrics.ID
	ins metric.Int64ObservableCounter
}

// histogramGauges holds one gauge per cumulative bucket bound plus the
// total sample count.
type histogramGauges struct {
	id      metrics.ID
	buckets [len(internaldefs.HistogramBoundSuffix)]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// Exporter bridges the engine's metric registry into an OpenTelemetry
// meter through observable instruments. All reads happen in the meter's
// collection callback, so export cost never lands on a request path.
type Exporter struct {
	source       metricsSource
	counters     []counterGauge
	histograms   []histogramGauges
	dropped      metric.Int64ObservableCounter
	registration metric.Registration
}

// NewExporter registers the engine's counters and histograms with meter.
// Close the returned Exporter to unregister them.
func NewExporter(meter metric.Meter, engine *reqguard.Engine) (*Exporter, error) {
	return NewExporterFromSource(meter, engine)
}

// NewExporterFromSource is the injection point for tests and custom
// snapshot sources.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &Exporter{source: source}

	var observables []metric.Observable
	add := func(ins metric.Observable) { observables = append(observables, ins) }

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("observable counter %s: %w", def.Name, err)
		}
		e.counters = append(e.counters, counterGauge{id: def.ID, ins: ins})
		add(ins)
	}

	for _, def := range internaldefs.HistogramDefs {
		hg := histogramGauges{id: def.ID}
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			ins, err := meter.Int64ObservableGauge(
				def.Name+"_bucket_le_"+suffix,
				metric.WithDescription("Cumulative histogram bucket count."),
			)
			if err != nil {
				return nil, fmt.Errorf("bucket gauge %s le %s: %w", def.Name, suffix, err)
			}
			hg.buckets[i] = ins
			add(ins)
		}
		ins, err := meter.Int64ObservableGauge(
			def.Name+"_count",
			metric.WithDescription("Histogram total sample count."),
		)
		if err != nil {
			return nil, fmt.Errorf("count gauge %s: %w", def.Name, err)
		}
		hg.count = ins
		add(ins)
		e.histograms = append(e.histograms, hg)
	}

	dropped, err := meter.Int64ObservableCounter(
		"reqguard_audit_dropped_total",
		metric.WithDescription("Dropped audit events due to dispatcher backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("audit dropped counter: %w", err)
	}
	e.dropped = dropped
	add(dropped)

	reg, err := meter.RegisterCallback(e.collect, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = reg
	return e, nil
}

func (e *Exporter) collect(_ context.Context, observer metric.Observer) error {
	snap := e.source.MetricsSnapshot()

	for _, c := range e.counters {
		observer.ObserveInt64(c.ins, int64(snap.Counters[c.id]))
	}

	for _, hg := range e.histograms {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snap.Histograms[hg.id]))
		for i, n := range cumulative {
			observer.ObserveInt64(hg.buckets[i], int64(n))
		}
		observer.ObserveInt64(hg.count, int64(cumulative[len(cumulative)-1]))
	}

	observer.ObserveInt64(e.dropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
