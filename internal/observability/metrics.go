// 파이프라인/디스패치 카운터
// nil *Metrics에 대해서도 호출이 안전하도록 해서 테스트에서는 등록 없이 생략 가능

package observability

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	pipelineRuns     prometheus.Counter
	readingsStored   prometheus.Counter
	readingsSkipped  prometheus.Counter
	alertsCreated    prometheus.Counter
	dispatchAttempts prometheus.Counter
	dispatchFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pipelineRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plant_pipeline_runs_total",
			Help: "Total pipeline runs executed.",
		}),
		readingsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plant_readings_stored_total",
			Help: "Normalized readings persisted.",
		}),
		readingsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plant_readings_skipped_total",
			Help: "Raw records skipped during normalization (validation failures).",
		}),
		alertsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plant_alerts_created_total",
			Help: "Alert records created by threshold evaluation.",
		}),
		dispatchAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plant_dispatch_attempts_total",
			Help: "Outbound dispatch attempts including retries.",
		}),
		dispatchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plant_dispatch_failures_total",
			Help: "Dispatches that exhausted all retry attempts.",
		}),
	}

	reg.MustRegister(
		m.pipelineRuns, m.readingsStored, m.readingsSkipped,
		m.alertsCreated, m.dispatchAttempts, m.dispatchFailures,
	)
	return m
}

func (m *Metrics) IncPipelineRuns() {
	if m != nil {
		m.pipelineRuns.Inc()
	}
}

func (m *Metrics) AddReadingsStored(n int) {
	if m != nil {
		m.readingsStored.Add(float64(n))
	}
}

func (m *Metrics) AddReadingsSkipped(n int) {
	if m != nil {
		m.readingsSkipped.Add(float64(n))
	}
}

func (m *Metrics) AddAlertsCreated(n int) {
	if m != nil {
		m.alertsCreated.Add(float64(n))
	}
}

func (m *Metrics) IncDispatchAttempts() {
	if m != nil {
		m.dispatchAttempts.Inc()
	}
}

func (m *Metrics) IncDispatchFailures() {
	if m != nil {
		m.dispatchFailures.Inc()
	}
}
