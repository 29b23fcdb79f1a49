package endpoint

import (
	"net/http"

	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	botStates = []api.BotState{api.StateHealthy, api.StateDegraded, api.StateBroken}

	outputStates = []api.OutputState{api.OutputProducing, api.OutputReadyButIdle, api.OutputStalled, api.OutputMisaligned}

	checkStatuses = []api.CheckStatus{api.CheckPass, api.CheckWarn, api.CheckFail}
)

// collector reads the Store on each scrape.
type collector struct {
	s       Store
	runners []Runner

	businessState       *prometheus.Desc
	check               *prometheus.Desc
	deployStale         *prometheus.Desc
	outputState         *prometheus.Desc
	stagnationDays      *prometheus.Desc
	consecutiveIdleDays *prometheus.Desc
	outputs             *prometheus.Desc
	failures            *prometheus.Desc
	healthy             *prometheus.Desc
}

func newCollector(s Store, runners []Runner) *collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("ggbot", "", name), help, labels, nil)
	}

	return &collector{
		s:       s,
		runners: runners,

		businessState:       desc("business_state", "The platform state of the latest Business Bot run.", "state"),
		check:               desc("check_status", "The status of each health check of the latest Business Bot run.", "check", "status"),
		deployStale:         desc("deploy_stale", "1 if the running server does not have the latest commit."),
		outputState:         desc("output_state", "The output state of the latest Output Engine run.", "state"),
		stagnationDays:      desc("output_stagnation_days", "Days since the last meaningful output."),
		consecutiveIdleDays: desc("output_consecutive_idle_days", "Days the Output Engine has been not PRODUCING."),
		outputs:             desc("output_events", "The number of output events in the window.", "window"),
		failures:            desc("scheduler_consecutive_failures", "Consecutive failed runs of each pipeline.", "pipeline"),
		healthy:             desc("healthy", "1 if ggbot itself has no internal error."),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.businessState, c.check, c.deployStale,
		c.outputState, c.stagnationDays, c.consecutiveIdleDays, c.outputs,
		c.failures, c.healthy,
	} {
		ch <- d
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}

	if st, ok := c.s.BusinessStatus(); ok {
		for _, s := range botStates {
			gauge(c.businessState, boolValue(st.State == s), s.String())
		}
		for _, check := range st.Checks {
			for _, s := range checkStatuses {
				gauge(c.check, boolValue(check.Status == s), check.Name, s.String())
			}
		}
		if st.Deployment != nil {
			gauge(c.deployStale, boolValue(st.Deployment.IsStale))
		}
	}

	if st, ok := c.s.OutputStatus(); ok {
		for _, s := range outputStates {
			gauge(c.outputState, boolValue(st.State == s), s.String())
		}
		gauge(c.stagnationDays, float64(st.StagnationDays))
		gauge(c.consecutiveIdleDays, float64(st.ConsecutiveIdleDays))
		gauge(c.outputs, float64(st.OutputCountLast7Days), "7d")
		gauge(c.outputs, float64(st.OutputCountLast30Days), "30d")
	}

	for _, r := range c.runners {
		s := r.Status()
		gauge(c.failures, float64(s.ConsecutiveFailures), s.Name)
	}

	healthy, _ := c.s.Errors()
	gauge(c.healthy, boolValue(healthy))
}

// MetricsEndpoint implements Prometheus metrics endpoint.
// It uses its own registry, so nothing else is exposed than the bots' results.
func MetricsEndpoint(s Store, runners []Runner) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newCollector(s, runners))

	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
