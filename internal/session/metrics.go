package session

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what the Manager does. Collectors are registered with the
// registerer passed to NewMetrics; a nil registerer leaves them unregistered.
type Metrics struct {
	requests  *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	redirects prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "parcel_session_requests_total",
			Help: "Requests sent through the session manager, by attempt and response code.",
		}, []string{"attempt", "code"}),
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "parcel_session_refreshes_total",
			Help: "Access token refresh calls, by result.",
		}, []string{"result"}),
		redirects: f.NewCounter(prometheus.CounterOpts{
			Name: "parcel_session_login_redirects_total",
			Help: "Forced navigations to the login route.",
		}),
	}
}

func (m *Metrics) observeRequest(attempt Attempt, code int, err error) {
	label := "error"
	if err == nil {
		label = strconv.Itoa(code)
	}
	m.requests.WithLabelValues(attempt.String(), label).Inc()
}

func (m *Metrics) observeRefresh(err error) {
	if err != nil {
		m.refreshes.WithLabelValues("failure").Inc()
		return
	}
	m.refreshes.WithLabelValues("success").Inc()
}
