package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegisterRateLimiterClients exposes the number of client buckets a rate
// limiter currently tracks. active is sampled on every scrape.
func RegisterRateLimiterClients(reg prometheus.Registerer, active func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_limiter_clients",
		Help:      "Client buckets currently held by the vote rate limiter.",
	}, func() float64 {
		return float64(active())
	}))
}
