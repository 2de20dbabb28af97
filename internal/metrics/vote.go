package metrics

import "github.com/prometheus/client_golang/prometheus"

// VoteMetrics counts vote, favorite and score transitions.
// A nil *VoteMetrics is valid and records nothing.
type VoteMetrics struct {
	Votes        *prometheus.CounterVec
	Favorites    *prometheus.CounterVec
	ScoreUpdates *prometheus.CounterVec
	Rejected     *prometheus.CounterVec
}

// NewVoteMetrics creates and registers vote metrics on the given registry.
func NewVoteMetrics(reg prometheus.Registerer) *VoteMetrics {
	m := &VoteMetrics{
		Votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Committed votes, by direction, transition and actor tier.",
		}, []string{"direction", "transition", "tier"}),
		Favorites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorites_total",
			Help:      "Committed favorite toggles, by resulting status.",
		}, []string{"status"}),
		ScoreUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_updates_total",
			Help:      "Entry score mutations, by mode.",
		}, []string{"mode"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_rejected_total",
			Help:      "Vote attempts that changed nothing, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.Votes, m.Favorites, m.ScoreUpdates, m.Rejected)
	return m
}

func (m *VoteMetrics) ObserveVote(direction, transition, tier string) {
	if m == nil {
		return
	}
	m.Votes.WithLabelValues(direction, transition, tier).Inc()
}

func (m *VoteMetrics) ObserveFavorite(status string) {
	if m == nil {
		return
	}
	m.Favorites.WithLabelValues(status).Inc()
}

func (m *VoteMetrics) ObserveScoreUpdate(mode string) {
	if m == nil {
		return
	}
	m.ScoreUpdates.WithLabelValues(mode).Inc()
}

func (m *VoteMetrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(reason).Inc()
}
