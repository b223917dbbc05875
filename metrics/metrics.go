package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PoolJoins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unmasked_pool_joins_total",
		Help: "Pool join attempts by pool and result.",
	}, []string{"pool", "result"})

	ConfessionsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unmasked_confessions_published_total",
		Help: "Confessions committed to the provider by pool and result.",
	}, []string{"pool", "result"})

	Reactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unmasked_reactions_total",
		Help: "Local reaction increments by pool and symbol.",
	}, []string{"pool", "symbol"})

	SkippedRetrievals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unmasked_skipped_retrievals_total",
		Help: "Content retrievals skipped during a listing, by group kind.",
	}, []string{"kind"})

	Polls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unmasked_polls_total",
		Help: "Chat feed polls by result.",
	}, []string{"result"})
)

// Result maps an error to the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
