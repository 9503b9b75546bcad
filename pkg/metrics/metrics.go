// Package metrics exposes roll counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vtmroll/vtmroll/pkg/dice"
)

const namespace = "vtmroll"

// Recorder counts bot activity. A nil *Recorder records nothing.
type Recorder struct {
	rolls     *prometheus.CounterVec
	dice      *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	throttled *prometheus.CounterVec
}

// New registers the bot's collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		rolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rolls_total",
			Help:      "Resolved rolls by channel and outcome.",
		}, []string{"channel", "outcome"}),
		dice: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dice_rolled_total",
			Help:      "Dice rolled by pool.",
		}, []string{"pool"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_rejected_total",
			Help:      "Commands answered with usage or limit text.",
		}, []string{"channel", "reason"}),
		throttled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_throttled_total",
			Help:      "Commands dropped by the per-sender rate limit.",
		}, []string{"channel"}),
	}
	reg.MustRegister(r.rolls, r.dice, r.rejected, r.throttled)
	return r
}

// Init exports a zero series for every outcome on each channel so rates
// are defined before the first roll.
func (r *Recorder) Init(channels []string) {
	if r == nil {
		return
	}
	for _, channel := range channels {
		for _, o := range dice.Outcomes {
			r.rolls.WithLabelValues(channel, o.String())
		}
	}
}

func (r *Recorder) Roll(channel string, res dice.Result) {
	if r == nil {
		return
	}
	r.rolls.WithLabelValues(channel, res.Outcome.String()).Inc()
	r.dice.WithLabelValues("normal").Add(float64(len(res.Tally.Normal.Rolls)))
	r.dice.WithLabelValues("hunger").Add(float64(len(res.Tally.Hunger.Rolls)))
}

func (r *Recorder) Rejected(channel, reason string) {
	if r == nil {
		return
	}
	r.rejected.WithLabelValues(channel, reason).Inc()
}

func (r *Recorder) Throttled(channel string) {
	if r == nil {
		return
	}
	r.throttled.WithLabelValues(channel).Inc()
}
