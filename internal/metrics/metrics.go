// Package metrics provides Prometheus metrics for slider interactions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericyan/omnislider"
	"github.com/ericyan/omnislider/slider"
)

var (
	// RemoteActionsTotal counts actions sent to the player, by action.
	RemoteActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omnislider_remote_actions_total",
		Help: "Total number of remote-control actions sent to the player, by action.",
	}, []string{"action"})

	// DragDurationSeconds observes how long drags last, by slider.
	DragDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "omnislider_drag_duration_seconds",
		Help:    "Duration of slider drags, from press to release.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"slider"})
)

// Handler serves the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument returns a RemoteControl that counts every action before
// passing it to rc.
func Instrument(rc omnislider.RemoteControl) omnislider.RemoteControl {
	return &instrumented{rc}
}

type instrumented struct {
	next omnislider.RemoteControl
}

func (i *instrumented) count(action string) {
	RemoteActionsTotal.WithLabelValues(action).Inc()
}

func (i *instrumented) Play() {
	i.count("play")
	i.next.Play()
}

func (i *instrumented) Pause() {
	i.count("pause")
	i.next.Pause()
}

func (i *instrumented) Seeking(pos time.Duration) {
	i.count("seeking")
	i.next.Seeking(pos)
}

func (i *instrumented) Seek(pos time.Duration) {
	i.count("seek")
	i.next.Seek(pos)
}

func (i *instrumented) SeekToLiveEdge() {
	i.count("seek_to_live_edge")
	i.next.SeekToLiveEdge()
}

func (i *instrumented) PauseControlsAutoHide() {
	i.count("pause_controls_auto_hide")
	i.next.PauseControlsAutoHide()
}

func (i *instrumented) ResumeControlsAutoHide() {
	i.count("resume_controls_auto_hide")
	i.next.ResumeControlsAutoHide()
}

// TrackDrags observes the duration of every drag on r under the slider
// label name. now must be the clock the router runs on.
func TrackDrags(r *slider.Router, name string, now func() time.Time) (off func()) {
	observer := DragDurationSeconds.WithLabelValues(name)

	return r.On(slider.DragEnd, func(slider.Event) {
		if session := r.Session(); session != nil {
			observer.Observe(now().Sub(session.StartedAt).Seconds())
		}
	})
}
