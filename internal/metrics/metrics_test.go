package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericyan/omnislider/input"
	"github.com/ericyan/omnislider/internal/memplayer"
	"github.com/ericyan/omnislider/schedule"
	"github.com/ericyan/omnislider/slider"
)

func counterValue(t *testing.T, action string) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, RemoteActionsTotal.WithLabelValues(action).Write(&m))

	return m.GetCounter().GetValue()
}

func TestInstrumentCountsActions(t *testing.T) {
	player := memplayer.New()
	rc := Instrument(player)

	seeks := counterValue(t, "seek")
	plays := counterValue(t, "play")

	rc.Seek(time.Second)
	rc.Seek(2 * time.Second)
	rc.Play()

	assert.Equal(t, seeks+2, counterValue(t, "seek"))
	assert.Equal(t, plays+1, counterValue(t, "play"))
	assert.Equal(t, []string{"seek", "seek", "play"}, player.Names(), "actions are forwarded")
}

func TestTrackDrags(t *testing.T) {
	clock := schedule.NewManual()
	element, document := input.NewTarget(), input.NewTarget()
	core := slider.NewCore()
	router := slider.NewRouter(core, &slider.StaticDelegate{StepSize: 1, KeyStepSize: 5, ShiftMultiplier: 2},
		element, func() input.Rect { return input.Rect{Width: 100, Height: 10} },
		slider.WithClock(clock), slider.WithDocument(document))

	off := TrackDrags(router, "metrics-test", clock.Now)
	defer off()

	element.Dispatch(&input.PointerEvent{Kind: input.PointerDown, ClientX: 10})
	clock.Advance(300 * time.Millisecond)
	document.Dispatch(&input.PointerEvent{Kind: input.PointerUp, ClientX: 40})

	var m dto.Metric
	h := DragDurationSeconds.WithLabelValues("metrics-test").(prometheus.Histogram)
	require.NoError(t, h.Write(&m))
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	assert.InDelta(t, 0.3, m.GetHistogram().GetSampleSum(), 1e-9)
}

func TestHandler(t *testing.T) {
	Instrument(memplayer.New()).SeekToLiveEdge()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `omnislider_remote_actions_total{action="seek_to_live_edge"}`)
}
