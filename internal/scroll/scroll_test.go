package scroll

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestActiveCategory(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
		ref      float64
		want     string
		ok       bool
	}{
		{
			name: "postres nearest the reference line",
			sections: []Section{
				{ID: "entradas", Top: -1900}, {ID: "principales", Top: -900},
				{ID: "postres", Top: 140}, {ID: "bebidas", Top: 1100},
			},
			ref: 150, want: "postres", ok: true,
		},
		{
			name:     "tie goes to first section",
			sections: []Section{{ID: "vinos", Top: 100}, {ID: "cocktails", Top: 200}},
			ref:      150, want: "vinos", ok: true,
		},
		{
			name:     "all sections below the line",
			sections: []Section{{ID: "entradas", Top: 400}, {ID: "principales", Top: 1400}},
			ref:      150, want: "entradas", ok: true,
		},
		{
			name: "empty page",
			ref:  150,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ActiveCategory(tc.sections, tc.ref)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestThresholdFor(t *testing.T) {
	assert.Equal(t, float64(HeaderHeight), ThresholdFor(375))
	assert.Equal(t, float64(HeaderHeight), ThresholdFor(767))
	assert.Zero(t, ThresholdFor(768))
	assert.Zero(t, ThresholdFor(1440))
}

func TestStickyPinsAndKeepsMeasuredSpacer(t *testing.T) {
	s := &Sticky{Threshold: 0}

	assert.Equal(t, StickyState{}, s.Update(320, 56))
	assert.Equal(t, StickyState{}, s.Update(0, 56))
	assert.Equal(t, StickyState{Pinned: true, SpacerHeight: 56}, s.Update(-10, 56))

	// pinned layout renders shorter; the spacer keeps the inline height
	assert.Equal(t, StickyState{Pinned: true, SpacerHeight: 56}, s.Update(-800, 48))

	assert.Equal(t, StickyState{}, s.Update(12, 48))
	assert.Equal(t, StickyState{}, s.Update(5, 60))
	assert.Equal(t, StickyState{Pinned: true, SpacerHeight: 60}, s.Update(-1, 60))
	assert.Equal(t, StickyState{Pinned: true, SpacerHeight: 60}, s.Update(-40, 48))
}

func TestStickyMobileThreshold(t *testing.T) {
	s := &Sticky{Threshold: ThresholdFor(390)}
	assert.True(t, s.Update(63, 50).Pinned)
	assert.False(t, s.Update(64, 50).Pinned)
}

type recorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *recorder) record(id string) {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func viewport(postresTop float64) Viewport {
	return Viewport{
		Sections: []Section{
			{ID: "entradas", Top: postresTop - 2000},
			{ID: "principales", Top: postresTop - 1000},
			{ID: "postres", Top: postresTop},
		},
		ReferenceOffset: DefaultReferenceOffset,
	}
}

func TestTrackerCoalescesToNewestViewport(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(time.Hour, rec.record)
	defer tr.Stop()

	tr.Notify(viewport(140))  // postres
	tr.Notify(viewport(1150)) // principales
	tr.Notify(viewport(2100)) // entradas
	tr.tick()
	tr.tick()

	assert.Equal(t, []string{"entradas"}, rec.got())
	assert.Equal(t, "entradas", tr.Active())
}

func TestTrackerReportsOnlyChanges(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(time.Hour, rec.record)
	defer tr.Stop()

	for _, top := range []float64{140, 160, 130, 1150, 1140, 140} {
		tr.Notify(viewport(top))
		tr.tick()
	}
	assert.Equal(t, []string{"postres", "principales", "postres"}, rec.got())
}

func TestTrackerRunsOnFrameTicker(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(5*time.Millisecond, rec.record)

	tr.Notify(viewport(140))
	require.Eventually(t, func() bool { return tr.Active() == "postres" }, 2*time.Second, 5*time.Millisecond)

	tr.Stop()
	tr.Stop()
	tr.Notify(viewport(1150))
	assert.Equal(t, []string{"postres"}, rec.got())
}
