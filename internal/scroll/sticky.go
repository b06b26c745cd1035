package scroll

const (
	MobileBreakpoint = 768
	HeaderHeight     = 64
)

// ThresholdFor is the pin threshold for a viewport width: the header height on narrow
// screens where the header stays fixed, zero otherwise.
func ThresholdFor(viewportWidth float64) float64 {
	if viewportWidth < MobileBreakpoint {
		return HeaderHeight
	}
	return 0
}

type StickyState struct {
	Pinned       bool    `json:"pinned"`
	SpacerHeight float64 `json:"spacerHeight"`
}

// Sticky tracks whether the category selector is pinned. While pinned, a spacer of the
// height measured before pinning holds the selector's place in the flow.
type Sticky struct {
	Threshold float64

	pinned   bool
	measured float64
}

func (s *Sticky) Update(wrapperTop, selectorHeight float64) StickyState {
	if !s.pinned {
		s.measured = selectorHeight
	}
	s.pinned = wrapperTop < s.Threshold
	if !s.pinned {
		return StickyState{}
	}
	return StickyState{Pinned: true, SpacerHeight: s.measured}
}
