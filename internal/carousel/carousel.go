// Package carousel implements the screenshot strip geometry: which image is
// "active" for a given scroll offset, where to scroll to center an image,
// and the settle debounce that defers recomputation until scrolling stops.
package carousel

import (
	"math"
	"sync"
	"time"
)

// SettleDelay is the scroll-inactivity window after which the active image
// is recomputed.
const SettleDelay = 80 * time.Millisecond

// Image describes one screenshot's horizontal box inside the strip.
type Image struct {
	Left  float64
	Width float64
}

// Strip is the scrollable screenshot strip: a viewport of fixed width over a
// row of images. All units are CSS pixels reported by the client.
type Strip struct {
	Viewport float64
	Images   []Image
}

// Uniform builds a strip of n equally sized images separated by gap.
func Uniform(viewport float64, n int, imageWidth, gap float64) Strip {
	imgs := make([]Image, 0, n)
	left := 0.0
	for i := 0; i < n; i++ {
		imgs = append(imgs, Image{Left: left, Width: imageWidth})
		left += imageWidth + gap
	}
	return Strip{Viewport: viewport, Images: imgs}
}

// Len returns the number of images.
func (s Strip) Len() int { return len(s.Images) }

func (s Strip) center(i int) float64 {
	return s.Images[i].Left + s.Images[i].Width/2
}

// ActiveIndex returns the index of the image whose center is nearest the
// visible center of the viewport at the given scroll offset. Ties break
// toward the lower index. An empty strip yields -1.
func (s Strip) ActiveIndex(offset float64) int {
	if len(s.Images) == 0 {
		return -1
	}
	target := offset + s.Viewport/2
	best := 0
	bestDist := math.Abs(s.center(0) - target)
	for i := 1; i < len(s.Images); i++ {
		if d := math.Abs(s.center(i) - target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// CenterOffset returns the scroll offset that aligns image i's center with
// the viewport center, clamped so the strip never scrolls before its start.
// An out-of-range index reports false and callers treat it as a no-op.
func (s Strip) CenterOffset(i int) (float64, bool) {
	if i < 0 || i >= len(s.Images) {
		return 0, false
	}
	off := s.center(i) - s.Viewport/2
	if off < 0 {
		off = 0
	}
	return off, true
}

// Step moves from the image active at offset by dir (±1), clamped to the
// strip bounds, and returns the destination index.
func (s Strip) Step(offset float64, dir int) int {
	idx := s.ActiveIndex(offset)
	if idx < 0 {
		return -1
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.Images)-1 {
		idx = len(s.Images) - 1
	}
	return idx
}

// InitialIndex is the image centered right after the strip is populated.
func InitialIndex(count int) int {
	if count <= 0 {
		return -1
	}
	return count / 2
}

// Tracker holds the live carousel state for one open modal: the strip, the
// current active index, and a settle timer that folds a burst of scroll
// observations into a single recompute.
type Tracker struct {
	mu     sync.Mutex
	strip  Strip
	active int
	offset float64
	timer  *time.Timer
	delay  time.Duration
}

// NewTracker builds a tracker centered on the initial (middle) image.
func NewTracker(strip Strip) *Tracker {
	t := &Tracker{strip: strip, delay: SettleDelay}
	t.active = InitialIndex(strip.Len())
	if off, ok := strip.CenterOffset(t.active); ok {
		t.offset = off
	}
	return t
}

// SetSettleDelay overrides the debounce window (tests).
func (t *Tracker) SetSettleDelay(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d > 0 {
		t.delay = d
	}
}

// Observe records a scroll position report. The active index is recomputed
// only after the settle delay passes with no further reports.
func (t *Tracker) Observe(offset float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset = offset
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, t.recompute)
}

func (t *Tracker) recompute() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx := t.strip.ActiveIndex(t.offset); idx >= 0 {
		t.active = idx
	}
}

// CenterOn centers image i, updating the tracked offset and active index.
// Out-of-range indices are a silent no-op.
func (t *Tracker) CenterOn(i int) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	off, ok := t.strip.CenterOffset(i)
	if !ok {
		return t.offset, false
	}
	t.offset = off
	t.active = i
	return off, true
}

// Scroll moves the active image by dir (±1, clamped) and centers on it.
func (t *Tracker) Scroll(dir int) (int, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.strip.Step(t.offset, dir)
	if idx < 0 {
		return -1, t.offset
	}
	if off, ok := t.strip.CenterOffset(idx); ok {
		t.offset = off
	}
	t.active = idx
	return idx, t.offset
}

// Active returns the currently active image index.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Offset returns the last tracked scroll offset.
func (t *Tracker) Offset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset
}

// Stop cancels any pending settle timer. Called when the modal closes.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
