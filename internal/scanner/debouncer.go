package scanner

import (
	"image"
	"sync"
	"time"
)

// DefaultCooldown is applied when no settings source is wired.
const DefaultCooldown = 1000 * time.Millisecond

// Detection is one decoded barcode candidate coming out of the camera
// pipeline. Bounds is the code's bounding box in frame coordinates; At is
// the frame timestamp (zero means "now").
type Detection struct {
	Barcode string          `json:"barcode"`
	Bounds  image.Rectangle `json:"bounds"`
	At      time.Time       `json:"at"`
}

// Filter decides whether a detection is eligible at all, e.g. "is the code
// inside the designated capture region". It runs before the cooldown check
// and a rejection never consumes the cooldown.
type Filter func(Detection) bool

// InsideRegion returns a Filter accepting only detections whose bounding box
// lies entirely within region.
func InsideRegion(region image.Rectangle) Filter {
	return func(d Detection) bool {
		return d.Bounds.In(region)
	}
}

// Debouncer turns the raw detection stream into rate-limited accepted scans.
// The check of lastAccepted and its update happen under one lock, so two
// concurrent detections inside the cooldown window can never both pass.
type Debouncer struct {
	mu           sync.Mutex
	lastAccepted time.Time

	cooldown func() time.Duration
	filter   Filter
}

type Option func(*Debouncer)

// WithCooldown sources the cooldown from a settings value. It is re-read on
// every offer, so a settings change applies to the next evaluation.
func WithCooldown(cooldown func() time.Duration) Option {
	return func(d *Debouncer) {
		d.cooldown = cooldown
	}
}

func WithFilter(filter Filter) Option {
	return func(d *Debouncer) {
		d.filter = filter
	}
}

func NewDebouncer(opts ...Option) *Debouncer {
	d := &Debouncer{
		cooldown: func() time.Duration { return DefaultCooldown },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Offer evaluates one detection and reports whether it was accepted. On
// acceptance the cooldown clock restarts from the detection's timestamp
// before the caller sees the result.
func (d *Debouncer) Offer(det Detection) bool {
	if d.filter != nil && !d.filter(det) {
		return false
	}

	at := det.At
	if at.IsZero() {
		at = time.Now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.lastAccepted.IsZero() && at.Sub(d.lastAccepted) < d.cooldown() {
		return false
	}

	d.lastAccepted = at
	return true
}
