package scanner

import (
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedCooldown(d time.Duration) Option {
	return WithCooldown(func() time.Duration { return d })
}

func at(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func TestOffer_AcceptsFirstDetection(t *testing.T) {
	d := NewDebouncer(fixedCooldown(time.Second))

	assert.True(t, d.Offer(Detection{Barcode: "111", At: at(1000)}))
}

func TestOffer_RejectsWithinCooldown(t *testing.T) {
	d := NewDebouncer(fixedCooldown(time.Second))

	assert.True(t, d.Offer(Detection{Barcode: "111", At: at(1000)}))
	assert.False(t, d.Offer(Detection{Barcode: "111", At: at(1500)}))
}

func TestOffer_AcceptsAfterCooldownGap(t *testing.T) {
	d := NewDebouncer(fixedCooldown(time.Second))

	assert.True(t, d.Offer(Detection{Barcode: "111", At: at(1000)}))
	assert.True(t, d.Offer(Detection{Barcode: "111", At: at(2000)}))
}

func TestOffer_ConcurrentDetectionsYieldOneAccept(t *testing.T) {
	d := NewDebouncer(fixedCooldown(time.Second))

	// Two camera workers deliver the same frame timestamp simultaneously;
	// exactly one may pass the gate.
	const workers = 8
	var accepted atomic.Int32
	var start, done sync.WaitGroup
	start.Add(1)
	for i := 0; i < workers; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			if d.Offer(Detection{Barcode: "111", At: at(1000)}) {
				accepted.Add(1)
			}
		}()
	}
	start.Done()
	done.Wait()

	assert.Equal(t, int32(1), accepted.Load())
}

func TestOffer_FilterRejectionDoesNotConsumeCooldown(t *testing.T) {
	region := image.Rect(0, 0, 100, 100)
	d := NewDebouncer(fixedCooldown(time.Second), WithFilter(InsideRegion(region)))

	outside := Detection{Barcode: "111", Bounds: image.Rect(150, 150, 200, 200), At: at(1000)}
	inside := Detection{Barcode: "111", Bounds: image.Rect(10, 10, 50, 50), At: at(1001)}

	assert.False(t, d.Offer(outside))
	// The rejected detection must not have restarted the cooldown clock.
	assert.True(t, d.Offer(inside))
}

func TestOffer_CooldownChangeAppliesToNextEvaluation(t *testing.T) {
	var cooldownMs atomic.Int64
	cooldownMs.Store(2000)
	d := NewDebouncer(WithCooldown(func() time.Duration {
		return time.Duration(cooldownMs.Load()) * time.Millisecond
	}))

	assert.True(t, d.Offer(Detection{Barcode: "111", At: at(1000)}))
	assert.False(t, d.Offer(Detection{Barcode: "111", At: at(2500)}))

	cooldownMs.Store(1000)
	assert.True(t, d.Offer(Detection{Barcode: "111", At: at(2500)}))
}
