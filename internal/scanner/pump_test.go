package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPump_DeliversOnlyAcceptedScans(t *testing.T) {
	d := NewDebouncer(fixedCooldown(time.Second))

	var got []string
	pump := NewPump(d, func(_ context.Context, barcode string) error {
		got = append(got, barcode)
		return nil
	})

	detections := make(chan Detection, 4)
	detections <- Detection{Barcode: "111", At: at(1000)}
	detections <- Detection{Barcode: "111", At: at(1200)} // within cooldown
	detections <- Detection{Barcode: "222", At: at(2500)}
	close(detections)

	pump.Run(context.Background(), detections)

	assert.Equal(t, []string{"111", "222"}, got)
}

func TestPump_StopsOnContextCancel(t *testing.T) {
	d := NewDebouncer(fixedCooldown(time.Second))
	pump := NewPump(d, func(context.Context, string) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		pump.Run(ctx, make(chan Detection))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump did not stop on context cancellation")
	}
}
