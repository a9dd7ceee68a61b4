package scanner

import (
	"context"
	"log"
)

// Handler receives the barcode of every accepted scan.
type Handler func(ctx context.Context, barcode string) error

// Pump drains a detection channel through the debouncer and hands accepted
// barcodes to a single handler, serializing them even when the camera side
// produces detections from several workers.
type Pump struct {
	debouncer *Debouncer
	handler   Handler
}

func NewPump(debouncer *Debouncer, handler Handler) *Pump {
	return &Pump{debouncer: debouncer, handler: handler}
}

func (p *Pump) Run(ctx context.Context, detections <-chan Detection) {
	for {
		select {
		case det, ok := <-detections:
			if !ok {
				return
			}
			if !p.debouncer.Offer(det) {
				continue
			}
			if err := p.handler(ctx, det.Barcode); err != nil {
				log.Printf("scan handler error for %s: %v", det.Barcode, err)
			}
		case <-ctx.Done():
			return
		}
	}
}
