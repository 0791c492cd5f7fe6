package location

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/paulmach/orb"
)

// Error classes a provider may report. BestEffort collapses all of them (and
// timeouts) into "no location"; they exist so callers that do care can
// distinguish.
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
)

// Provider yields the device's current position.
type Provider interface {
	CurrentLocation(ctx context.Context) (orb.Point, error)
}

// BestEffort races the provider against a timeout and swallows every
// failure. Coordinates are optional metadata; acquiring them must never
// block a submission.
func BestEffort(ctx context.Context, p Provider, timeout time.Duration) *orb.Point {
	if p == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type fix struct {
		point orb.Point
		err   error
	}
	ch := make(chan fix, 1)
	go func() {
		point, err := p.CurrentLocation(ctx)
		ch <- fix{point: point, err: err}
	}()

	select {
	case f := <-ch:
		if f.err != nil {
			log.Printf("Location acquisition failed: %v", f.err)
			return nil
		}
		return &f.point
	case <-ctx.Done():
		log.Printf("Location acquisition timed out after %s", timeout)
		return nil
	}
}

// EnvProvider reads a fixed position from FUELLOG_LAT / FUELLOG_LNG. It
// stands in for a GPS device on machines without one; unset variables report
// ErrUnavailable like a receiver with no fix.
type EnvProvider struct{}

func (EnvProvider) CurrentLocation(ctx context.Context) (orb.Point, error) {
	latStr, lngStr := os.Getenv("FUELLOG_LAT"), os.Getenv("FUELLOG_LNG")
	if latStr == "" || lngStr == "" {
		return orb.Point{}, ErrUnavailable
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return orb.Point{}, ErrUnavailable
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return orb.Point{}, ErrUnavailable
	}
	return orb.Point{lng, lat}, nil
}

// PayloadPair renders a point the way the API expects coordinates:
// [lat, lng].
func PayloadPair(p *orb.Point) []float64 {
	if p == nil {
		return nil
	}
	return []float64{p.Lat(), p.Lon()}
}
