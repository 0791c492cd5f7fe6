package Metrics

import "math"

// Derived-value calculations shared by the fuel and travel flows. These are
// deliberately the only place distance and totals are computed; everything
// else calls in here.

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TotalAmount computes the fuel purchase total from liters and unit price.
func TotalAmount(liters, pricePerLiter float64) float64 {
	return Round2(liters * pricePerLiter)
}

// Distance resolves the distance traveled for a trip. A server-supplied value
// always wins; otherwise it is the odometer delta clamped at zero.
func Distance(preMeter, postMeter float64, serverValue *float64) float64 {
	if serverValue != nil {
		return *serverValue
	}
	return math.Max(0, postMeter-preMeter)
}
