// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package geo

import (
	"math"

	"github.com/tomtom215/grubsync/internal/models"
)

// RingFractions are the ring radii as fractions of the search radius.
var RingFractions = []float64{0.25, 0.5, 0.75}

// ZoneCount returns the number of zones PlanZones produces for perRing points.
func ZoneCount(perRing int) int {
	if perRing <= 0 {
		return 1
	}
	return 1 + len(RingFractions)*perRing
}

// PlanZones returns the search centers for a request: the center itself,
// then perRing evenly spaced points on each ring in RingFractions.
//
// Search providers bias results toward the exact query point, so sampling
// rings around the centroid widens recall with a bounded number of calls.
// Offsets use the equirectangular approximation (69 miles per degree of
// latitude, 69*cos(lat) per degree of longitude). The result is
// deterministic for the same inputs.
func PlanZones(center models.Coordinate, radiusMiles float64, perRing int) []models.Coordinate {
	zones := make([]models.Coordinate, 0, ZoneCount(perRing))
	zones = append(zones, center)

	if perRing <= 0 || radiusMiles <= 0 {
		return zones
	}

	milesPerDegreeLng := MilesPerDegreeLat * math.Cos(center.Latitude*math.Pi/180)
	step := 2 * math.Pi / float64(perRing)

	for _, fraction := range RingFractions {
		r := radiusMiles * fraction
		for k := 0; k < perRing; k++ {
			theta := float64(k) * step
			dLat := r * math.Sin(theta) / MilesPerDegreeLat
			var dLng float64
			// Near the poles a degree of longitude collapses to zero miles.
			if milesPerDegreeLng > 1e-9 {
				dLng = r * math.Cos(theta) / milesPerDegreeLng
			}
			zones = append(zones, models.Coordinate{
				Latitude:  center.Latitude + dLat,
				Longitude: center.Longitude + dLng,
			})
		}
	}

	return zones
}
