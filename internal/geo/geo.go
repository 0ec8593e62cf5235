// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package geo provides the geographic math used by the recommendation
// pipeline: centroid calculation, great-circle distance and search zone
// planning. All functions are pure and safe for concurrent use.
package geo

import (
	"math"

	"github.com/tomtom215/grubsync/internal/models"
)

const (
	// EarthRadiusMiles is the mean earth radius used for haversine distances.
	EarthRadiusMiles = 3958.8

	// MilesPerDegreeLat is the equirectangular approximation used for zone offsets.
	MilesPerDegreeLat = 69.0

	// MetersPerMile converts provider distances.
	MetersPerMile = 1609.34
)

// Centroid returns the arithmetic mean of the given coordinates.
// It returns models.ErrNoValidLocations when points is empty.
func Centroid(points []models.Coordinate) (models.Coordinate, error) {
	if len(points) == 0 {
		return models.Coordinate{}, models.ErrNoValidLocations
	}

	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLng += p.Longitude
	}

	n := float64(len(points))
	return models.Coordinate{
		Latitude:  sumLat / n,
		Longitude: sumLng / n,
	}, nil
}

// HaversineMiles returns the great-circle distance between a and b in miles.
func HaversineMiles(a, b models.Coordinate) float64 {
	lat1Rad := a.Latitude * math.Pi / 180
	lat2Rad := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMiles * c
}

// MetersToMiles converts a provider distance to miles.
func MetersToMiles(meters float64) float64 {
	return meters / MetersPerMile
}

// MilesToMeters converts miles to whole meters.
func MilesToMeters(miles float64) int {
	return int(math.Round(miles * MetersPerMile))
}
