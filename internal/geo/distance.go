// Package geo ranks schools by great-circle distance from a reference point.
package geo

import (
	"cmp"
	"math"
	"slices"

	"github.com/evyataryagoni/schoolfinder/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by HaversineKm
const EarthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// HaversineKm returns the great-circle distance in kilometers between two
// points given in degrees. The result is symmetric in its two points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*sinLon*sinLon

	// Rounding can push a just past 1 for antipodal points
	if a > 1 {
		a = 1
	}

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// RankByDistance annotates every school with its distance from
// (refLat, refLon) and returns them nearest first. The input slice is not
// modified. Order among equal distances is unspecified.
func RankByDistance(refLat, refLon float64, schools []models.School) []models.RankedSchool {
	ranked := make([]models.RankedSchool, len(schools))
	for i, school := range schools {
		ranked[i] = models.RankedSchool{
			School:     school,
			DistanceKm: HaversineKm(refLat, refLon, school.Latitude, school.Longitude),
		}
	}

	slices.SortFunc(ranked, func(a, b models.RankedSchool) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	return ranked
}
