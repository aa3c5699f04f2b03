// Package geo computes distances between recorded locations.
package geo

import (
	"math"
	"sort"
	"time"
)

const earthRadiusKm = 6371

const dateLayout = "2006-01-02"

// HaversineKm returns the great-circle distance in kilometres between two
// points given in degrees
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Point is a timestamped position
type Point struct {
	Latitude  float64
	Longitude float64
	At        time.Time
}

// DailyDistance is the distance covered on one UTC day. Distance is nil when
// fewer than two points were recorded that day.
type DailyDistance struct {
	Date     string   `json:"date"`
	Distance *float64 `json:"distance"`
}

// SameDay reports whether t falls on the same UTC date as now
func SameDay(t, now time.Time) bool {
	return !t.IsZero() && t.UTC().Format(dateLayout) == now.UTC().Format(dateLayout)
}

// DailyDistances sums the distance between consecutive points recorded on
// the same day, for each of the last days up to and including now's date.
// The result is oldest first. Points without a timestamp are ignored.
func DailyDistances(points []Point, now time.Time, days int) []DailyDistance {
	if days <= 0 {
		return nil
	}

	sorted := make([]Point, 0, len(points))
	for _, p := range points {
		if !p.At.IsZero() {
			sorted = append(sorted, p)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})

	totals := make(map[string]float64)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		day := cur.At.UTC().Format(dateLayout)
		if prev.At.UTC().Format(dateLayout) != day {
			continue
		}
		totals[day] += HaversineKm(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
	}

	out := make([]DailyDistance, days)
	for i := 0; i < days; i++ {
		date := now.UTC().AddDate(0, 0, -i).Format(dateLayout)
		dd := DailyDistance{Date: date}
		if d, ok := totals[date]; ok {
			dd.Distance = &d
		}
		out[days-1-i] = dd
	}
	return out
}
