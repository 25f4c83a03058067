// Package services contains stateless domain services that coordinate
// behavior across aggregates.
package services

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrCourierNotFound is returned when no suitable courier is available for
// the pickup location. This occurs when no couriers are provided or none of
// the provided couriers is available.
var ErrCourierNotFound = errors.New("courier not found")

const (
	// DefaultPrimaryRadiusKm is the radius of the first proximity search ring.
	DefaultPrimaryRadiusKm = 5.0
	// DefaultSecondaryRadiusKm is the widened radius used for orders that
	// waited longer than the widen threshold.
	DefaultSecondaryRadiusKm = 10.0
	// DefaultWidenAfter is how long an order waits before the search widens
	// to the secondary radius.
	DefaultWidenAfter = 60 * time.Second
)

// MatcherPolicy holds the tunable parameters of the proximity search.
// Radii and the widen threshold vary per deployment and are loaded from
// configuration.
type MatcherPolicy struct {
	PrimaryRadiusKm   float64
	SecondaryRadiusKm float64
	WidenAfter        time.Duration
}

// DefaultMatcherPolicy returns the policy used when configuration does not
// override it: 5 km primary ring, 10 km secondary ring, widening after 60s.
func DefaultMatcherPolicy() MatcherPolicy {
	return MatcherPolicy{
		PrimaryRadiusKm:   DefaultPrimaryRadiusKm,
		SecondaryRadiusKm: DefaultSecondaryRadiusKm,
		WidenAfter:        DefaultWidenAfter,
	}
}

// Match is the outcome of a proximity search: the selected courier and the
// matched distance in kilometers. DistanceKm is nil when no location data
// informed the selection (unknown pickup or unlocated couriers).
type Match struct {
	Courier    *courier.Courier
	DistanceKm *float64
}

// ProximityMatcher selects the best candidate courier for a pickup location.
//
// Selection policy, evaluated in order, first match wins:
//  1. Closest courier within the primary radius.
//  2. If the order waited longer than the widen threshold: closest courier
//     within the secondary radius.
//  3. Globally closest courier regardless of distance - an order is never
//     left unassigned purely because every courier is far away.
//  4. When the pickup location is unknown: couriers are ranked by the
//     distance of their own location from the origin (0,0) purely as a
//     deterministic tie-break; if no courier has location data at all, the
//     first candidate in iteration order is selected.
//
// Ties at equal distance resolve to the first candidate encountered in
// iteration order. Selection is fully deterministic so that dispatch
// decisions are reproducible in tests.
type ProximityMatcher struct {
	policy MatcherPolicy
}

// NewProximityMatcher creates a matcher with the given policy.
func NewProximityMatcher(policy MatcherPolicy) ProximityMatcher {
	return ProximityMatcher{policy: policy}
}

// Match selects at most one courier for the given pickup location.
//
// Parameters:
//   - pickup: the order's pickup coordinates, nil when the store has no geo data
//   - waitedFor: how long the order has been waiting for assignment
//   - couriers: candidate couriers (expected active and free; unavailable
//     entries are skipped defensively)
//
// Returns ErrCourierNotFound when no candidate is available at all.
func (m ProximityMatcher) Match(
	pickup *kernel.GeoPoint,
	waitedFor time.Duration,
	couriers []*courier.Courier,
) (Match, error) {
	candidates, err := m.availableCandidates(couriers)
	if err != nil {
		return Match{}, err
	}
	if len(candidates) == 0 {
		return Match{}, ErrCourierNotFound
	}

	if pickup != nil {
		return m.matchByPickup(*pickup, waitedFor, candidates)
	}
	return m.matchWithoutPickup(candidates)
}

// matchByPickup runs the radius-tiered search against a known pickup point.
func (m ProximityMatcher) matchByPickup(
	pickup kernel.GeoPoint,
	waitedFor time.Duration,
	candidates []*courier.Courier,
) (Match, error) {
	best, bestDistance, err := m.closestTo(pickup, candidates, m.policy.PrimaryRadiusKm)
	if err != nil {
		return Match{}, err
	}

	if best == nil && waitedFor > m.policy.WidenAfter {
		best, bestDistance, err = m.closestTo(pickup, candidates, m.policy.SecondaryRadiusKm)
		if err != nil {
			return Match{}, err
		}
	}

	if best == nil {
		// No radius cap: the globally closest courier still wins.
		best, bestDistance, err = m.closestTo(pickup, candidates, 0)
		if err != nil {
			return Match{}, err
		}
	}

	if best != nil {
		d := bestDistance
		return Match{Courier: best, DistanceKm: &d}, nil
	}

	// Every candidate lacks location data; fall back to arbitrary
	// deterministic selection with an unknown distance.
	return Match{Courier: candidates[0]}, nil
}

// matchWithoutPickup selects a courier when the pickup location is unknown.
// Couriers carrying a location are ranked by their distance from the origin
// as a deterministic tie-break; the matched distance stays unknown.
func (m ProximityMatcher) matchWithoutPickup(candidates []*courier.Courier) (Match, error) {
	origin, err := kernel.NewGeoPoint(0, 0)
	if err != nil {
		return Match{}, err
	}

	best, _, err := m.closestTo(origin, candidates, 0)
	if err != nil {
		return Match{}, err
	}

	if best != nil {
		return Match{Courier: best}, nil
	}
	return Match{Courier: candidates[0]}, nil
}

// closestTo scans candidates for the minimum-distance courier to the target.
// A radiusKm of 0 means no cap. Couriers without a location are skipped.
// Returns nil when no located courier qualifies; ties resolve to the first
// candidate encountered.
func (m ProximityMatcher) closestTo(
	target kernel.GeoPoint,
	candidates []*courier.Courier,
	radiusKm float64,
) (*courier.Courier, float64, error) {
	var (
		best         *courier.Courier
		bestDistance float64
	)

	for _, c := range candidates {
		loc := c.Location()
		if loc == nil {
			continue
		}

		distance, err := target.DistanceKmTo(*loc)
		if err != nil {
			return nil, 0, err
		}

		if radiusKm > 0 && distance > radiusKm {
			continue
		}

		if best == nil || distance < bestDistance {
			best = c
			bestDistance = distance
		}
	}

	return best, bestDistance, nil
}

// availableCandidates validates every candidate and drops the ones that are
// offline or busy. Availability is re-verified again at commit time by the
// assignment coordinator; this filter only keeps the search honest.
func (m ProximityMatcher) availableCandidates(couriers []*courier.Courier) ([]*courier.Courier, error) {
	candidates := make([]*courier.Courier, 0, len(couriers))
	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		if !c.IsAvailable() {
			continue
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}
