package services

import (
	"context"
	"errors"

	"github.com/jftuga/geodist"

	"ttportal/internal/store"
)

var ErrNoAgencies = errors.New("no agencies in the directory")

type AgencyStore interface {
	List(ctx context.Context) ([]store.AgencyLocation, error)
}

// LocatorService finds the agency closest to a point by linear scan over the
// directory; fine for a catalog of branch offices, not for anything large.
type LocatorService struct {
	agencies AgencyStore
}

func NewLocatorService(agencies AgencyStore) *LocatorService {
	return &LocatorService{agencies: agencies}
}

// Nearest returns the closest agency and its distance in kilometres.
// Agencies come back from the store in id order, so the first minimal
// distance wins ties deterministically.
func (s *LocatorService) Nearest(ctx context.Context, latitude, longitude float64) (store.AgencyLocation, float64, error) {
	agencies, err := s.agencies.List(ctx)
	if err != nil {
		return store.AgencyLocation{}, 0, err
	}
	if len(agencies) == 0 {
		return store.AgencyLocation{}, 0, ErrNoAgencies
	}
	user := geodist.Coord{Lat: latitude, Lon: longitude}
	var nearest store.AgencyLocation
	best := -1.0
	for _, agency := range agencies {
		km := distanceKM(user, geodist.Coord{Lat: agency.Latitude, Lon: agency.Longitude})
		if best < 0 || km < best {
			best = km
			nearest = agency
		}
	}
	return nearest, best, nil
}

// distanceKM is the ellipsoidal (Vincenty) distance, falling back to the
// spherical haversine on the rare non-convergent pair.
func distanceKM(a, b geodist.Coord) float64 {
	_, km, err := geodist.VincentyDistance(a, b)
	if err != nil {
		_, km = geodist.HaversineDistance(a, b)
	}
	return km
}
