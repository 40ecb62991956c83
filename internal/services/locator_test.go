package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"ttportal/internal/store"
)

type stubAgencyStore struct {
	listFn func(ctx context.Context) ([]store.AgencyLocation, error)
}

func (s stubAgencyStore) List(ctx context.Context) ([]store.AgencyLocation, error) {
	return s.listFn(ctx)
}

func TestLocatorNearestAgency(t *testing.T) {
	agencies := []store.AgencyLocation{
		{ID: "a1", Name: "Sfax", Latitude: 34.7406, Longitude: 10.7603},
		{ID: "a2", Name: "Sousse", Latitude: 35.8256, Longitude: 10.6412},
		{ID: "a3", Name: "Ariana", Latitude: 36.8665, Longitude: 10.1647},
	}
	locator := NewLocatorService(stubAgencyStore{
		listFn: func(context.Context) ([]store.AgencyLocation, error) { return agencies, nil },
	})
	// a point in central Tunis; Ariana is the closest branch
	nearest, km, err := locator.Nearest(context.Background(), 36.8065, 10.1815)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nearest.ID != "a3" {
		t.Fatalf("expected Ariana, got %s", nearest.Name)
	}
	if math.Abs(km-6.9) > 0.5 {
		t.Fatalf("expected roughly 6.9 km, got %.3f", km)
	}
}

func TestLocatorFirstMinimumWinsTies(t *testing.T) {
	agencies := []store.AgencyLocation{
		{ID: "a1", Latitude: 36.0, Longitude: 10.0},
		{ID: "a2", Latitude: 36.0, Longitude: 10.0},
	}
	locator := NewLocatorService(stubAgencyStore{
		listFn: func(context.Context) ([]store.AgencyLocation, error) { return agencies, nil },
	})
	nearest, _, err := locator.Nearest(context.Background(), 36.5, 10.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nearest.ID != "a1" {
		t.Fatalf("expected the first of the tied agencies, got %s", nearest.ID)
	}
}

func TestLocatorEmptyDirectory(t *testing.T) {
	locator := NewLocatorService(stubAgencyStore{
		listFn: func(context.Context) ([]store.AgencyLocation, error) { return nil, nil },
	})
	if _, _, err := locator.Nearest(context.Background(), 36.8, 10.18); !errors.Is(err, ErrNoAgencies) {
		t.Fatalf("expected ErrNoAgencies, got %v", err)
	}
}
