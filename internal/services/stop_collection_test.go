package services

import (
	"context"
	"testing"

	"tripguide-service/internal/adapters/geo"
	"tripguide-service/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func stageWith(seq int, startAddress string, stops ...*domain.Stop) *domain.Stage {
	return &domain.Stage{Sequence: seq, StartAddress: startAddress, Stops: stops}
}

func locatedStop(name string, lat, lng float64) *domain.Stop {
	return &domain.Stop{
		Attraction: &domain.Attraction{
			Name:     name,
			Location: &domain.Location{Lat: floatPtr(lat), Lng: floatPtr(lng)},
		},
	}
}

func unlocatedStop(name string) *domain.Stop {
	return &domain.Stop{Attraction: &domain.Attraction{Name: name}}
}

func TestCollectPairsStopsWithCoordinates(t *testing.T) {
	provider := &geo.MockGeoProvider{}
	collection := NewStopCollection(provider)

	stage := stageWith(1, "",
		locatedStop("Wawel", 50.054, 19.935),
		unlocatedStop("Mystery tour"),
	)
	plan := &domain.Plan{Stages: []*domain.Stage{stage}}

	collected := collection.Collect(context.Background(), plan, stage)

	if len(collected.Stops) != 2 {
		t.Fatalf("collected %d stops, want 2", len(collected.Stops))
	}
	if collected.Stops[0].Coord == nil {
		t.Error("located stop lost its coordinate")
	}
	if collected.Stops[1].Coord != nil {
		t.Error("unlocated stop gained a coordinate")
	}
	if collected.Anchor != nil {
		t.Error("no start address anywhere, anchor should be nil")
	}
	if provider.GeocodeCalls != 0 {
		t.Errorf("geocode calls = %d, want 0", provider.GeocodeCalls)
	}
}

func TestCollectStageAddressWinsOverPlanAddress(t *testing.T) {
	provider := &geo.MockGeoProvider{Coords: map[string]domain.Coordinate{
		"Rynek 1, Krakow": {Lat: 50.0617, Lng: 19.9373},
		"Hotel, Krakow":   {Lat: 50.07, Lng: 19.94},
	}}
	collection := NewStopCollection(provider)

	stage := stageWith(1, "Rynek 1, Krakow", locatedStop("Wawel", 50.054, 19.935))
	plan := &domain.Plan{StartAddress: "Hotel, Krakow", Stages: []*domain.Stage{stage}}

	collected := collection.Collect(context.Background(), plan, stage)

	if collected.Anchor == nil {
		t.Fatal("expected an anchor")
	}
	if collected.Anchor.Lat != 50.0617 {
		t.Errorf("anchor = %v, want the stage address coordinate", *collected.Anchor)
	}
}

func TestCollectPlanAddressOnlyAnchorsFirstStage(t *testing.T) {
	provider := &geo.MockGeoProvider{Coords: map[string]domain.Coordinate{
		"Hotel, Krakow": {Lat: 50.07, Lng: 19.94},
	}}
	collection := NewStopCollection(provider)

	first := stageWith(1, "", locatedStop("Wawel", 50.054, 19.935))
	second := stageWith(2, "", locatedStop("Kazimierz", 50.048, 19.944))
	plan := &domain.Plan{StartAddress: "Hotel, Krakow", Stages: []*domain.Stage{first, second}}

	if got := collection.Collect(context.Background(), plan, first); got.Anchor == nil {
		t.Error("first stage should inherit the plan start address")
	}
	if got := collection.Collect(context.Background(), plan, second); got.Anchor != nil {
		t.Error("later stages must not inherit the plan start address")
	}
}

func TestCollectGeocodeFailureDropsAnchor(t *testing.T) {
	provider := &geo.MockGeoProvider{} // empty Coords map: every geocode fails
	collection := NewStopCollection(provider)

	stage := stageWith(1, "nowhere at all", locatedStop("Wawel", 50.054, 19.935))
	plan := &domain.Plan{Stages: []*domain.Stage{stage}}

	collected := collection.Collect(context.Background(), plan, stage)

	if collected.Anchor != nil {
		t.Error("failed geocode must omit the anchor, not fail the stage")
	}
	if len(collected.Stops) != 1 {
		t.Errorf("collected %d stops, want 1", len(collected.Stops))
	}
}
