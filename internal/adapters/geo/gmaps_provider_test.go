package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tripguide-service/internal/domain"
)

func testProvider(t *testing.T, handler http.HandlerFunc) *GoogleMapsProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewGoogleMapsProvider("test-key", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	provider.baseURL = server.URL
	return provider
}

func TestGeocode(t *testing.T) {
	var gotQuery string
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"status":"OK","results":[{"geometry":{"location":{"lat":50.054,"lng":19.935}}}]}`)
	})

	coord, err := provider.Geocode(context.Background(), "  Wawel 5,   Krakow ")
	if err != nil {
		t.Fatal(err)
	}
	if coord.Lat != 50.054 || coord.Lng != 19.935 {
		t.Errorf("coord = %v", coord)
	}

	// Whitespace collapsed before hitting the API, key attached.
	if !strings.Contains(gotQuery, "address=Wawel+5%2C+Krakow") {
		t.Errorf("query = %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "key=test-key") {
		t.Errorf("query = %q, missing api key", gotQuery)
	}
}

func TestGeocodeNoResults(t *testing.T) {
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
	})

	_, err := provider.Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestGeocodeServerError(t *testing.T) {
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := provider.Geocode(context.Background(), "Wawel 5, Krakow")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestRoute(t *testing.T) {
	var gotQuery string
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"status":"OK","routes":[{
			"legs":[{"duration":{"value":300}},{"duration":{"value":600}}],
			"waypoint_order":[0],
			"overview_polyline":{"points":"abc123"}}]}`)
	})

	points := []domain.Coordinate{
		{Lat: 50.05, Lng: 19.93},
		{Lat: 50.06, Lng: 19.94},
		{Lat: 50.07, Lng: 19.95},
	}

	result, err := provider.Route(context.Background(), points, false)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.LegSeconds) != 2 || result.LegSeconds[0] != 300 || result.LegSeconds[1] != 600 {
		t.Errorf("legs = %v", result.LegSeconds)
	}
	if result.Polyline != "abc123" {
		t.Errorf("polyline = %q", result.Polyline)
	}
	if strings.Contains(gotQuery, "optimize") {
		t.Errorf("query = %q, optimize sent without being requested", gotQuery)
	}
}

func TestRouteOptimizePrefixesWaypoints(t *testing.T) {
	var gotQuery string
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"status":"OK","routes":[{
			"legs":[{"duration":{"value":300}},{"duration":{"value":600}},{"duration":{"value":900}}],
			"waypoint_order":[1,0],
			"overview_polyline":{"points":""}}]}`)
	})

	points := []domain.Coordinate{
		{Lat: 50.05, Lng: 19.93},
		{Lat: 50.06, Lng: 19.94},
		{Lat: 50.07, Lng: 19.95},
		{Lat: 50.08, Lng: 19.96},
	}

	result, err := provider.Route(context.Background(), points, true)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(gotQuery, "optimize%3Atrue%7C") {
		t.Errorf("query = %q, waypoints not flagged for optimization", gotQuery)
	}

	// waypoint_order [1,0] over intermediates expands to a full point
	// permutation with origin and destination pinned.
	want := []int{0, 2, 1, 3}
	for i, v := range want {
		if result.Order[i] != v {
			t.Fatalf("order = %v, want %v", result.Order, want)
		}
	}
}

func TestRouteLegCountMismatch(t *testing.T) {
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"OK","routes":[{
			"legs":[{"duration":{"value":300}}],
			"overview_polyline":{"points":""}}]}`)
	})

	points := []domain.Coordinate{
		{Lat: 50.05, Lng: 19.93},
		{Lat: 50.06, Lng: 19.94},
		{Lat: 50.07, Lng: 19.95},
	}

	_, err := provider.Route(context.Background(), points, false)
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestBuildPointOrder(t *testing.T) {
	cases := []struct {
		name          string
		n             int
		optimize      bool
		waypointOrder []int
		want          []int
	}{
		{"identity without optimize", 4, false, nil, []int{0, 1, 2, 3}},
		{"optimized intermediates", 4, true, []int{1, 0}, []int{0, 2, 1, 3}},
		{"short waypoint order falls back to identity", 4, true, []int{0}, []int{0, 1, 2, 3}},
		{"two points", 2, true, nil, []int{0, 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := buildPointOrder(tc.n, tc.optimize, tc.waypointOrder)
			if len(got) != len(tc.want) {
				t.Fatalf("order = %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("order = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestStaticMapQuery(t *testing.T) {
	var gotQuery string
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte("png-bytes"))
	})

	markers := []domain.Coordinate{{Lat: 50.05, Lng: 19.93}, {Lat: 50.06, Lng: 19.94}}
	img, err := provider.StaticMap(context.Background(), markers, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if string(img) != "png-bytes" {
		t.Errorf("image = %q", img)
	}

	if got := strings.Count(gotQuery, "markers="); got != 2 {
		t.Errorf("query = %q, want 2 marker params", gotQuery)
	}
	if !strings.Contains(gotQuery, "path=enc:abc123") {
		t.Errorf("query = %q, missing polyline path", gotQuery)
	}
}
