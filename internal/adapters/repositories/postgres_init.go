package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

// Initialize the database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createAttractionsQuery := `
	CREATE TABLE IF NOT EXISTS attractions (
		attraction_id BIGINT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL,
		min_age INT,
		visit_minutes INT CHECK (visit_minutes > 0)
	);
	`

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		location_id BIGSERIAL PRIMARY KEY,
		attraction_id BIGINT NOT NULL UNIQUE REFERENCES attractions ON DELETE CASCADE,
		street TEXT NOT NULL,
		house_number TEXT NOT NULL,
		postal_code TEXT NOT NULL,
		city TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		CHECK ((lat IS NULL) = (lng IS NULL))
	);
	`

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS plans (
		plan_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active',
		public BOOLEAN NOT NULL DEFAULT FALSE,
		start_address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createOwnershipsQuery := `
	CREATE TABLE IF NOT EXISTS plan_ownerships (
		user_id TEXT NOT NULL,
		plan_id BIGINT NOT NULL REFERENCES plans ON DELETE CASCADE,
		is_owner BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (user_id, plan_id)
	);
	`

	createStagesQuery := `
	CREATE TABLE IF NOT EXISTS stages (
		stage_id BIGSERIAL PRIMARY KEY,
		plan_id BIGINT NOT NULL REFERENCES plans ON DELETE CASCADE,
		name TEXT NOT NULL,
		sequence INT NOT NULL CHECK (sequence >= 1),
		start_address TEXT NOT NULL DEFAULT '',
		UNIQUE (plan_id, sequence)
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		stop_id BIGSERIAL PRIMARY KEY,
		stage_id BIGINT NOT NULL REFERENCES stages ON DELETE CASCADE,
		attraction_id BIGINT NOT NULL REFERENCES attractions,
		sequence INT NOT NULL CHECK (sequence >= 1),
		visit_start TIMESTAMPTZ NOT NULL,
		visit_minutes INT NOT NULL CHECK (visit_minutes >= 0),
		travel_minutes INT CHECK (travel_minutes >= 0),
		UNIQUE (stage_id, sequence)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		points_key TEXT NOT NULL,
		optimize BOOLEAN NOT NULL,
		stop_order TEXT NOT NULL,
		leg_seconds TEXT NOT NULL,
		polyline TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (points_key, optimize)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_plan_ownerships_plan
	ON plan_ownerships(plan_id);
	`

	statements := []string{
		createAttractionsQuery,
		createLocationsQuery,
		createPlansQuery,
		createOwnershipsQuery,
		createStagesQuery,
		createStopsQuery,
		createGeocodeCacheQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type LocationSeed struct {
	Street      string   `json:"street"`
	HouseNumber string   `json:"house_number"`
	PostalCode  string   `json:"postal_code"`
	City        string   `json:"city"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

type AttractionSeed struct {
	AttractionID int64         `json:"attraction_id"`
	Name         string        `json:"name"`
	Category     string        `json:"category"`
	MinAge       *int          `json:"min_age"`
	VisitMinutes *int          `json:"visit_minutes"`
	Location     *LocationSeed `json:"location"`
}

// Populate the database with attraction data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed attractions: read %q: %w", jsonPath, err)
	}

	var data []AttractionSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed attractions: parse json: %w", err)
	}

	for i, item := range data {
		if item.AttractionID <= 0 {
			return fmt.Errorf("seed attractions: invalid attraction_id at index %d: %d", i+1, item.AttractionID)
		}
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("seed attractions: item at index %d: name cannot be empty", i+1)
		}
		if loc := item.Location; loc != nil && (loc.Lat == nil) != (loc.Lng == nil) {
			return fmt.Errorf("seed attractions: item at index %d: lat and lng must be set together", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed attractions: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	attractionQuery := `
	INSERT INTO attractions (attraction_id, name, category, min_age, visit_minutes)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (attraction_id) DO UPDATE
	SET name = EXCLUDED.name,
		category = EXCLUDED.category,
		min_age = EXCLUDED.min_age,
		visit_minutes = EXCLUDED.visit_minutes;
	`
	attractionStmt, err := tx.Prepare(attractionQuery)
	if err != nil {
		return fmt.Errorf("seed attractions: prepare attraction insert: %w", err)
	}
	defer attractionStmt.Close()

	locationQuery := `
	INSERT INTO locations (attraction_id, street, house_number, postal_code, city, lat, lng)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (attraction_id) DO UPDATE
	SET street = EXCLUDED.street,
		house_number = EXCLUDED.house_number,
		postal_code = EXCLUDED.postal_code,
		city = EXCLUDED.city,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`
	locationStmt, err := tx.Prepare(locationQuery)
	if err != nil {
		return fmt.Errorf("seed attractions: prepare location insert: %w", err)
	}
	defer locationStmt.Close()

	for _, a := range data {
		if _, err := attractionStmt.Exec(a.AttractionID, a.Name, a.Category, a.MinAge, a.VisitMinutes); err != nil {
			return fmt.Errorf("seed attractions: insert attraction_id=%d: %w", a.AttractionID, err)
		}

		if a.Location == nil {
			continue
		}
		loc := a.Location
		if _, err := locationStmt.Exec(a.AttractionID, loc.Street, loc.HouseNumber, loc.PostalCode, loc.City, loc.Lat, loc.Lng); err != nil {
			return fmt.Errorf("seed attractions: insert location for attraction_id=%d: %w", a.AttractionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed attractions: commit tx: %w", err)
	}

	return nil
}
