package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tripguide-service/internal/domain"
)

// Postgres-backed implementation of the AttractionRepository port.
type PostgresAttractionRepository struct{ DB *sql.DB }

func NewPostgresAttractionRepository(db *sql.DB) *PostgresAttractionRepository {
	return &PostgresAttractionRepository{DB: db}
}

const attractionColumns = `
	a.attraction_id,
	a.name,
	a.category,
	a.min_age,
	a.visit_minutes,
	l.street,
	l.house_number,
	l.postal_code,
	l.city,
	l.lat,
	l.lng
`

// Return all attractions with their locations, ordered by id.
func (r *PostgresAttractionRepository) ListAttractions(ctx context.Context) ([]*domain.Attraction, error) {
	if r.DB == nil {
		return nil, errors.New("attraction repository: DB is nil")
	}

	query := `
	SELECT ` + attractionColumns + `
	FROM attractions a
	LEFT JOIN locations l ON l.attraction_id = a.attraction_id
	ORDER BY a.attraction_id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list attractions: query attractions table: %w", err)
	}
	defer rows.Close()

	attractions := make([]*domain.Attraction, 0, 64)
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, fmt.Errorf("list attractions: %w", err)
		}
		attractions = append(attractions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attractions: row iteration: %w", err)
	}

	return attractions, nil
}

// Return the attractions for an id set, keyed by id. Missing ids are
// simply absent from the map.
func (r *PostgresAttractionRepository) GetAttractions(ctx context.Context, ids []int64) (map[int64]*domain.Attraction, error) {
	if r.DB == nil {
		return nil, errors.New("attraction repository: DB is nil")
	}

	if len(ids) == 0 {
		return map[int64]*domain.Attraction{}, nil
	}

	query := `
	SELECT ` + attractionColumns + `
	FROM attractions a
	LEFT JOIN locations l ON l.attraction_id = a.attraction_id
	WHERE a.attraction_id = ANY($1::bigint[]);
	`
	rows, err := r.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get attractions: query attractions table: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]*domain.Attraction, len(ids))
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, fmt.Errorf("get attractions: %w", err)
		}
		out[a.AttractionID] = a
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get attractions: row iteration: %w", err)
	}

	return out, nil
}

func scanAttraction(rows *sql.Rows) (*domain.Attraction, error) {
	var (
		a                                     domain.Attraction
		street, houseNumber, postalCode, city sql.NullString
		lat, lng                              sql.NullFloat64
	)

	err := rows.Scan(
		&a.AttractionID, &a.Name, &a.Category, &a.MinAge, &a.VisitMinutes,
		&street, &houseNumber, &postalCode, &city, &lat, &lng,
	)
	if err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if street.Valid {
		loc := &domain.Location{
			Street:      street.String,
			HouseNumber: houseNumber.String,
			PostalCode:  postalCode.String,
			City:        city.String,
		}
		if lat.Valid && lng.Valid {
			loc.Lat = &lat.Float64
			loc.Lng = &lng.Float64
		}
		a.Location = loc
	}

	return &a, nil
}
