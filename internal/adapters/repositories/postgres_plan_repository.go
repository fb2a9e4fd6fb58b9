package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tripguide-service/internal/domain"
	"tripguide-service/internal/platform/obs"
)

// Postgres-backed implementation of the PlanRepository port.
//
// Plans are written whole: one transaction covers the plan row, its
// ownership, and every stage and stop, so a failed build leaves
// nothing behind.
type PostgresPlanRepository struct{ DB *sql.DB }

func NewPostgresPlanRepository(db *sql.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{DB: db}
}

// Persist a plan aggregate as a single committed unit and fill in the
// generated ids and timestamps.
func (r *PostgresPlanRepository) CreatePlan(
	ctx context.Context,
	plan *domain.Plan,
	owner domain.PlanOwnership,
) (err error) {
	defer obs.Time(ctx, "plans.CreatePlan")(&err)

	if r.DB == nil {
		return errors.New("plan repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	planQuery := `
	INSERT INTO plans (name, description, status, public, start_address)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING plan_id, created_at, updated_at;
	`
	err = tx.QueryRowContext(ctx, planQuery,
		plan.Name, plan.Description, string(plan.Status), plan.Public, plan.StartAddress,
	).Scan(&plan.PlanID, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create plan: insert plan: %w", err)
	}

	ownershipQuery := `
	INSERT INTO plan_ownerships (user_id, plan_id, is_owner)
	VALUES ($1, $2, $3);
	`
	if _, err := tx.ExecContext(ctx, ownershipQuery, owner.UserID, plan.PlanID, owner.Owner); err != nil {
		return fmt.Errorf("create plan: insert ownership: %w", err)
	}

	stageQuery := `
	INSERT INTO stages (plan_id, name, sequence, start_address)
	VALUES ($1, $2, $3, $4)
	RETURNING stage_id;
	`
	stopQuery := `
	INSERT INTO stops (stage_id, attraction_id, sequence, visit_start, visit_minutes, travel_minutes)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING stop_id;
	`

	for _, stage := range plan.Stages {
		err := tx.QueryRowContext(ctx, stageQuery,
			plan.PlanID, stage.Name, stage.Sequence, stage.StartAddress,
		).Scan(&stage.StageID)
		if err != nil {
			return fmt.Errorf("create plan: insert stage %d: %w", stage.Sequence, err)
		}
		stage.PlanID = plan.PlanID

		for _, stop := range stage.Stops {
			err := tx.QueryRowContext(ctx, stopQuery,
				stage.StageID, stop.Attraction.AttractionID, stop.Sequence,
				stop.VisitStart, stop.VisitMinutes, stop.TravelMinutes,
			).Scan(&stop.StopID)
			if err != nil {
				return fmt.Errorf("create plan: insert stop %d/%d: %w", stage.Sequence, stop.Sequence, err)
			}
			stop.StageID = stage.StageID
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create plan: commit tx: %w", err)
	}

	return nil
}

// Load a plan with stages and stops in sequence order.
func (r *PostgresPlanRepository) GetPlan(ctx context.Context, planID int64) (_ *domain.Plan, err error) {
	defer obs.Time(ctx, "plans.GetPlan")(&err)

	if r.DB == nil {
		return nil, errors.New("plan repository: DB is nil")
	}

	planQuery := `
	SELECT plan_id, name, description, status, public, start_address, created_at, updated_at
	FROM plans
	WHERE plan_id = $1;
	`
	var plan domain.Plan
	var status string
	err = r.DB.QueryRowContext(ctx, planQuery, planID).Scan(
		&plan.PlanID, &plan.Name, &plan.Description, &status,
		&plan.Public, &plan.StartAddress, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plan %d: %w", planID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %d: query plans table: %w", planID, err)
	}
	plan.Status = domain.PlanStatus(status)

	stageQuery := `
	SELECT stage_id, name, sequence, start_address
	FROM stages
	WHERE plan_id = $1
	ORDER BY sequence;
	`
	stageRows, err := r.DB.QueryContext(ctx, stageQuery, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan %d: query stages table: %w", planID, err)
	}
	defer stageRows.Close()

	stagesByID := make(map[int64]*domain.Stage)
	for stageRows.Next() {
		stage := &domain.Stage{PlanID: planID}
		if err := stageRows.Scan(&stage.StageID, &stage.Name, &stage.Sequence, &stage.StartAddress); err != nil {
			return nil, fmt.Errorf("get plan %d: scan stage row: %w", planID, err)
		}
		plan.Stages = append(plan.Stages, stage)
		stagesByID[stage.StageID] = stage
	}
	if err := stageRows.Err(); err != nil {
		return nil, fmt.Errorf("get plan %d: stage row iteration: %w", planID, err)
	}

	stopQuery := `
	SELECT
		s.stop_id,
		s.stage_id,
		s.sequence,
		s.visit_start,
		s.visit_minutes,
		s.travel_minutes,
	` + attractionColumns + `
	FROM stops s
	JOIN stages st ON st.stage_id = s.stage_id
	JOIN attractions a ON a.attraction_id = s.attraction_id
	LEFT JOIN locations l ON l.attraction_id = a.attraction_id
	WHERE st.plan_id = $1
	ORDER BY st.sequence, s.sequence;
	`
	stopRows, err := r.DB.QueryContext(ctx, stopQuery, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan %d: query stops table: %w", planID, err)
	}
	defer stopRows.Close()

	for stopRows.Next() {
		var (
			stop                                  domain.Stop
			a                                     domain.Attraction
			street, houseNumber, postalCode, city sql.NullString
			lat, lng                              sql.NullFloat64
		)
		err := stopRows.Scan(
			&stop.StopID, &stop.StageID, &stop.Sequence,
			&stop.VisitStart, &stop.VisitMinutes, &stop.TravelMinutes,
			&a.AttractionID, &a.Name, &a.Category, &a.MinAge, &a.VisitMinutes,
			&street, &houseNumber, &postalCode, &city, &lat, &lng,
		)
		if err != nil {
			return nil, fmt.Errorf("get plan %d: scan stop row: %w", planID, err)
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
		stop.Attraction = &a

		stage, ok := stagesByID[stop.StageID]
		if !ok {
			return nil, fmt.Errorf("get plan %d: stop %d references unknown stage %d", planID, stop.StopID, stop.StageID)
		}
		stage.Stops = append(stage.Stops, &stop)
	}
	if err := stopRows.Err(); err != nil {
		return nil, fmt.Errorf("get plan %d: stop row iteration: %w", planID, err)
	}

	return &plan, nil
}

// Delete a plan and cascade stages, stops and ownerships. Only the
// owning ownership record may delete.
func (r *PostgresPlanRepository) DeletePlan(ctx context.Context, planID int64, userID string) (err error) {
	defer obs.Time(ctx, "plans.DeletePlan")(&err)

	if r.DB == nil {
		return errors.New("plan repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM plans WHERE plan_id = $1);`, planID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("delete plan %d: check plan: %w", planID, err)
	}
	if !exists {
		return fmt.Errorf("delete plan %d: %w", planID, domain.ErrNotFound)
	}

	var isOwner bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_owner FROM plan_ownerships WHERE plan_id = $1 AND user_id = $2;`,
		planID, userID,
	).Scan(&isOwner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !isOwner) {
		return fmt.Errorf("delete plan %d: user %q is not the owner: %w", planID, userID, domain.ErrPermissionDenied)
	}
	if err != nil {
		return fmt.Errorf("delete plan %d: check ownership: %w", planID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE plan_id = $1;`, planID); err != nil {
		return fmt.Errorf("delete plan %d: delete: %w", planID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete plan %d: commit tx: %w", planID, err)
	}

	return nil
}

// Overwrite one stop's travel time and bump the owning plan's
// modification timestamp. Travel time is the only stop field the
// recompute path may touch.
func (r *PostgresPlanRepository) UpdateStopTravelTime(ctx context.Context, stopID int64, travelMinutes int) error {
	if r.DB == nil {
		return errors.New("plan repository: DB is nil")
	}

	query := `
	WITH updated AS (
		UPDATE stops
		SET travel_minutes = $2
		WHERE stop_id = $1
		RETURNING stage_id
	)
	UPDATE plans
	SET updated_at = now()
	WHERE plan_id IN (
		SELECT st.plan_id
		FROM stages st
		JOIN updated u ON u.stage_id = st.stage_id
	);
	`
	if _, err := r.DB.ExecContext(ctx, query, stopID, travelMinutes); err != nil {
		return fmt.Errorf("update stop %d travel time: %w", stopID, err)
	}

	return nil
}
