package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sebbyk/airwaves/internal/models"
)

// DB is the subset of pgxpool.Pool the store uses. Tests substitute a mock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres implements Store using PostgreSQL.
type Postgres struct {
	db   DB
	pool *pgxpool.Pool // nil when constructed from a bare DB (tests)
}

// NewPostgres creates a Postgres store from a DSN. Caller must call Close when done.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{db: pool, pool: pool}, nil
}

// NewPostgresFromDB creates a Postgres store over an existing DB handle.
func NewPostgresFromDB(db DB) *Postgres {
	return &Postgres{db: db}
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// rowExists runs a query expected to select a single boolean.
func (p *Postgres) rowExists(ctx context.Context, sql string, args ...any) (bool, error) {
	var exists bool
	if err := p.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// --- markets ---

func (p *Postgres) ListTMAs(ctx context.Context) ([]models.TMA, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, name, status, created_at, updated_at FROM tmas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ListTMAs: %w", err)
	}
	defer rows.Close()

	var tmas []models.TMA
	for rows.Next() {
		var t models.TMA
		if err := rows.Scan(&t.ID, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ListTMAs scan: %w", err)
		}
		tmas = append(tmas, t)
	}
	return tmas, rows.Err()
}

func (p *Postgres) GetTMA(ctx context.Context, id int64) (*models.TMA, error) {
	var t models.TMA
	err := p.db.QueryRow(ctx,
		`SELECT id, name, status, created_at, updated_at FROM tmas WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetTMA: %w", err)
	}
	return &t, nil
}

func (p *Postgres) UpdateTMAStatus(ctx context.Context, id int64, status string) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE tmas SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("UpdateTMAStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- stations ---

const stationColumns = `s.id, s.callsign, s.station_number, s.marketing_name, s.logo_url,
	s.tma_id, s.station_group_id, s.created_at, s.updated_at, t.name, sg.name`

func scanStationWithTMA(row pgx.Row, st *models.StationWithTMA) error {
	return row.Scan(&st.ID, &st.Callsign, &st.StationNumber, &st.MarketingName, &st.LogoURL,
		&st.TMAID, &st.StationGroupID, &st.CreatedAt, &st.UpdatedAt, &st.TMAName, &st.StationGroupName)
}

func (p *Postgres) collectStations(rows pgx.Rows) ([]models.StationWithTMA, error) {
	defer rows.Close()
	var stations []models.StationWithTMA
	for rows.Next() {
		var st models.StationWithTMA
		if err := scanStationWithTMA(rows, &st); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

func (p *Postgres) SearchStations(ctx context.Context, filter StationFilter) ([]models.StationWithTMA, error) {
	sql := `SELECT ` + stationColumns + `
		FROM stations s
		JOIN tmas t ON s.tma_id = t.id
		LEFT JOIN station_groups sg ON s.station_group_id = sg.id`

	var conds []string
	var args []any
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(s.callsign ILIKE $%d OR s.marketing_name ILIKE $%d OR s.station_number::text ILIKE $%d)`, n, n, n))
	}
	if filter.TMAID != nil {
		args = append(args, *filter.TMAID)
		conds = append(conds, fmt.Sprintf(`s.tma_id = $%d`, len(args)))
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY s.station_number"

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchStations: %w", err)
	}
	return p.collectStations(rows)
}

func (p *Postgres) ListStationsByTMA(ctx context.Context, tmaID int64) ([]models.StationWithTMA, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+stationColumns+`
		 FROM stations s
		 JOIN tmas t ON s.tma_id = t.id
		 LEFT JOIN station_groups sg ON s.station_group_id = sg.id
		 WHERE s.tma_id = $1
		 ORDER BY s.station_number`, tmaID)
	if err != nil {
		return nil, fmt.Errorf("ListStationsByTMA: %w", err)
	}
	return p.collectStations(rows)
}

func (p *Postgres) GetStation(ctx context.Context, id int64) (*models.StationWithTMA, error) {
	var st models.StationWithTMA
	err := scanStationWithTMA(p.db.QueryRow(ctx,
		`SELECT `+stationColumns+`
		 FROM stations s
		 JOIN tmas t ON s.tma_id = t.id
		 LEFT JOIN station_groups sg ON s.station_group_id = sg.id
		 WHERE s.id = $1`, id), &st)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetStation: %w", err)
	}
	return &st, nil
}

func (p *Postgres) CreateStation(ctx context.Context, st *models.Station) (int64, error) {
	ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM tmas WHERE id = $1)`, st.TMAID)
	if err != nil {
		return 0, fmt.Errorf("CreateStation check tma: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("tma %d: %w", st.TMAID, ErrNotFound)
	}
	if st.StationGroupID != nil {
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM station_groups WHERE id = $1)`, *st.StationGroupID)
		if err != nil {
			return 0, fmt.Errorf("CreateStation check group: %w", err)
		}
		if !ok {
			return 0, fmt.Errorf("station group %d: %w", *st.StationGroupID, ErrNotFound)
		}
	}

	var id int64
	err = p.db.QueryRow(ctx,
		`INSERT INTO stations (callsign, station_number, marketing_name, logo_url, tma_id, station_group_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		st.Callsign, st.StationNumber, st.MarketingName, st.LogoURL, st.TMAID, st.StationGroupID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateStation: %w", err)
	}
	return id, nil
}

func (p *Postgres) UpdateStation(ctx context.Context, id int64, fields StationUpdate) error {
	if fields.TMAID != nil {
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM tmas WHERE id = $1)`, *fields.TMAID)
		if err != nil {
			return fmt.Errorf("UpdateStation check tma: %w", err)
		}
		if !ok {
			return fmt.Errorf("tma %d: %w", *fields.TMAID, ErrNotFound)
		}
	}
	if fields.StationGroupID.Set && fields.StationGroupID.Value != nil {
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM station_groups WHERE id = $1)`, *fields.StationGroupID.Value)
		if err != nil {
			return fmt.Errorf("UpdateStation check group: %w", err)
		}
		if !ok {
			return fmt.Errorf("station group %d: %w", *fields.StationGroupID.Value, ErrNotFound)
		}
	}

	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if fields.Callsign != nil {
		add("callsign", *fields.Callsign)
	}
	if fields.StationNumber != nil {
		add("station_number", *fields.StationNumber)
	}
	if fields.MarketingName != nil {
		add("marketing_name", *fields.MarketingName)
	}
	if fields.LogoURL.Set {
		add("logo_url", fields.LogoURL.Value)
	}
	if fields.TMAID != nil {
		add("tma_id", *fields.TMAID)
	}
	if fields.StationGroupID.Set {
		add("station_group_id", fields.StationGroupID.Value)
	}
	if len(sets) == 0 {
		// Nothing to change; still report missing rows.
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM stations WHERE id = $1)`, id)
		if err != nil {
			return fmt.Errorf("UpdateStation: %w", err)
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	tag, err := p.db.Exec(ctx,
		fmt.Sprintf(`UPDATE stations SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return fmt.Errorf("UpdateStation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteStation(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteStation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
