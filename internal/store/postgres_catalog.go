package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sebbyk/airwaves/internal/models"
)

// --- substations ---

const substationColumns = `sub.id, sub.station_id, sub.station_group_id, sub.number,
	sub.marketing_name, sub.major_network_id, sub.created_at, sub.updated_at,
	mn.short_name, mn.long_name, mn.logo_url`

func (p *Postgres) collectSubstations(rows pgx.Rows) ([]models.SubstationWithNetwork, error) {
	defer rows.Close()
	var subs []models.SubstationWithNetwork
	for rows.Next() {
		var s models.SubstationWithNetwork
		if err := rows.Scan(&s.ID, &s.StationID, &s.StationGroupID, &s.Number,
			&s.MarketingName, &s.MajorNetworkID, &s.CreatedAt, &s.UpdatedAt,
			&s.NetworkShortName, &s.NetworkLongName, &s.NetworkLogoURL); err != nil {
			return nil, fmt.Errorf("scan substation: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (p *Postgres) GetSubstation(ctx context.Context, id int64) (*models.Substation, error) {
	var s models.Substation
	err := p.db.QueryRow(ctx,
		`SELECT id, station_id, station_group_id, number, marketing_name, major_network_id,
		        created_at, updated_at
		 FROM substations WHERE id = $1`, id,
	).Scan(&s.ID, &s.StationID, &s.StationGroupID, &s.Number, &s.MarketingName,
		&s.MajorNetworkID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetSubstation: %w", err)
	}
	return &s, nil
}

func (p *Postgres) ListStationSubstations(ctx context.Context, stationID int64, groupID *int64) ([]models.SubstationWithNetwork, error) {
	sql := `SELECT ` + substationColumns + `
		FROM substations sub
		LEFT JOIN major_networks mn ON sub.major_network_id = mn.id
		WHERE sub.station_id = $1`
	args := []any{stationID}
	if groupID != nil {
		sql += ` OR sub.station_group_id = $2`
		args = append(args, *groupID)
	}
	sql += ` ORDER BY sub.number, sub.id`

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ListStationSubstations: %w", err)
	}
	return p.collectSubstations(rows)
}

func (p *Postgres) ListGroupSubstations(ctx context.Context, groupID int64) ([]models.SubstationWithNetwork, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+substationColumns+`
		 FROM substations sub
		 LEFT JOIN major_networks mn ON sub.major_network_id = mn.id
		 WHERE sub.station_group_id = $1
		 ORDER BY sub.number, sub.id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("ListGroupSubstations: %w", err)
	}
	return p.collectSubstations(rows)
}

func (p *Postgres) CreateSubstation(ctx context.Context, sub *models.Substation, owner models.Owner) (int64, error) {
	if !owner.Valid() {
		return 0, models.ErrAmbiguousOwner
	}
	switch owner.Kind {
	case models.OwnerStation:
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM stations WHERE id = $1)`, owner.ID)
		if err != nil {
			return 0, fmt.Errorf("CreateSubstation check station: %w", err)
		}
		if !ok {
			return 0, fmt.Errorf("station %d: %w", owner.ID, ErrNotFound)
		}
	case models.OwnerGroup:
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM station_groups WHERE id = $1)`, owner.ID)
		if err != nil {
			return 0, fmt.Errorf("CreateSubstation check group: %w", err)
		}
		if !ok {
			return 0, fmt.Errorf("station group %d: %w", owner.ID, ErrNotFound)
		}
	}
	if sub.MajorNetworkID != nil {
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM major_networks WHERE id = $1)`, *sub.MajorNetworkID)
		if err != nil {
			return 0, fmt.Errorf("CreateSubstation check network: %w", err)
		}
		if !ok {
			return 0, fmt.Errorf("network %d: %w", *sub.MajorNetworkID, ErrNotFound)
		}
	}

	var id int64
	err := p.db.QueryRow(ctx,
		`INSERT INTO substations (station_id, station_group_id, number, marketing_name, major_network_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		owner.StationID(), owner.GroupID(), sub.Number, sub.MarketingName, sub.MajorNetworkID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateSubstation: %w", err)
	}
	return id, nil
}

func (p *Postgres) UpdateSubstation(ctx context.Context, id int64, fields SubstationUpdate) error {
	if fields.MajorNetworkID.Set && fields.MajorNetworkID.Value != nil {
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM major_networks WHERE id = $1)`, *fields.MajorNetworkID.Value)
		if err != nil {
			return fmt.Errorf("UpdateSubstation check network: %w", err)
		}
		if !ok {
			return fmt.Errorf("network %d: %w", *fields.MajorNetworkID.Value, ErrNotFound)
		}
	}

	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if fields.Number != nil {
		add("number", *fields.Number)
	}
	if fields.MarketingName != nil {
		add("marketing_name", *fields.MarketingName)
	}
	if fields.MajorNetworkID.Set {
		add("major_network_id", fields.MajorNetworkID.Value)
	}
	if len(sets) == 0 {
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM substations WHERE id = $1)`, id)
		if err != nil {
			return fmt.Errorf("UpdateSubstation: %w", err)
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	tag, err := p.db.Exec(ctx,
		fmt.Sprintf(`UPDATE substations SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return fmt.Errorf("UpdateSubstation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteSubstation(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM substations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteSubstation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- networks ---

func (p *Postgres) ListNetworks(ctx context.Context) ([]models.NetworkWithCount, error) {
	// Affiliate count = station-owned substations with this network, plus
	// group-owned ones multiplied out over each group's member stations.
	rows, err := p.db.Query(ctx,
		`SELECT n.id, n.short_name, n.long_name, n.logo_url, n.created_at, n.updated_at,
		   (SELECT COUNT(*) FROM substations sub
		      WHERE sub.major_network_id = n.id AND sub.station_id IS NOT NULL)
		 + (SELECT COUNT(*) FROM substations sub
		      JOIN stations s ON s.station_group_id = sub.station_group_id
		      WHERE sub.major_network_id = n.id AND sub.station_group_id IS NOT NULL)
		   AS affiliate_count
		 FROM major_networks n
		 ORDER BY n.short_name`)
	if err != nil {
		return nil, fmt.Errorf("ListNetworks: %w", err)
	}
	defer rows.Close()

	var networks []models.NetworkWithCount
	for rows.Next() {
		var n models.NetworkWithCount
		if err := rows.Scan(&n.ID, &n.ShortName, &n.LongName, &n.LogoURL,
			&n.CreatedAt, &n.UpdatedAt, &n.AffiliateCount); err != nil {
			return nil, fmt.Errorf("ListNetworks scan: %w", err)
		}
		networks = append(networks, n)
	}
	return networks, rows.Err()
}

func (p *Postgres) GetNetwork(ctx context.Context, id int64) (*models.MajorNetwork, error) {
	var n models.MajorNetwork
	err := p.db.QueryRow(ctx,
		`SELECT id, short_name, long_name, logo_url, created_at, updated_at
		 FROM major_networks WHERE id = $1`, id,
	).Scan(&n.ID, &n.ShortName, &n.LongName, &n.LogoURL, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetNetwork: %w", err)
	}
	return &n, nil
}

const affiliateColumns = `sub.id, sub.number, sub.marketing_name,
	s.id, s.callsign, s.station_number, s.marketing_name, s.logo_url,
	s.tma_id, t.name`

func (p *Postgres) collectAffiliates(rows pgx.Rows) ([]models.Affiliate, error) {
	defer rows.Close()
	var affiliates []models.Affiliate
	for rows.Next() {
		var a models.Affiliate
		if err := rows.Scan(&a.SubstationID, &a.Number, &a.MarketingName,
			&a.StationID, &a.StationCallsign, &a.StationNumber, &a.StationName,
			&a.StationLogoURL, &a.TMAID, &a.TMAName); err != nil {
			return nil, fmt.Errorf("scan affiliate: %w", err)
		}
		affiliates = append(affiliates, a)
	}
	return affiliates, rows.Err()
}

func (p *Postgres) ListDirectAffiliates(ctx context.Context, networkID int64) ([]models.Affiliate, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+affiliateColumns+`
		 FROM substations sub
		 JOIN stations s ON sub.station_id = s.id
		 JOIN tmas t ON s.tma_id = t.id
		 WHERE sub.major_network_id = $1
		 ORDER BY t.name, s.station_number`, networkID)
	if err != nil {
		return nil, fmt.Errorf("ListDirectAffiliates: %w", err)
	}
	return p.collectAffiliates(rows)
}

func (p *Postgres) ListGroupAffiliates(ctx context.Context, networkID int64) ([]models.Affiliate, error) {
	// Expand each group-owned substation to every station in the group.
	rows, err := p.db.Query(ctx,
		`SELECT `+affiliateColumns+`
		 FROM substations sub
		 JOIN stations s ON s.station_group_id = sub.station_group_id
		 JOIN tmas t ON s.tma_id = t.id
		 WHERE sub.major_network_id = $1 AND sub.station_group_id IS NOT NULL
		 ORDER BY t.name, s.station_number`, networkID)
	if err != nil {
		return nil, fmt.Errorf("ListGroupAffiliates: %w", err)
	}
	return p.collectAffiliates(rows)
}

func (p *Postgres) CreateNetwork(ctx context.Context, n *models.MajorNetwork) (int64, error) {
	var id int64
	err := p.db.QueryRow(ctx,
		`INSERT INTO major_networks (short_name, long_name, logo_url)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		n.ShortName, n.LongName, n.LogoURL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateNetwork: %w", err)
	}
	return id, nil
}

func (p *Postgres) UpdateNetwork(ctx context.Context, id int64, fields NetworkUpdate) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if fields.ShortName != nil {
		add("short_name", *fields.ShortName)
	}
	if fields.LongName != nil {
		add("long_name", *fields.LongName)
	}
	if fields.LogoURL.Set {
		add("logo_url", fields.LogoURL.Value)
	}
	if len(sets) == 0 {
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM major_networks WHERE id = $1)`, id)
		if err != nil {
			return fmt.Errorf("UpdateNetwork: %w", err)
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	tag, err := p.db.Exec(ctx,
		fmt.Sprintf(`UPDATE major_networks SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return fmt.Errorf("UpdateNetwork: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteNetwork(ctx context.Context, id int64) error {
	var refs int
	err := p.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM substations WHERE major_network_id = $1`, id,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("DeleteNetwork count refs: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("network %d has %d affiliated substations: %w", id, refs, ErrConflict)
	}

	tag, err := p.db.Exec(ctx, `DELETE FROM major_networks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteNetwork: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- station groups ---

func (p *Postgres) ListStationGroups(ctx context.Context) ([]models.StationGroup, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, name, logo_url, created_at, updated_at FROM station_groups ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ListStationGroups: %w", err)
	}
	defer rows.Close()

	var groups []models.StationGroup
	for rows.Next() {
		var g models.StationGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.LogoURL, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ListStationGroups scan: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (p *Postgres) GetStationGroup(ctx context.Context, id int64) (*models.StationGroup, error) {
	var g models.StationGroup
	err := p.db.QueryRow(ctx,
		`SELECT id, name, logo_url, created_at, updated_at FROM station_groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.LogoURL, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetStationGroup: %w", err)
	}
	return &g, nil
}

func (p *Postgres) ListStationsByGroup(ctx context.Context, groupID int64) ([]models.StationWithTMA, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+stationColumns+`
		 FROM stations s
		 JOIN tmas t ON s.tma_id = t.id
		 LEFT JOIN station_groups sg ON s.station_group_id = sg.id
		 WHERE s.station_group_id = $1
		 ORDER BY t.name, s.station_number`, groupID)
	if err != nil {
		return nil, fmt.Errorf("ListStationsByGroup: %w", err)
	}
	return p.collectStations(rows)
}

func (p *Postgres) CreateStationGroup(ctx context.Context, g *models.StationGroup) (int64, error) {
	var id int64
	err := p.db.QueryRow(ctx,
		`INSERT INTO station_groups (name, logo_url) VALUES ($1, $2) RETURNING id`,
		g.Name, g.LogoURL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateStationGroup: %w", err)
	}
	return id, nil
}

func (p *Postgres) UpdateStationGroup(ctx context.Context, id int64, fields StationGroupUpdate) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if fields.Name != nil {
		add("name", *fields.Name)
	}
	if fields.LogoURL.Set {
		add("logo_url", fields.LogoURL.Value)
	}
	if len(sets) == 0 {
		ok, err := p.rowExists(ctx, `SELECT EXISTS(SELECT 1 FROM station_groups WHERE id = $1)`, id)
		if err != nil {
			return fmt.Errorf("UpdateStationGroup: %w", err)
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	tag, err := p.db.Exec(ctx,
		fmt.Sprintf(`UPDATE station_groups SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return fmt.Errorf("UpdateStationGroup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteStationGroup(ctx context.Context, id int64) error {
	var refs int
	err := p.db.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM stations WHERE station_group_id = $1)
		      + (SELECT COUNT(*) FROM substations WHERE station_group_id = $1)`, id,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("DeleteStationGroup count refs: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("station group %d is referenced by %d rows: %w", id, refs, ErrConflict)
	}

	tag, err := p.db.Exec(ctx, `DELETE FROM station_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteStationGroup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
