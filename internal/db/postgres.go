package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

// Postgres wraps a postgres DB connection.
type Postgres struct {
	DB *sql.DB
}

// schemaSQL sets up the necessary tables if they don't exist.
const schemaSQL = `CREATE TABLE IF NOT EXISTS sponsors (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    logo TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS publishers (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    category TEXT,
    monthly_views INT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ad_slots (
    id TEXT PRIMARY KEY,
    publisher_id TEXT NOT NULL REFERENCES publishers(id),
    name TEXT NOT NULL,
    description TEXT,
    type TEXT NOT NULL,
    position TEXT,
    width INT,
    height INT,
    base_price DOUBLE PRECISION NOT NULL,
    cpm_floor DOUBLE PRECISION,
    is_available BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS campaigns (
    id TEXT PRIMARY KEY,
    sponsor_id TEXT NOT NULL REFERENCES sponsors(id),
    name TEXT NOT NULL,
    description TEXT,
    budget DOUBLE PRECISION NOT NULL,
    spent DOUBLE PRECISION NOT NULL DEFAULT 0,
    cpm_rate DOUBLE PRECISION,
    cpc_rate DOUBLE PRECISION,
    start_date TIMESTAMPTZ NOT NULL,
    end_date TIMESTAMPTZ NOT NULL,
    target_categories TEXT[] NOT NULL DEFAULT '{}',
    target_regions TEXT[] NOT NULL DEFAULT '{}',
    status TEXT NOT NULL DEFAULT 'DRAFT',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS placements (
    id TEXT PRIMARY KEY,
    ad_slot_id TEXT NOT NULL REFERENCES ad_slots(id),
    sponsor_id TEXT NOT NULL REFERENCES sponsors(id),
    campaign_id TEXT REFERENCES campaigns(id),
    message TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sponsors_user_id ON sponsors (user_id);
CREATE INDEX IF NOT EXISTS idx_publishers_user_id ON publishers (user_id);
CREATE INDEX IF NOT EXISTS idx_ad_slots_publisher_id ON ad_slots (publisher_id);
CREATE INDEX IF NOT EXISTS idx_ad_slots_available ON ad_slots (is_available) WHERE is_available;
CREATE INDEX IF NOT EXISTS idx_campaigns_sponsor_id ON campaigns (sponsor_id);
CREATE INDEX IF NOT EXISTS idx_placements_ad_slot_id ON placements (ad_slot_id);
CREATE INDEX IF NOT EXISTS idx_placements_campaign_id ON placements (campaign_id);
`

// InitPostgres connects to Postgres with connection pooling configuration.
func InitPostgres(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (*Postgres, error) {
	driverName, err := otelsql.Register("postgres",
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	p := &Postgres{DB: db}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	zap.L().Info("Connected to Postgres",
		zap.Int("max_open_conns", maxOpenConns),
		zap.Int("max_idle_conns", maxIdleConns))
	return p, nil
}

// Close terminates the Postgres connection.
func (p *Postgres) Close() {
	if p != nil && p.DB != nil {
		if err := p.DB.Close(); err != nil {
			zap.L().Error("postgres close", zap.Error(err))
		}
	}
}

// ensureSchema creates the required tables if they do not exist.
func (p *Postgres) ensureSchema() error {
	if _, err := p.DB.ExecContext(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ===== Role directory =====

// GetSponsorByUserID looks up the sponsor record linked to an auth user.
func (p *Postgres) GetSponsorByUserID(ctx context.Context, userID string) (*models.Sponsor, error) {
	var s models.Sponsor
	var logo sql.NullString
	err := p.DB.QueryRowContext(ctx,
		`SELECT id, user_id, name, logo, created_at FROM sponsors WHERE user_id = $1`,
		userID).Scan(&s.ID, &s.UserID, &s.Name, &logo, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query sponsor by user: %w", err)
	}
	s.Logo = logo.String
	return &s, nil
}

// GetPublisherByUserID looks up the publisher record linked to an auth user.
func (p *Postgres) GetPublisherByUserID(ctx context.Context, userID string) (*models.Publisher, error) {
	var pub models.Publisher
	var category sql.NullString
	var views sql.NullInt64
	err := p.DB.QueryRowContext(ctx,
		`SELECT id, user_id, name, category, monthly_views, created_at FROM publishers WHERE user_id = $1`,
		userID).Scan(&pub.ID, &pub.UserID, &pub.Name, &category, &views, &pub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query publisher by user: %w", err)
	}
	pub.Category = category.String
	pub.MonthlyViews = int(views.Int64)
	return &pub, nil
}

// InsertSponsor persists a sponsor record, assigning an id when absent.
func (p *Postgres) InsertSponsor(ctx context.Context, s *models.Sponsor) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	err := p.DB.QueryRowContext(ctx,
		`INSERT INTO sponsors (id, user_id, name, logo) VALUES ($1,$2,$3,$4) RETURNING created_at`,
		s.ID, s.UserID, s.Name, nullableString(s.Logo)).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sponsor: %w", err)
	}
	return nil
}

// InsertPublisher persists a publisher record, assigning an id when absent.
func (p *Postgres) InsertPublisher(ctx context.Context, pub *models.Publisher) error {
	if pub.ID == "" {
		pub.ID = uuid.NewString()
	}
	err := p.DB.QueryRowContext(ctx,
		`INSERT INTO publishers (id, user_id, name, category, monthly_views) VALUES ($1,$2,$3,$4,$5) RETURNING created_at`,
		pub.ID, pub.UserID, pub.Name, nullableString(pub.Category), pub.MonthlyViews).Scan(&pub.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert publisher: %w", err)
	}
	return nil
}

// ===== Ad slots =====

const adSlotColumns = `s.id, s.publisher_id, s.name, s.description, s.type, s.position,
       s.width, s.height, s.base_price, s.cpm_floor, s.is_available, s.created_at, s.updated_at,
       p.id, p.name, p.category, p.monthly_views,
       (SELECT COUNT(*) FROM placements pl WHERE pl.ad_slot_id = s.id) AS placement_count`

func scanAdSlot(row interface{ Scan(dest ...any) error }) (*models.AdSlot, error) {
	var s models.AdSlot
	var pub models.PublisherSummary
	var description, position, category sql.NullString
	var width, height, views sql.NullInt64
	var cpmFloor sql.NullFloat64
	if err := row.Scan(&s.ID, &s.PublisherID, &s.Name, &description, &s.Type, &position,
		&width, &height, &s.BasePrice, &cpmFloor, &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt,
		&pub.ID, &pub.Name, &category, &views, &s.PlacementCount); err != nil {
		return nil, err
	}
	s.Description = description.String
	s.Position = position.String
	if width.Valid {
		w := int(width.Int64)
		s.Width = &w
	}
	if height.Valid {
		h := int(height.Int64)
		s.Height = &h
	}
	if cpmFloor.Valid {
		f := cpmFloor.Float64
		s.CPMFloor = &f
	}
	pub.Category = category.String
	pub.MonthlyViews = int(views.Int64)
	s.Publisher = &pub
	return &s, nil
}

// ListAdSlots returns the publisher's ad slots, optionally filtered, sorted
// by base price descending.
func (p *Postgres) ListAdSlots(ctx context.Context, publisherID string, f models.AdSlotFilter) ([]models.AdSlot, error) {
	q := `SELECT ` + adSlotColumns + `
		FROM ad_slots s
		JOIN publishers p ON p.id = s.publisher_id
		WHERE s.publisher_id = $1`
	args := []any{publisherID}
	if f.Type != "" {
		args = append(args, string(f.Type))
		q += fmt.Sprintf(" AND s.type = $%d", len(args))
	}
	if f.AvailableOnly {
		q += " AND s.is_available"
	}
	q += " ORDER BY s.base_price DESC"

	rows, err := p.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query ad slots: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var slots []models.AdSlot
	for rows.Next() {
		s, err := scanAdSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad slot: %w", err)
		}
		slots = append(slots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return slots, nil
}

// ListAvailableAdSlots returns open inventory across all publishers. Used by
// the marketplace-facing read paths, not the owner-scoped dashboard.
func (p *Postgres) ListAvailableAdSlots(ctx context.Context, slotType models.SlotType) ([]models.AdSlot, error) {
	q := `SELECT ` + adSlotColumns + `
		FROM ad_slots s
		JOIN publishers p ON p.id = s.publisher_id
		WHERE s.is_available`
	var args []any
	if slotType != "" {
		args = append(args, string(slotType))
		q += " AND s.type = $1"
	}
	q += " ORDER BY s.base_price DESC"

	rows, err := p.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query available ad slots: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var slots []models.AdSlot
	for rows.Next() {
		s, err := scanAdSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad slot: %w", err)
		}
		slots = append(slots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return slots, nil
}

// GetAdSlot fetches a single ad slot by id regardless of owner; the caller
// performs the ownership comparison.
func (p *Postgres) GetAdSlot(ctx context.Context, id string) (*models.AdSlot, error) {
	row := p.DB.QueryRowContext(ctx, `SELECT `+adSlotColumns+`
		FROM ad_slots s
		JOIN publishers p ON p.id = s.publisher_id
		WHERE s.id = $1`, id)
	s, err := scanAdSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query ad slot: %w", err)
	}
	return s, nil
}

// InsertAdSlot persists a new ad slot, assigning an id when absent.
func (p *Postgres) InsertAdSlot(ctx context.Context, s *models.AdSlot) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	err := p.DB.QueryRowContext(ctx,
		`INSERT INTO ad_slots (id, publisher_id, name, description, type, position, width, height, base_price, cpm_floor, is_available)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING created_at, updated_at`,
		s.ID, s.PublisherID, s.Name, nullableString(s.Description), string(s.Type),
		nullableString(s.Position), s.Width, s.Height, s.BasePrice, s.CPMFloor, s.IsAvailable).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert ad slot: %w", err)
	}
	return nil
}

// UpdateAdSlot applies the fields present in the input to the slot matching
// both id and owner, then re-reads the row. A non-matching scope returns
// ErrNotFound.
func (p *Postgres) UpdateAdSlot(ctx context.Context, id, publisherID string, in *models.AdSlotInput) (*models.AdSlot, error) {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if in.Name.Set {
		add("name", strings.TrimSpace(in.Name.Value))
	}
	if in.Description.Set {
		add("description", nullableField(in.Description))
	}
	if in.Type.Set {
		add("type", in.Type.Value)
	}
	if in.Position.Set {
		add("position", nullableField(in.Position))
	}
	if in.Width.Set {
		add("width", nullableInt(in.Width))
	}
	if in.Height.Set {
		add("height", nullableInt(in.Height))
	}
	if in.BasePrice.Set {
		add("base_price", in.BasePrice.Value)
	}
	if in.CPMFloor.Set {
		add("cpm_floor", nullableFloat(in.CPMFloor))
	}
	if in.IsAvailable.Set {
		add("is_available", in.IsAvailable.Value)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, id, publisherID)
	q := fmt.Sprintf(`UPDATE ad_slots SET %s, updated_at = NOW() WHERE id = $%d AND publisher_id = $%d`,
		strings.Join(set, ", "), len(args)-1, len(args))
	res, err := p.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("update ad slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update ad slot rows: %w", err)
	}
	if n == 0 {
		return nil, models.ErrNotFound
	}
	return p.GetAdSlot(ctx, id)
}

// DeleteAdSlot removes the slot matching both id and owner, along with its
// placement history. Both statements run in one transaction so a failed or
// mis-scoped slot delete leaves the placements intact.
func (p *Postgres) DeleteAdSlot(ctx context.Context, id, publisherID string) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete ad slot: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM placements WHERE ad_slot_id = $1`, id); err != nil {
		return fmt.Errorf("delete placements for ad slot: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM ad_slots WHERE id = $1 AND publisher_id = $2`, id, publisherID)
	if err != nil {
		return fmt.Errorf("delete ad slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ad slot rows: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete ad slot: %w", err)
	}
	return nil
}

// BookAdSlot atomically flips an available slot to unavailable. The
// conditional update is the single-winner guard for concurrent bookings:
// exactly one caller sees a row affected, everyone else gets booked=false.
func (p *Postgres) BookAdSlot(ctx context.Context, id string) (bool, error) {
	res, err := p.DB.ExecContext(ctx,
		`UPDATE ad_slots SET is_available = FALSE, updated_at = NOW() WHERE id = $1 AND is_available`, id)
	if err != nil {
		return false, fmt.Errorf("book ad slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("book ad slot rows: %w", err)
	}
	return n == 1, nil
}

// UnbookAdSlot resets a slot to available.
func (p *Postgres) UnbookAdSlot(ctx context.Context, id string) error {
	res, err := p.DB.ExecContext(ctx,
		`UPDATE ad_slots SET is_available = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("unbook ad slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unbook ad slot rows: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// InsertPlacement records who booked a slot, assigning an id when absent.
func (p *Postgres) InsertPlacement(ctx context.Context, pl *models.Placement) error {
	if pl.ID == "" {
		pl.ID = uuid.NewString()
	}
	err := p.DB.QueryRowContext(ctx,
		`INSERT INTO placements (id, ad_slot_id, sponsor_id, campaign_id, message) VALUES ($1,$2,$3,$4,$5) RETURNING created_at`,
		pl.ID, pl.AdSlotID, pl.SponsorID, pl.CampaignID, nullableString(pl.Message)).Scan(&pl.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert placement: %w", err)
	}
	return nil
}

// ListPlacementsByCampaign returns the placements booked against a campaign,
// newest first.
func (p *Postgres) ListPlacementsByCampaign(ctx context.Context, campaignID string) ([]models.Placement, error) {
	rows, err := p.DB.QueryContext(ctx,
		`SELECT id, ad_slot_id, sponsor_id, campaign_id, message, created_at
		 FROM placements WHERE campaign_id = $1 ORDER BY created_at DESC`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("query placements: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var placements []models.Placement
	for rows.Next() {
		var pl models.Placement
		var message sql.NullString
		if err := rows.Scan(&pl.ID, &pl.AdSlotID, &pl.SponsorID, &pl.CampaignID, &message, &pl.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		pl.Message = message.String
		placements = append(placements, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return placements, nil
}

// ===== Campaigns =====

const campaignColumns = `c.id, c.sponsor_id, c.name, c.description, c.budget, c.spent,
       c.cpm_rate, c.cpc_rate, c.start_date, c.end_date, c.target_categories, c.target_regions,
       c.status, c.created_at, c.updated_at,
       sp.id, sp.name, sp.logo,
       (SELECT COUNT(*) FROM placements pl WHERE pl.campaign_id = c.id) AS placement_count`

func scanCampaign(row interface{ Scan(dest ...any) error }) (*models.Campaign, error) {
	var c models.Campaign
	var sp models.SponsorSummary
	var description, logo sql.NullString
	var cpmRate, cpcRate sql.NullFloat64
	var categories, regions []string
	if err := row.Scan(&c.ID, &c.SponsorID, &c.Name, &description, &c.Budget, &c.Spent,
		&cpmRate, &cpcRate, &c.StartDate, &c.EndDate, pq.Array(&categories), pq.Array(&regions),
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
		&sp.ID, &sp.Name, &logo, &c.PlacementCount); err != nil {
		return nil, err
	}
	c.Description = description.String
	if cpmRate.Valid {
		f := cpmRate.Float64
		c.CPMRate = &f
	}
	if cpcRate.Valid {
		f := cpcRate.Float64
		c.CPCRate = &f
	}
	if categories == nil {
		categories = []string{}
	}
	if regions == nil {
		regions = []string{}
	}
	c.TargetCategories = categories
	c.TargetRegions = regions
	sp.Logo = logo.String
	c.Sponsor = &sp
	return &c, nil
}

// ListCampaigns returns the sponsor's campaigns, optionally filtered by
// status, sorted by creation time descending.
func (p *Postgres) ListCampaigns(ctx context.Context, sponsorID string, status models.CampaignStatus) ([]models.Campaign, error) {
	q := `SELECT ` + campaignColumns + `
		FROM campaigns c
		JOIN sponsors sp ON sp.id = c.sponsor_id
		WHERE c.sponsor_id = $1`
	args := []any{sponsorID}
	if status != "" {
		args = append(args, string(status))
		q += fmt.Sprintf(" AND c.status = $%d", len(args))
	}
	q += " ORDER BY c.created_at DESC"

	rows, err := p.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var cs []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		cs = append(cs, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return cs, nil
}

// GetCampaign fetches a single campaign by id regardless of owner; the
// caller performs the ownership comparison.
func (p *Postgres) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	row := p.DB.QueryRowContext(ctx, `SELECT `+campaignColumns+`
		FROM campaigns c
		JOIN sponsors sp ON sp.id = c.sponsor_id
		WHERE c.id = $1`, id)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query campaign: %w", err)
	}
	return c, nil
}

// InsertCampaign persists a new campaign, assigning an id when absent.
func (p *Postgres) InsertCampaign(ctx context.Context, c *models.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.StatusDraft
	}
	err := p.DB.QueryRowContext(ctx,
		`INSERT INTO campaigns (id, sponsor_id, name, description, budget, spent, cpm_rate, cpc_rate, start_date, end_date, target_categories, target_regions, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13) RETURNING created_at, updated_at`,
		c.ID, c.SponsorID, c.Name, nullableString(c.Description), c.Budget, c.Spent,
		c.CPMRate, c.CPCRate, c.StartDate, c.EndDate,
		pq.Array(c.TargetCategories), pq.Array(c.TargetRegions), string(c.Status)).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// UpdateCampaign applies the fields present in the input to the campaign
// matching both id and owner, then re-reads the row.
func (p *Postgres) UpdateCampaign(ctx context.Context, id, sponsorID string, in *models.CampaignInput) (*models.Campaign, error) {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if in.Name.Set {
		add("name", strings.TrimSpace(in.Name.Value))
	}
	if in.Description.Set {
		add("description", nullableField(in.Description))
	}
	if in.Budget.Set {
		add("budget", in.Budget.Value)
	}
	if in.Spent.Set {
		if in.Spent.Null {
			add("spent", 0.0)
		} else {
			add("spent", in.Spent.Value)
		}
	}
	if in.CPMRate.Set {
		add("cpm_rate", nullableFloat(in.CPMRate))
	}
	if in.CPCRate.Set {
		add("cpc_rate", nullableFloat(in.CPCRate))
	}
	if in.StartDate.Set {
		add("start_date", in.StartDate.Value)
	}
	if in.EndDate.Set {
		add("end_date", in.EndDate.Value)
	}
	if in.TargetCategories.Set {
		add("target_categories", pq.Array(emptyWhenNull(in.TargetCategories)))
	}
	if in.TargetRegions.Set {
		add("target_regions", pq.Array(emptyWhenNull(in.TargetRegions)))
	}
	if in.Status.Set {
		add("status", in.Status.Value)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, id, sponsorID)
	q := fmt.Sprintf(`UPDATE campaigns SET %s, updated_at = NOW() WHERE id = $%d AND sponsor_id = $%d`,
		strings.Join(set, ", "), len(args)-1, len(args))
	res, err := p.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update campaign rows: %w", err)
	}
	if n == 0 {
		return nil, models.ErrNotFound
	}
	return p.GetCampaign(ctx, id)
}

// DeleteCampaign removes the campaign matching both id and owner. Placement
// history is detached rather than deleted so bookings stay auditable; the
// detach rolls back when the campaign delete matches nothing.
func (p *Postgres) DeleteCampaign(ctx context.Context, id, sponsorID string) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete campaign: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `UPDATE placements SET campaign_id = NULL WHERE campaign_id = $1`, id); err != nil {
		return fmt.Errorf("detach placements for campaign: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1 AND sponsor_id = $2`, id, sponsorID)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete campaign rows: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete campaign: %w", err)
	}
	return nil
}

// ===== Nullable helpers =====

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableField(f models.Field[string]) any {
	if f.Null || f.Value == "" {
		return nil
	}
	return f.Value
}

func nullableInt(n models.Number) any {
	if n.Null || !n.Valid {
		return nil
	}
	return int(n.Value)
}

func nullableFloat(n models.Number) any {
	if n.Null || !n.Valid {
		return nil
	}
	return n.Value
}

func emptyWhenNull(f models.Field[[]string]) []string {
	if f.Null || f.Value == nil {
		return []string{}
	}
	return f.Value
}
