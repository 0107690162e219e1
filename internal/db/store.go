package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/david/donor-concierge/internal/models"
	"github.com/david/donor-concierge/internal/vision"
)

var ErrNotFound = errors.New("db: not found")

// Querier is the subset of pgxpool.Pool the store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool Querier
}

func NewStore(pool Querier) *Store {
	if pool == nil {
		panic("db: querier required")
	}
	return &Store{pool: pool}
}

// --- donors ---

func (s *Store) CreateDonor(ctx context.Context, displayName string) (*models.Donor, error) {
	d := models.Donor{ID: uuid.New(), DisplayName: strings.TrimSpace(displayName)}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO donors (id, display_name)
		VALUES ($1, $2)
		RETURNING created_at
	`, d.ID, d.DisplayName).Scan(&d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db: create donor: %w", err)
	}
	return &d, nil
}

func (s *Store) GetDonor(ctx context.Context, id uuid.UUID) (*models.Donor, error) {
	var d models.Donor
	err := s.pool.QueryRow(ctx, `SELECT id, display_name, created_at FROM donors WHERE id = $1`, id).
		Scan(&d.ID, &d.DisplayName, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db: get donor: %w", err)
	}
	return &d, nil
}

// --- chat turns ---

func (s *Store) AppendTurn(ctx context.Context, donorID uuid.UUID, role vision.Role, content string) (*models.ChatTurn, error) {
	t := models.ChatTurn{DonorID: donorID, Role: role, Content: content}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO chat_turns (donor_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, donorID, string(role), content).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db: append turn: %w", err)
	}
	return &t, nil
}

// ListTurns returns the donor's transcript, oldest first.
func (s *Store) ListTurns(ctx context.Context, donorID uuid.UUID) ([]models.ChatTurn, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, donor_id, role, content, created_at
		FROM chat_turns
		WHERE donor_id = $1
		ORDER BY created_at ASC, id ASC
	`, donorID)
	if err != nil {
		return nil, fmt.Errorf("db: list turns: %w", err)
	}
	defer rows.Close()

	turns := []models.ChatTurn{}
	for rows.Next() {
		var t models.ChatTurn
		var role string
		if err := rows.Scan(&t.ID, &t.DonorID, &role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db: scan turn: %w", err)
		}
		t.Role = vision.Role(role)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: list turns: %w", err)
	}
	return turns, nil
}

// --- impact visions ---

func (s *Store) GetVision(ctx context.Context, donorID uuid.UUID) (*vision.ImpactVision, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT vision FROM impact_visions WHERE donor_id = $1`, donorID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db: get vision: %w", err)
	}

	var v vision.ImpactVision
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("db: decode vision: %w", err)
	}
	return &v, nil
}

// SaveVision stores v verbatim as JSON, replacing any earlier version.
func (s *Store) SaveVision(ctx context.Context, donorID uuid.UUID, v vision.ImpactVision) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("db: encode vision: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO impact_visions (donor_id, vision, stage, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (donor_id) DO UPDATE
		SET vision = EXCLUDED.vision, stage = EXCLUDED.stage, updated_at = NOW()
	`, donorID, raw, string(v.Stage))
	if err != nil {
		return fmt.Errorf("db: save vision: %w", err)
	}
	return nil
}

// --- opportunities ---

type ListParams struct {
	Category string
	Location string
	Query    string
	Limit    int
	Offset   int
}

type ListResult struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Total         int                  `json:"total"`
	Limit         int                  `json:"limit"`
	Offset        int                  `json:"offset"`
}

const selectCols = `id, key, title, summary, summary_html, category, location,
	organization, amount, amount_text, info_tier, created_at, updated_at`

func scanOpportunity(scan func(dest ...any) error) (models.Opportunity, error) {
	var o models.Opportunity
	err := scan(
		&o.ID, &o.Key, &o.Title, &o.Summary, &o.SummaryHTML, &o.Category, &o.Location,
		&o.Organization, &o.Amount, &o.AmountText, &o.InfoTier, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func (s *Store) ListOpportunities(ctx context.Context, params ListParams) (*ListResult, error) {
	where := "WHERE 1=1"
	var args []any
	argIdx := 1

	if params.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, strings.ToLower(strings.TrimSpace(params.Category)))
		argIdx++
	}
	if params.Location != "" {
		where += fmt.Sprintf(" AND location ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, params.Location)
		argIdx++
	}
	if params.Query != "" {
		where += fmt.Sprintf(" AND (title ILIKE '%%' || $%d || '%%' OR summary ILIKE '%%' || $%d || '%%')", argIdx, argIdx)
		args = append(args, params.Query)
		argIdx++
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM opportunities "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count failed: %w", err)
	}

	selectSQL := fmt.Sprintf("SELECT %s FROM opportunities %s ORDER BY key ASC", selectCols, where)
	if params.Limit > 0 {
		selectSQL += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, params.Limit, params.Offset)
	}

	rows, err := s.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	opps := []models.Opportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		opps = append(opps, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return &ListResult{
		Opportunities: opps,
		Total:         total,
		Limit:         params.Limit,
		Offset:        params.Offset,
	}, nil
}

// AllOpportunities returns the whole catalog for matching.
func (s *Store) AllOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	res, err := s.ListOpportunities(ctx, ListParams{})
	if err != nil {
		return nil, err
	}
	return res.Opportunities, nil
}

func (s *Store) GetOpportunityByKey(ctx context.Context, key string) (*models.Opportunity, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM opportunities WHERE key = $1`, selectCols), key)
	o, err := scanOpportunity(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db: get opportunity: %w", err)
	}
	return &o, nil
}

// UpsertOpportunity inserts or refreshes an opportunity by key and reports
// whether a new row was created.
func (s *Store) UpsertOpportunity(ctx context.Context, o *models.Opportunity) (bool, error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	var inserted bool
	err := s.pool.QueryRow(ctx, `
		INSERT INTO opportunities (id, key, title, summary, summary_html, category, location,
			organization, amount, amount_text, info_tier, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (key) DO UPDATE SET
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			summary_html = EXCLUDED.summary_html,
			category = EXCLUDED.category,
			location = EXCLUDED.location,
			organization = EXCLUDED.organization,
			amount = EXCLUDED.amount,
			amount_text = EXCLUDED.amount_text,
			info_tier = EXCLUDED.info_tier,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted
	`, o.ID, o.Key, o.Title, o.Summary, o.SummaryHTML, o.Category, o.Location,
		o.Organization, o.Amount, o.AmountText, o.InfoTier).Scan(&o.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("db: upsert opportunity %s: %w", o.Key, err)
	}
	o.UpdatedAt = time.Now().UTC()
	return inserted, nil
}

// --- stats ---

var countedTables = []string{"donors", "chat_turns", "impact_visions", "opportunities"}

// CountRows reports row counts per table, in a stable order.
func (s *Store) CountRows(ctx context.Context) ([]TableCount, error) {
	out := make([]TableCount, 0, len(countedTables))
	for _, table := range countedTables {
		var n int
		if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("db: count %s: %w", table, err)
		}
		out = append(out, TableCount{Table: table, Rows: n})
	}
	return out, nil
}

type TableCount struct {
	Table string
	Rows  int
}
