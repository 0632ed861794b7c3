package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/insight-be/internal/models"
	"github.com/hongminglow/insight-be/internal/storage"
)

const entryColumns = `id, owner_id, entry_date, sales, profit, category, description, tags, source, is_active, created_at, updated_at`

// sortColumns whitelists API sort fields against real columns.
var sortColumns = map[string]string{
	"date":      "entry_date",
	"sales":     "sales",
	"profit":    "profit",
	"category":  "category",
	"createdAt": "created_at",
}

// CreateEntry inserts a single entry row.
func (s *Store) CreateEntry(ctx context.Context, entry models.Entry) (models.Entry, error) {
	const query = `
	INSERT INTO data_entries (owner_id, entry_date, sales, profit, category, description, tags, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + entryColumns + `;`

	row := s.pool.QueryRow(ctx, query, entry.OwnerID, entry.Date, entry.Sales, entry.Profit,
		entry.Category, entry.Description, entry.Tags, entry.Source)
	return scanEntry(row)
}

// InsertEntries persists each row independently so one bad row cannot abort
// its siblings. Returned slices are aligned with the input.
func (s *Store) InsertEntries(ctx context.Context, entries []models.Entry) ([]models.Entry, []error) {
	created := make([]models.Entry, len(entries))
	errs := make([]error, len(entries))
	for i, entry := range entries {
		created[i], errs[i] = s.CreateEntry(ctx, entry)
	}
	return created, errs
}

// GetEntry fetches one active entry, scoped to its owner.
func (s *Store) GetEntry(ctx context.Context, ownerID, id int64) (models.Entry, error) {
	const query = `SELECT ` + entryColumns + ` FROM data_entries
	WHERE id = $1 AND owner_id = $2 AND is_active = TRUE;`
	return scanEntry(s.pool.QueryRow(ctx, query, id, ownerID))
}

// QueryEntries returns one page of filtered entries plus the total match count.
func (s *Store) QueryEntries(ctx context.Context, ownerID int64, opts storage.QueryOptions) ([]models.Entry, int, error) {
	where, args := buildFilter(ownerID, opts.EntryFilter)

	var total int
	countQuery := `SELECT COUNT(*) FROM data_entries WHERE ` + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 20
	}

	query := `SELECT ` + entryColumns + ` FROM data_entries WHERE ` + where +
		` ORDER BY ` + orderClause(opts.Sort) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	entries, err := s.queryEntryRows(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// AllEntries returns every matching active entry up to max rows, newest first.
func (s *Store) AllEntries(ctx context.Context, ownerID int64, filter storage.EntryFilter, max int) ([]models.Entry, error) {
	where, args := buildFilter(ownerID, filter)
	query := `SELECT ` + entryColumns + ` FROM data_entries WHERE ` + where +
		` ORDER BY entry_date DESC` + fmt.Sprintf(` LIMIT $%d`, len(args)+1)
	args = append(args, max)
	return s.queryEntryRows(ctx, query, args)
}

// UpdateEntry replaces the mutable columns of an owner-scoped entry.
func (s *Store) UpdateEntry(ctx context.Context, entry models.Entry) (models.Entry, error) {
	const query = `
	UPDATE data_entries
	SET entry_date = $3, sales = $4, profit = $5, category = $6, description = $7, tags = $8, updated_at = NOW()
	WHERE id = $1 AND owner_id = $2 AND is_active = TRUE
	RETURNING ` + entryColumns + `;`

	row := s.pool.QueryRow(ctx, query, entry.ID, entry.OwnerID, entry.Date, entry.Sales,
		entry.Profit, entry.Category, entry.Description, entry.Tags)
	return scanEntry(row)
}

// DeleteEntry soft-deletes by flipping the active flag.
func (s *Store) DeleteEntry(ctx context.Context, ownerID, id int64) error {
	const query = `
	UPDATE data_entries SET is_active = FALSE, updated_at = NOW()
	WHERE id = $1 AND owner_id = $2 AND is_active = TRUE;`
	tag, err := s.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) queryEntryRows(ctx context.Context, query string, args []any) ([]models.Entry, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// buildFilter assembles the WHERE clause shared by list, stats, and export.
// Absent bounds are simply omitted; set bounds are inclusive.
func buildFilter(ownerID int64, f storage.EntryFilter) (string, []any) {
	clauses := []string{"owner_id = $1", "is_active = TRUE"}
	args := []any{ownerID}

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.Category != "" {
		add("category LIKE $%d", "%"+strings.ToLower(strings.TrimSpace(f.Category))+"%")
	}
	if f.StartDate != nil {
		add("entry_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("entry_date <= $%d", *f.EndDate)
	}
	if f.MinSales != nil {
		add("sales >= $%d", *f.MinSales)
	}
	if f.MaxSales != nil {
		add("sales <= $%d", *f.MaxSales)
	}
	if f.MinProfit != nil {
		add("profit >= $%d", *f.MinProfit)
	}
	if f.MaxProfit != nil {
		add("profit <= $%d", *f.MaxProfit)
	}

	return strings.Join(clauses, " AND "), args
}

func orderClause(sort string) string {
	if sort == "" {
		sort = "-date"
	}
	dir := "ASC"
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		sort = sort[1:]
	}
	column, ok := sortColumns[sort]
	if !ok {
		column, dir = "entry_date", "DESC"
	}
	return column + " " + dir
}

func scanEntry(row pgx.Row) (models.Entry, error) {
	var entry models.Entry
	err := row.Scan(&entry.ID, &entry.OwnerID, &entry.Date, &entry.Sales, &entry.Profit,
		&entry.Category, &entry.Description, &entry.Tags, &entry.Source,
		&entry.IsActive, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Entry{}, storage.ErrNotFound
		}
		return models.Entry{}, err
	}
	return entry, nil
}
