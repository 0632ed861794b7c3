package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hongminglow/insight-be/internal/models"
)

// ErrNotFound indicates a record does not exist or is not visible to the caller.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// EntryFilter narrows an owner-scoped entry query. Nil bounds are omitted
// from the predicate; set bounds are inclusive. Category matches as a
// case-insensitive substring.
type EntryFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	MinSales  *float64
	MaxSales  *float64
	MinProfit *float64
	MaxProfit *float64
}

// QueryOptions adds pagination and ordering on top of an EntryFilter.
// Sort is one of date, sales, profit, category, createdAt, optionally
// prefixed with "-" for descending. The default is "-date".
type QueryOptions struct {
	EntryFilter
	Page  int
	Limit int
	Sort  string
}

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// RecordLoginFailure stores an updated attempt counter and, when the
	// threshold was crossed, the lockout deadline.
	RecordLoginFailure(ctx context.Context, id int64, attempts int, lockUntil *time.Time) error
	// RecordLoginSuccess resets the attempt counter and stamps last login.
	RecordLoginSuccess(ctx context.Context, id int64) error
}

// EntryStore captures entry persistence operations needed by handlers.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry models.Entry) (models.Entry, error)
	// InsertEntries attempts every row independently. Both returned slices
	// are aligned with the input: errs[i] is nil exactly when entries[i]
	// was persisted and created[i] holds the stored row.
	InsertEntries(ctx context.Context, entries []models.Entry) (created []models.Entry, errs []error)
	GetEntry(ctx context.Context, ownerID, id int64) (models.Entry, error)
	QueryEntries(ctx context.Context, ownerID int64, opts QueryOptions) ([]models.Entry, int, error)
	// AllEntries returns every active entry matching the filter up to max
	// rows, newest date first. Used by stats and export.
	AllEntries(ctx context.Context, ownerID int64, filter EntryFilter, max int) ([]models.Entry, error)
	UpdateEntry(ctx context.Context, entry models.Entry) (models.Entry, error)
	// DeleteEntry flips the active flag; the row itself is kept.
	DeleteEntry(ctx context.Context, ownerID, id int64) error
}
