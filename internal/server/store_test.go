package server_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hongminglow/insight-be/internal/models"
	"github.com/hongminglow/insight-be/internal/storage"
)

// memStore is an in-memory double for the postgres store, mirroring its
// filter, sort, and pagination semantics.
type memStore struct {
	mu      sync.Mutex
	users   map[int64]models.User
	nextUID int64
	entries map[int64]models.Entry
	nextEID int64
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[int64]models.User{},
		entries: map[int64]models.Entry{},
	}
}

func (m *memStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	m.nextUID++
	user.ID = m.nextUID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (m *memStore) FindUserByID(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) RecordLoginFailure(_ context.Context, id int64, attempts int, lockUntil *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.LoginAttempts = attempts
	u.LockUntil = lockUntil
	m.users[id] = u
	return nil
}

func (m *memStore) RecordLoginSuccess(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	now := time.Now()
	u.LoginAttempts = 0
	u.LockUntil = nil
	u.LastLogin = &now
	m.users[id] = u
	return nil
}

func (m *memStore) CreateEntry(_ context.Context, entry models.Entry) (models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEID++
	entry.ID = m.nextEID
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	m.entries[entry.ID] = entry
	return entry, nil
}

func (m *memStore) InsertEntries(ctx context.Context, entries []models.Entry) ([]models.Entry, []error) {
	created := make([]models.Entry, len(entries))
	errs := make([]error, len(entries))
	for i, e := range entries {
		created[i], errs[i] = m.CreateEntry(ctx, e)
	}
	return created, errs
}

func (m *memStore) GetEntry(_ context.Context, ownerID, id int64) (models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.OwnerID != ownerID || !e.IsActive {
		return models.Entry{}, storage.ErrNotFound
	}
	return e, nil
}

func (m *memStore) QueryEntries(_ context.Context, ownerID int64, opts storage.QueryOptions) ([]models.Entry, int, error) {
	matched := m.matching(ownerID, opts.EntryFilter)
	sortEntries(matched, opts.Sort)

	total := len(matched)
	page, limit := opts.Page, opts.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *memStore) AllEntries(_ context.Context, ownerID int64, filter storage.EntryFilter, max int) ([]models.Entry, error) {
	matched := m.matching(ownerID, filter)
	sortEntries(matched, "-date")
	if len(matched) > max {
		matched = matched[:max]
	}
	return matched, nil
}

func (m *memStore) UpdateEntry(_ context.Context, entry models.Entry) (models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.entries[entry.ID]
	if !ok || existing.OwnerID != entry.OwnerID || !existing.IsActive {
		return models.Entry{}, storage.ErrNotFound
	}
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = time.Now()
	entry.Source = existing.Source
	entry.IsActive = true
	m.entries[entry.ID] = entry
	return entry, nil
}

func (m *memStore) DeleteEntry(_ context.Context, ownerID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.OwnerID != ownerID || !e.IsActive {
		return storage.ErrNotFound
	}
	e.IsActive = false
	m.entries[id] = e
	return nil
}

func (m *memStore) matching(ownerID int64, f storage.EntryFilter) []models.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Entry
	category := strings.ToLower(strings.TrimSpace(f.Category))
	for _, e := range m.entries {
		if e.OwnerID != ownerID || !e.IsActive {
			continue
		}
		if category != "" && !strings.Contains(e.Category, category) {
			continue
		}
		if f.StartDate != nil && e.Date.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && e.Date.After(*f.EndDate) {
			continue
		}
		if f.MinSales != nil && e.Sales < *f.MinSales {
			continue
		}
		if f.MaxSales != nil && e.Sales > *f.MaxSales {
			continue
		}
		if f.MinProfit != nil && e.Profit < *f.MinProfit {
			continue
		}
		if f.MaxProfit != nil && e.Profit > *f.MaxProfit {
			continue
		}
		out = append(out, e)
	}
	return out
}

func sortEntries(entries []models.Entry, key string) {
	if key == "" {
		key = "-date"
	}
	desc := strings.HasPrefix(key, "-")
	field := strings.TrimPrefix(key, "-")
	less := func(a, b models.Entry) bool {
		switch field {
		case "sales":
			return a.Sales < b.Sales
		case "profit":
			return a.Profit < b.Profit
		case "category":
			return a.Category < b.Category
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.Date.Before(b.Date)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if desc {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}
