// Package conciergetest provides an in-memory concierge.Store for tests.
package conciergetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/david/donor-concierge/internal/db"
	"github.com/david/donor-concierge/internal/models"
	"github.com/david/donor-concierge/internal/vision"
)

type MemStore struct {
	mu            sync.Mutex
	donors        map[uuid.UUID]models.Donor
	turns         map[uuid.UUID][]models.ChatTurn
	visions       map[uuid.UUID]vision.ImpactVision
	opportunities map[string]models.Opportunity
	nextTurnID    int64

	// Err, when set, is returned by every call.
	Err error
}

func NewMemStore() *MemStore {
	return &MemStore{
		donors:        map[uuid.UUID]models.Donor{},
		turns:         map[uuid.UUID][]models.ChatTurn{},
		visions:       map[uuid.UUID]vision.ImpactVision{},
		opportunities: map[string]models.Opportunity{},
	}
}

func (m *MemStore) CreateDonor(_ context.Context, displayName string) (*models.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	d := models.Donor{ID: uuid.New(), DisplayName: strings.TrimSpace(displayName), CreatedAt: time.Now().UTC()}
	m.donors[d.ID] = d
	return &d, nil
}

func (m *MemStore) GetDonor(_ context.Context, id uuid.UUID) (*models.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	d, ok := m.donors[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &d, nil
}

func (m *MemStore) AppendTurn(_ context.Context, donorID uuid.UUID, role vision.Role, content string) (*models.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.nextTurnID++
	t := models.ChatTurn{ID: m.nextTurnID, DonorID: donorID, Role: role, Content: content, CreatedAt: time.Now().UTC()}
	m.turns[donorID] = append(m.turns[donorID], t)
	return &t, nil
}

func (m *MemStore) ListTurns(_ context.Context, donorID uuid.UUID) ([]models.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.ChatTurn{}, m.turns[donorID]...), nil
}

func (m *MemStore) GetVision(_ context.Context, donorID uuid.UUID) (*vision.ImpactVision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	v, ok := m.visions[donorID]
	if !ok {
		return nil, db.ErrNotFound
	}
	v = v.Clone()
	return &v, nil
}

func (m *MemStore) SaveVision(_ context.Context, donorID uuid.UUID, v vision.ImpactVision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.visions[donorID] = v.Clone()
	return nil
}

func (m *MemStore) AllOpportunities(_ context.Context) ([]models.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Opportunity, 0, len(m.opportunities))
	for _, o := range m.opportunities {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MemStore) ListOpportunities(ctx context.Context, params db.ListParams) (*db.ListResult, error) {
	all, err := m.AllOpportunities(ctx)
	if err != nil {
		return nil, err
	}
	var filtered []models.Opportunity
	for _, o := range all {
		if params.Category != "" && !strings.EqualFold(o.Category, strings.TrimSpace(params.Category)) {
			continue
		}
		if params.Location != "" && !strings.Contains(strings.ToLower(o.Location), strings.ToLower(params.Location)) {
			continue
		}
		filtered = append(filtered, o)
	}

	total := len(filtered)
	start := min(params.Offset, total)
	end := total
	if params.Limit > 0 {
		end = min(start+params.Limit, total)
	}
	return &db.ListResult{
		Opportunities: append([]models.Opportunity{}, filtered[start:end]...),
		Total:         total,
		Limit:         params.Limit,
		Offset:        params.Offset,
	}, nil
}

func (m *MemStore) GetOpportunityByKey(_ context.Context, key string) (*models.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	o, ok := m.opportunities[key]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &o, nil
}

func (m *MemStore) UpsertOpportunity(_ context.Context, o *models.Opportunity) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	existing, ok := m.opportunities[o.Key]
	if ok {
		o.ID = existing.ID
	} else if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	m.opportunities[o.Key] = *o
	return !ok, nil
}
