package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/google/uuid"
)

// PlanHistoryStore implements an in-memory rated plan history, most
// recent first.
type PlanHistoryStore struct {
	history map[uuid.UUID][]outbound.RatedPlan
	mutex   sync.RWMutex
}

// NewPlanHistoryStore creates an empty in-memory history store.
func NewPlanHistoryStore() *PlanHistoryStore {
	return &PlanHistoryStore{
		history: make(map[uuid.UUID][]outbound.RatedPlan),
	}
}

// Record appends a rated plan to a customer's history.
func (s *PlanHistoryStore) Record(customerID uuid.UUID, rated outbound.RatedPlan) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.history[customerID] = append(s.history[customerID], rated)
}

// RatedPlans returns up to limit rated plans for the customer, most
// recent first. A limit of zero or less means no cap.
func (s *PlanHistoryStore) RatedPlans(ctx context.Context, customerID uuid.UUID, limit int) ([]outbound.RatedPlan, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stored := s.history[customerID]
	out := make([]outbound.RatedPlan, len(stored))
	copy(out, stored)

	sort.SliceStable(out, func(i, j int) bool { return out[i].RatedAt.After(out[j].RatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
