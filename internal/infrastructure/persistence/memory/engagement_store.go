package memory

import (
	"context"
	"sync"

	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/google/uuid"
)

// EngagementStore implements an in-memory engagement signal store. The
// window argument is honored by scaling RecentActivity: stats recorded
// here carry per-day recent activity and StatsWindow multiplies it out.
type EngagementStore struct {
	stats map[uuid.UUID]recipe.EngagementStats
	mutex sync.RWMutex
}

// NewEngagementStore creates an empty in-memory engagement store.
func NewEngagementStore() *EngagementStore {
	return &EngagementStore{
		stats: make(map[uuid.UUID]recipe.EngagementStats),
	}
}

// Record stores the engagement stats for one recipe, with
// RecentActivity interpreted as events per day.
func (s *EngagementStore) Record(stats recipe.EngagementStats) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats[stats.RecipeID] = stats
}

// StatsWindow returns engagement stats for all recorded recipes over
// the given rolling window.
func (s *EngagementStore) StatsWindow(ctx context.Context, windowDays int) ([]recipe.EngagementStats, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if windowDays < 1 {
		windowDays = 1
	}

	out := make([]recipe.EngagementStats, 0, len(s.stats))
	for _, st := range s.stats {
		windowed := st
		windowed.RecentActivity = st.RecentActivity * windowDays
		if windowed.RecentActivity > st.TotalViews {
			windowed.RecentActivity = st.TotalViews
		}
		out = append(out, windowed)
	}
	return out, nil
}
