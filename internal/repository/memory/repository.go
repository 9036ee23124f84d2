package memory

import (
	"sync"
	"time"

	"github.com/scoutkit/analysis/internal/models"
)

// Repository caches remote provider responses in memory with the time they
// were fetched. Freshness policy lives in the service layer; the repository
// only records what was fetched and when.
type Repository struct {
	mu           sync.RWMutex
	rankings     map[string]models.TBARankingRow
	rankingsAt   time.Time
	matches      []models.TBAMatch
	matchesAt    time.Time
	teamEvents   map[string][]models.TBAEvent
	teamEventsAt map[string]time.Time
}

func NewRepository() *Repository {
	return &Repository{
		teamEvents:   make(map[string][]models.TBAEvent),
		teamEventsAt: make(map[string]time.Time),
	}
}

func (r *Repository) SaveRankings(rows map[string]models.TBARankingRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rankings = rows
	r.rankingsAt = time.Now()
}

func (r *Repository) GetRankings() (map[string]models.TBARankingRow, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rankings, r.rankingsAt, r.rankings != nil
}

func (r *Repository) SaveMatches(matches []models.TBAMatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = matches
	r.matchesAt = time.Now()
}

func (r *Repository) GetMatches() ([]models.TBAMatch, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.matches, r.matchesAt, r.matches != nil
}

func (r *Repository) SaveTeamEvents(team string, events []models.TBAEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teamEvents[team] = events
	r.teamEventsAt[team] = time.Now()
}

func (r *Repository) GetTeamEvents(team string) ([]models.TBAEvent, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events, ok := r.teamEvents[team]
	return events, r.teamEventsAt[team], ok
}
