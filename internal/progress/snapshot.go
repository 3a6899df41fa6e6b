package progress

import (
	"maps"
	"time"

	"github.com/abhisek/quantumsignals/internal/catalog"
)

// SnapshotVersion is written into every persisted snapshot.
const SnapshotVersion = "1.0"

// Snapshot is the aggregate progress of one user.
type Snapshot struct {
	Version          string                           `json:"version"`
	Modules          map[catalog.ModuleID]ModuleState `json:"modules"`
	TotalPoints      int                              `json:"totalPoints"`
	CurrentModule    catalog.ModuleID                 `json:"currentModule"`
	CompletedJourney bool                             `json:"completedJourney"`
	UpdatedAt        time.Time                        `json:"lastUpdated"`
}

// DefaultSnapshot returns first-run progress: the first module unlocked,
// everything else locked, all scores zero. The journey counts as complete
// from the start when its marker is the first module.
func DefaultSnapshot(cat *catalog.Catalog) *Snapshot {
	s := &Snapshot{
		Version:       SnapshotVersion,
		Modules:       make(map[catalog.ModuleID]ModuleState, cat.Len()),
		CurrentModule: cat.First().ID,
		UpdatedAt:     time.Now().UTC(),
	}
	for _, m := range cat.Modules() {
		s.Modules[m.ID] = ModuleState{RequiredPoints: m.RequiredPoints}
	}
	first := s.Modules[cat.First().ID]
	first.Unlocked = true
	s.Modules[cat.First().ID] = first
	s.CompletedJourney = cat.JourneyMarker() == cat.First().ID
	return s
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Modules = maps.Clone(s.Modules)
	return &c
}

// Module returns the state of id and whether it exists.
func (s *Snapshot) Module(id catalog.ModuleID) (ModuleState, bool) {
	m, ok := s.Modules[id]
	return m, ok
}

func (s *Snapshot) recomputeTotal() {
	total := 0
	for _, m := range s.Modules {
		total += m.Points
	}
	s.TotalPoints = total
}

// reconcile fits a decoded snapshot to the catalog. Thresholds always come
// from the catalog, unknown modules are dropped and missing ones get
// defaults. Returns the names of fields that had to be repaired.
func reconcile(cat *catalog.Catalog, s *Snapshot) []string {
	var repaired []string
	if s.Modules == nil {
		s.Modules = make(map[catalog.ModuleID]ModuleState, cat.Len())
	}
	for id := range s.Modules {
		if !cat.Contains(id) {
			delete(s.Modules, id)
			repaired = append(repaired, "modules."+string(id))
		}
	}

	for i, m := range cat.Modules() {
		st, ok := s.Modules[m.ID]
		if !ok {
			repaired = append(repaired, "modules."+string(m.ID))
		}
		st.RequiredPoints = m.RequiredPoints
		if st.Points < 0 {
			st.Points = 0
		}
		if st.BestScore < st.Points {
			st.BestScore = st.Points
		}
		if i == 0 {
			st.Unlocked = true
		}
		if st.Completed && st.Points < st.RequiredPoints {
			st.Completed = false
			repaired = append(repaired, "modules."+string(m.ID)+".completed")
		}
		s.Modules[m.ID] = st
	}

	// A completed module always has its successor open.
	for _, m := range cat.Modules() {
		if !s.Modules[m.ID].Completed {
			continue
		}
		if next, ok := cat.Successor(m.ID); ok {
			ns := s.Modules[next]
			if !ns.Unlocked {
				ns.Unlocked = true
				s.Modules[next] = ns
				repaired = append(repaired, "modules."+string(next)+".unlocked")
			}
		}
	}

	if !cat.Contains(s.CurrentModule) {
		s.CurrentModule = cat.First().ID
	}
	if s.Modules[cat.JourneyMarker()].Unlocked {
		s.CompletedJourney = true
	}
	if s.Version == "" {
		s.Version = SnapshotVersion
	}
	s.recomputeTotal()
	return repaired
}
