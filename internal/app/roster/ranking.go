package roster

import (
	"sort"
	"time"

	"github.com/osa030/linetimer/internal/domain/game"
)

// Rank returns the players ordered by live total, longest first. Ties keep
// roster order. It only reads state and is safe to call every frame.
func (m *Manager) Rank(now time.Time) []game.Standing {
	at := m.sampleAt(now)
	running := m.game.Running()
	limit := m.game.Limit()

	standings := make([]game.Standing, len(m.players))
	for i, p := range m.players {
		standings[i] = game.Standing{
			ID:      p.ID,
			Name:    p.Name,
			Active:  p.IsActive,
			Total:   p.LiveTotal(at, running, limit),
			Current: p.Current(at, running),
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})
	return standings
}
