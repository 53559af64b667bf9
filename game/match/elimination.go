package match

import (
	"log"
	"sort"
)

// finishRoundLocked settles a completed round: assigns sentinel times to
// participants still on the grid, ranks survivors by effective time, folds
// round stats into the participants, culls the bottom of the table, and
// either starts the next round or completes the match.
func (m *Match) finishRoundLocked() {
	round := m.round
	rs := m.runtime

	rs.FinalizeTimeouts(m.template.RoundBudget() + SentinelSlack)
	effective := rs.EffectiveTimes(CollisionPenalty)

	live := m.liveParticipantsLocked()
	for _, p := range live {
		p.RoundTimes[round-1] = effective[p.ID]
		p.Collisions += rs.Collisions(p.ID)
	}

	// Stable sort over current rank order keeps ties deterministic.
	sort.SliceStable(live, func(i, j int) bool {
		return effective[live[i].ID] < effective[live[j].ID]
	})
	for i, p := range live {
		p.Rank = i + 1
	}

	cut := m.template.EliminationCount(round)
	if round == len(roundStatuses)-1 {
		// The final round always reduces the field to a single winner,
		// regardless of how many entrants the match started with.
		cut = len(live) - 1
	}
	if cut > len(live)-1 {
		cut = len(live) - 1
	}
	for _, p := range live[len(live)-cut:] {
		p.Eliminated = true
		p.EliminatedRound = round
	}

	m.recordRoundLocked(round)
	m.publishLocked(EventRoundComplete, map[string]any{
		"round":       round,
		"standings":   m.standingsLocked(),
		"eliminated":  cut,
		"remaining":   len(live) - cut,
	})
	log.Printf("match %s: round %d complete, %d eliminated, %d remain", m.id, round, cut, len(live)-cut)

	m.runtime = nil
	if len(live)-cut <= 1 {
		m.completeLocked(live[0])
		return
	}
	if err := m.startRoundLocked(); err != nil {
		log.Printf("match %s: failed to start round %d: %v", m.id, round+1, err)
		m.status = StatusCancelled
		m.endedAt = m.now()
		m.recordResultLocked()
	}
}

// completeLocked moves the match to its terminal completed state, computes
// the prize split, and hands the winner to settlement.
func (m *Match) completeLocked(winner *Participant) {
	for i := 0; i < len(winner.RoundTimes); i++ {
		winner.TotalTime += winner.RoundTimes[i]
	}
	m.winnerID = winner.ID
	m.status = StatusCompleted
	m.endedAt = m.now()

	winnerPrize := m.prizePool * WinnerShare
	if m.deps.Settlement != nil {
		m.deps.Settlement.Settle(m.id, winner.ID, m.prizePool, winnerPrize)
	}
	m.recordResultLocked()
	m.publishLocked(EventMatchComplete, map[string]any{
		"winner_id":    winner.ID,
		"winner_agent": winner.AgentID,
		"prize_pool":   m.prizePool,
		"winner_prize": winnerPrize,
		"total_time":   winner.TotalTime.Seconds(),
	})
	log.Printf("match %s: completed, winner %s (%s), prize %.2f of pool %.2f",
		m.id, winner.ID, winner.AgentID, winnerPrize, m.prizePool)
}

func (m *Match) standingsLocked() []Participant {
	out := make([]Participant, 0, len(m.participants))
	for _, p := range m.participants {
		out = append(out, *p)
	}
	return out
}

func (m *Match) recordRoundLocked(round int) {
	if m.deps.Recorder == nil {
		return
	}
	m.deps.Recorder.RecordRound(m.id, round, m.standingsLocked())
}
