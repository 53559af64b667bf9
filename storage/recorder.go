package storage

import (
	"log"

	"gorm.io/gorm"

	"github.com/apexarena/gridrace/game/match"
	"github.com/apexarena/gridrace/models"
)

// queueDepth bounds how many pending writes can accumulate before new
// records are dropped. Dropping beats blocking a match's move pipeline.
const queueDepth = 1024

// Recorder implements match.Recorder on a single background writer
// goroutine. Enqueueing never blocks; an overflowing queue drops the
// record with a log line.
type Recorder struct {
	db   *gorm.DB
	jobs chan func(db *gorm.DB)
	done chan struct{}
}

// NewRecorder starts the writer goroutine over an open database handle.
func NewRecorder(db *gorm.DB) *Recorder {
	r := &Recorder{
		db:   db,
		jobs: make(chan func(db *gorm.DB), queueDepth),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for job := range r.jobs {
		job(r.db)
	}
}

// Close stops accepting records and waits for queued writes to flush.
func (r *Recorder) Close() {
	close(r.jobs)
	<-r.done
}

func (r *Recorder) enqueue(kind string, job func(db *gorm.DB)) {
	select {
	case r.jobs <- job:
	default:
		log.Printf("storage: dropping %s record, write queue full", kind)
	}
}

// RecordMove appends one processed move to the match's move log.
func (r *Recorder) RecordMove(entry match.MoveEntry) {
	row := moveRow(entry)
	r.enqueue("move", func(db *gorm.DB) {
		if err := db.Create(&row).Error; err != nil {
			log.Printf("storage: failed to record move %d for match %s: %v", entry.Sequence, entry.MatchID, err)
		}
	})
}

// RecordRound writes the full standings table computed at a round boundary.
func (r *Recorder) RecordRound(matchID string, round int, participants []match.Participant) {
	rows := standingRows(matchID, round, participants)
	if len(rows) == 0 {
		return
	}
	r.enqueue("round", func(db *gorm.DB) {
		if err := db.Create(&rows).Error; err != nil {
			log.Printf("storage: failed to record round %d standings for match %s: %v", round, matchID, err)
		}
	})
}

// RecordResult writes the terminal match record.
func (r *Recorder) RecordResult(result match.Result) {
	row := resultRow(result)
	r.enqueue("result", func(db *gorm.DB) {
		if err := db.Create(&row).Error; err != nil {
			log.Printf("storage: failed to record result for match %s: %v", result.MatchID, err)
		}
	})
}

func moveRow(entry match.MoveEntry) models.Move {
	return models.Move{
		MatchID:       entry.MatchID,
		ParticipantID: entry.ParticipantID,
		Round:         entry.Round,
		Sequence:      entry.Sequence,
		FromRow:       entry.From.Row,
		FromCol:       entry.From.Col,
		ToRow:         entry.To.Row,
		ToCol:         entry.To.Col,
		Collision:     entry.Collision,
		Reason:        string(entry.Reason),
		At:            entry.At,
	}
}

func standingRows(matchID string, round int, participants []match.Participant) []models.RoundStanding {
	rows := make([]models.RoundStanding, 0, len(participants))
	for _, p := range participants {
		// Entrants eliminated in earlier rounds carry no new time.
		if p.Eliminated && p.EliminatedRound < round {
			continue
		}
		rows = append(rows, models.RoundStanding{
			MatchID:       matchID,
			Round:         round,
			ParticipantID: p.ID,
			AgentID:       p.AgentID,
			Rank:          p.Rank,
			Collisions:    p.Collisions,
			RoundTimeMS:   p.RoundTimes[round-1].Milliseconds(),
			Eliminated:    p.Eliminated,
		})
	}
	return rows
}

func resultRow(result match.Result) models.Match {
	row := models.Match{
		ID:          result.MatchID,
		Template:    result.Template,
		Status:      string(result.Status),
		PrizePool:   result.PrizePool,
		WinnerPrize: result.WinnerPrize,
		StartedAt:   result.StartedAt,
		EndedAt:     result.EndedAt,
	}
	if result.WinnerID != "" {
		winner := result.WinnerID
		row.WinnerID = &winner
	}
	return row
}
