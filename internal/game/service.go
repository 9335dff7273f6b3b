package game

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationChannel is the pub/sub channel game events are published on.
const NotificationChannel = "notifications"

const (
	NotificationGameStarted = "game_started"
	NotificationGameOver    = "game_over"
)

// Notification is the payload published when a game starts or ends.
type Notification struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
	Player string `json:"player"`
	Winner Side   `json:"winner,omitempty"`
}

// Publisher fans game events out to other processes.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Result is a finished game as seen from the human player.
type Result struct {
	GameID   string
	PlayerID string
	Won      bool
	Shots    int
	Hits     int
	Duration time.Duration
}

// ResultRecorder stores finished games of authenticated players.
type ResultRecorder interface {
	RecordResult(ctx context.Context, r Result) error
}

// Scheduler runs f once after d. The returned function cancels the call
// if it has not started yet.
type Scheduler func(d time.Duration, f func()) (cancel func() bool)

func timerScheduler(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type session struct {
	mu        sync.Mutex
	id        string
	playerID  string
	ctrl      *Controller
	startedAt time.Time
	touched   time.Time
	cancelAI  func() bool
	subs      map[int]func(Snapshot)
	nextSub   int
}

type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	publisher Publisher
	recorder  ResultRecorder
	aiDelay   time.Duration
	schedule  Scheduler
	newRand   func() *rand.Rand
}

// NewService creates a Service. publisher and recorder may be nil.
func NewService(publisher Publisher, recorder ResultRecorder, aiDelay time.Duration) *Service {
	return &Service{
		sessions:  make(map[string]*session),
		publisher: publisher,
		recorder:  recorder,
		aiDelay:   aiDelay,
		schedule:  timerScheduler,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// NewGame starts a game in the placement phase. playerID is empty for guests.
func (s *Service) NewGame(playerID string) (string, Snapshot) {
	sess := &session{
		id:        uuid.NewString(),
		playerID:  playerID,
		ctrl:      NewController(s.newRand()),
		startedAt: time.Now(),
		touched:   time.Now(),
		subs:      make(map[int]func(Snapshot)),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	log.Info().Str("game_id", sess.id).Str("player_id", playerID).Msg("game created")
	return sess.id, sess.ctrl.Snapshot()
}

func (s *Service) get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return sess, nil
}

// Snapshot returns the current state of a game.
func (s *Service) Snapshot(id string) (Snapshot, error) {
	sess, err := s.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.ctrl.Snapshot(), nil
}

// PlayerID returns the owner of a game.
func (s *Service) PlayerID(id string) (string, error) {
	sess, err := s.get(id)
	if err != nil {
		return "", err
	}
	return sess.playerID, nil
}

// Apply runs one intent against a game and returns the resulting snapshot.
// Subscribers are notified before Apply returns.
func (s *Service) Apply(ctx context.Context, id string, in Intent) (Snapshot, error) {
	sess, err := s.get(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	sess.touched = time.Now()
	before := sess.ctrl.Snapshot()
	after, err := sess.ctrl.Apply(in)
	if err != nil {
		sess.mu.Unlock()
		return after, err
	}
	out := s.afterChange(sess, before, after)
	sess.mu.Unlock()

	s.deliver(ctx, out)
	return after, nil
}

// Subscribe registers fn to receive every snapshot of game id, including
// the ones produced by deferred AI moves. fn runs with the game locked and
// must not call back into the Service.
func (s *Service) Subscribe(id string, fn func(Snapshot)) (unsubscribe func(), err error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	key := sess.nextSub
	sess.nextSub++
	sess.subs[key] = fn
	sess.mu.Unlock()

	return func() {
		sess.mu.Lock()
		delete(sess.subs, key)
		sess.mu.Unlock()
	}, nil
}

// End drops a game and cancels its pending AI move.
func (s *Service) End(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return
	}

	sess.mu.Lock()
	if sess.cancelAI != nil {
		sess.cancelAI()
		sess.cancelAI = nil
	}
	sess.mu.Unlock()
	log.Info().Str("game_id", id).Msg("game ended")
}

// Reap ends every game untouched for longer than maxIdle and returns how
// many were dropped.
func (s *Service) Reap(now time.Time, maxIdle time.Duration) int {
	s.mu.RLock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	var idle []string
	for _, sess := range sessions {
		sess.mu.Lock()
		if now.Sub(sess.touched) > maxIdle {
			idle = append(idle, sess.id)
		}
		sess.mu.Unlock()
	}

	for _, id := range idle {
		s.End(id)
	}
	return len(idle)
}

// RunReaper calls Reap every interval until ctx is cancelled.
func (s *Service) RunReaper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Reap(now, maxIdle); n > 0 {
				log.Info().Int("games", n).Msg("reaped idle games")
			}
		}
	}
}

// Len returns the number of live games.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// outbox holds the notifications and result produced by one state change.
// It is delivered after sess.mu is released.
type outbox struct {
	notifications []Notification
	result        *Result
}

// afterChange schedules AI moves, notifies subscribers and collects phase
// events into the returned outbox. Callers hold sess.mu.
func (s *Service) afterChange(sess *session, before, after Snapshot) outbox {
	var out outbox
	if before.Turn != after.Turn && sess.cancelAI != nil {
		sess.cancelAI()
		sess.cancelAI = nil
	}
	if after.AIPending && !before.AIPending {
		token := after.Turn
		sess.cancelAI = s.schedule(s.aiDelay, func() {
			s.resolveAI(sess, token)
		})
	}

	if last := after.LastShot; last != nil && (before.LastShot == nil || *before.LastShot != *last) {
		log.Debug().
			Str("game_id", sess.id).
			Str("by", string(last.By)).
			Str("coordinate", last.Position.String()).
			Str("outcome", string(last.Outcome)).
			Msg("shot resolved")
	}

	switch {
	case before.Phase == PhasePlacement && after.Phase == PhaseBattle:
		out.notifications = append(out.notifications, Notification{Type: NotificationGameStarted, GameID: sess.id, Player: sess.playerID})
	case before.Phase == PhaseBattle && after.Phase == PhaseGameOver:
		log.Info().Str("game_id", sess.id).Str("winner", string(after.Winner)).Msg("game over")
		out.notifications = append(out.notifications, Notification{Type: NotificationGameOver, GameID: sess.id, Player: sess.playerID, Winner: after.Winner})
		if sess.playerID != "" {
			out.result = &Result{
				GameID:   sess.id,
				PlayerID: sess.playerID,
				Won:      after.Winner == SidePlayer,
				Shots:    after.OpponentBoard.Shots(),
				Hits:     after.OpponentBoard.Hits(),
				Duration: time.Since(sess.startedAt),
			}
		}
	}

	for _, fn := range sess.subs {
		fn(after)
	}
	return out
}

func (s *Service) deliver(ctx context.Context, out outbox) {
	for _, n := range out.notifications {
		s.publish(ctx, n)
	}
	if out.result != nil {
		s.record(ctx, *out.result)
	}
}

func (s *Service) resolveAI(sess *session, token uint64) {
	sess.mu.Lock()
	before := sess.ctrl.Snapshot()
	after := sess.ctrl.ResolveAITurn(token)
	if !before.AIPending || after.AIPending {
		// stale timer
		sess.mu.Unlock()
		return
	}
	sess.cancelAI = nil
	out := s.afterChange(sess, before, after)
	sess.mu.Unlock()

	s.deliver(context.Background(), out)
}

func (s *Service) publish(ctx context.Context, n Notification) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		log.Error().Err(err).Str("game_id", n.GameID).Msg("failed to marshal notification")
		return
	}
	if err := s.publisher.Publish(ctx, NotificationChannel, payload); err != nil {
		log.Error().Err(err).Str("game_id", n.GameID).Str("type", n.Type).Msg("failed to publish notification")
	}
}

func (s *Service) record(ctx context.Context, r Result) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordResult(ctx, r); err != nil {
		log.Error().Err(err).Str("game_id", r.GameID).Str("player_id", r.PlayerID).Msg("failed to record result")
	}
}
