package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/hidden-ring-tictactoe/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrLocked     = errors.New("puzzle is locked")
	ErrBadCode    = errors.New("incorrect code")
	ErrStaleRound = errors.New("board is from an earlier round")
)

// DefaultUnlockCode opens the puzzle when no code is configured.
const DefaultUnlockCode = "JONES"

// NothingHappens is the transient notice for clicks on inert outer cells.
const NothingHappens = "Nothing happens when you click there."

// Options configures a Service.
type Options struct {
	UnlockCode  string
	Strategy    domain.Strategy
	RevealOnTie bool
	// CPUDelay postpones the computer's reply. Zero replies inline.
	CPUDelay time.Duration
	// NoticeTTL is how long a transient notice stays up. Zero keeps it until
	// the next move.
	NoticeTTL time.Duration
	Logger    *slog.Logger
	Renderer  func(GameState) []byte
}

// GameState is the in-memory state of the current puzzle.
type GameState struct {
	Round    string
	Game     domain.Game
	Unlocked bool
	Notice   string
	Created  time.Time
	Updated  time.Time
}

// Status is the text shown in the status area.
func (gs GameState) Status() string {
	if gs.Notice != "" {
		return gs.Notice
	}
	g := gs.Game
	switch {
	case g.Over && g.Winner == domain.Human:
		return "You win!"
	case g.Over && g.Winner == domain.CPU:
		return "CPU wins."
	case g.Over:
		return "It's a tie!"
	case len(g.Selectable) > 0:
		return "Place your final O!"
	case g.AwaitingCPU:
		return "CPU is thinking..."
	case g.Moves <= 1:
		return ""
	default:
		return "Your turn."
	}
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

// send delivers b without blocking; false means the subscriber is too slow.
func (s *subscriber) send(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- b:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Service owns the one current game and its subscribers.
type Service struct {
	mu     sync.Mutex
	opts   Options
	state  GameState
	subs   map[*subscriber]struct{}
	render func(GameState) []byte
	log    *slog.Logger

	noticeSeq   uint64
	noticeTimer *time.Timer
	cpuTimer    *time.Timer
}

// NewService creates a locked service holding a fresh game.
func NewService(opts Options) *Service {
	if strings.TrimSpace(opts.UnlockCode) == "" {
		opts.UnlockCode = DefaultUnlockCode
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		opts: opts,
		subs: make(map[*subscriber]struct{}),
		log:  opts.Logger,
	}
	s.SetRenderer(opts.Renderer)
	s.resetLocked()
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(gs GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// Get returns a copy of the current state.
func (s *Service) Get() *GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.state
	return &cp
}

// Unlock compares code to the unlock string, ignoring case and surrounding
// space. On a match the puzzle is opened with a fresh game.
func (s *Service) Unlock(code string) (*GameState, error) {
	if !strings.EqualFold(strings.TrimSpace(code), strings.TrimSpace(s.opts.UnlockCode)) {
		s.log.Info("unlock rejected")
		return nil, ErrBadCode
	}
	s.mu.Lock()
	s.resetLocked()
	s.state.Unlocked = true
	s.log.Info("puzzle unlocked", slog.String("round", s.state.Round))
	return s.publishAndUnlock(), nil
}

// Reset discards the current game and seeds a new one. The unlock gate is
// left as it is.
func (s *Service) Reset() *GameState {
	s.mu.Lock()
	s.resetLocked()
	s.log.Info("game reset", slog.String("round", s.state.Round))
	return s.publishAndUnlock()
}

// Play applies the human's move at row r, column c. An empty round skips
// the staleness check. Clicking an inert outer cell returns
// domain.ErrNotSelectable together with the updated state carrying the
// notice.
func (s *Service) Play(round string, r, c int) (*GameState, error) {
	s.mu.Lock()
	if !s.state.Unlocked {
		s.mu.Unlock()
		return nil, ErrLocked
	}
	if round != "" && round != s.state.Round {
		cp := s.state
		s.mu.Unlock()
		return &cp, ErrStaleRound
	}

	err := s.state.Game.Move(r, c)
	switch {
	case errors.Is(err, domain.ErrNotSelectable):
		s.setNoticeLocked(NothingHappens)
	case err != nil:
		cp := s.state
		s.mu.Unlock()
		return &cp, err
	default:
		s.clearNoticeLocked()
		s.log.Debug("human move", slog.Int("row", r), slog.Int("col", c))
		s.afterMoveLocked()
	}
	return s.publishAndUnlock(), err
}

// Subscribe registers a subscriber. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := &subscriber{ch: make(chan []byte, 1)}
	s.subs[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			delete(s.subs, sub)
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

func (s *Service) resetLocked() {
	stopTimer(s.cpuTimer)
	stopTimer(s.noticeTimer)
	s.cpuTimer, s.noticeTimer = nil, nil
	s.noticeSeq++
	now := time.Now()
	s.state = GameState{
		Round: uuid.NewString(),
		Game: domain.New(domain.Options{
			Strategy:    s.opts.Strategy,
			RevealOnTie: s.opts.RevealOnTie,
		}),
		Unlocked: s.state.Unlocked,
		Created:  now,
		Updated:  now,
	}
}

func (s *Service) afterMoveLocked() {
	if !s.state.Game.AwaitingCPU {
		s.logOutcomeLocked()
		return
	}
	if s.opts.CPUDelay <= 0 {
		s.respondLocked()
		return
	}
	round := s.state.Round
	s.cpuTimer = time.AfterFunc(s.opts.CPUDelay, func() { s.respond(round) })
}

// respond plays a delayed computer reply if the round is still current.
func (s *Service) respond(round string) {
	s.mu.Lock()
	if s.state.Round != round || !s.state.Game.AwaitingCPU {
		s.mu.Unlock()
		return
	}
	s.respondLocked()
	s.publishAndUnlock()
}

func (s *Service) respondLocked() {
	before := s.state.Game.Board
	if s.state.Game.Respond() {
		for i := range before {
			if before[i] != s.state.Game.Board[i] {
				r, c := domain.RowCol(i)
				s.log.Debug("cpu move", slog.Int("row", r), slog.Int("col", c),
					slog.String("strategy", s.state.Game.Strategy.String()))
			}
		}
	}
	s.logOutcomeLocked()
}

func (s *Service) logOutcomeLocked() {
	g := s.state.Game
	switch {
	case g.Over:
		s.log.Info("game resolved",
			slog.String("round", s.state.Round),
			slog.String("status", s.state.Status()),
			slog.Bool("revealed", g.Revealed))
	case len(g.Selectable) > 0:
		s.log.Info("outer cells enabled",
			slog.String("round", s.state.Round),
			slog.Any("cells", g.Selectable))
	}
}

func (s *Service) setNoticeLocked(msg string) {
	stopTimer(s.noticeTimer)
	s.noticeSeq++
	s.state.Notice = msg
	if s.opts.NoticeTTL <= 0 {
		return
	}
	seq := s.noticeSeq
	s.noticeTimer = time.AfterFunc(s.opts.NoticeTTL, func() { s.expireNotice(seq) })
}

func (s *Service) clearNoticeLocked() {
	stopTimer(s.noticeTimer)
	s.noticeTimer = nil
	s.noticeSeq++
	s.state.Notice = ""
}

func (s *Service) expireNotice(seq uint64) {
	s.mu.Lock()
	if seq != s.noticeSeq || s.state.Notice == "" {
		s.mu.Unlock()
		return
	}
	s.state.Notice = ""
	s.publishAndUnlock()
}

// publishAndUnlock stamps the state, releases the lock and fans the
// rendered state out to subscribers. It must be called with s.mu held.
func (s *Service) publishAndUnlock() *GameState {
	s.state.Updated = time.Now()
	cp := s.state
	subs := s.copySubsLocked()
	payload := s.render(cp)
	s.mu.Unlock()

	// Fan-out; drop slow subscribers by closing and marking for deletion
	var toDrop []*subscriber
	for sub := range subs {
		if !sub.send(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) > 0 {
		s.mu.Lock()
		for _, sub := range toDrop {
			delete(s.subs, sub)
		}
		s.mu.Unlock()
	}
	return &cp
}

func (s *Service) copySubsLocked() map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{}, len(s.subs))
	for k := range s.subs {
		out[k] = struct{}{}
	}
	return out
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
