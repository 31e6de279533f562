package service

import (
	"context"
	"log/slog"
	"time"

	"showdown/internal/cache"
	"showdown/internal/model"
	"showdown/internal/store"
)

// SnapshotStatus tells a live-update subscriber what happened to its
// room between ticks.
type SnapshotStatus int

const (
	SnapshotOK SnapshotStatus = iota
	SnapshotRoomClosed
	SnapshotPlayerRemoved
)

// GameService is the gateway between transports and the room store.
// It also implements store.Notifier: store events fan out to the
// subscriber hub and, on finish, to the leaderboard.
type GameService struct {
	store       *store.Store
	leaderboard cache.LeaderboardCache // nil when Redis is not configured
	notifier    SnapshotNotifier
	logger      *slog.Logger
}

// NewGameService creates a new game service. leaderboard may be nil.
func NewGameService(st *store.Store, leaderboard cache.LeaderboardCache, logger *slog.Logger) *GameService {
	return &GameService{
		store:       st,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// SetNotifier wires the live-update hub (hub implements
// service.SnapshotNotifier).
func (s *GameService) SetNotifier(n SnapshotNotifier) {
	s.notifier = n
}

func (s *GameService) CreateRoom(hostID, hostName string) (*model.Room, error) {
	room, err := s.store.CreateRoom(hostID, hostName)
	if err != nil {
		return nil, err
	}
	return room.Public(), nil
}

func (s *GameService) JoinRoom(code, playerID, playerName string) (*model.Room, error) {
	room, err := s.store.JoinRoom(code, playerID, playerName)
	if err != nil {
		return nil, err
	}
	return room.Public(), nil
}

func (s *GameService) GetRoom(roomID string) (*model.Room, error) {
	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	return room.Public(), nil
}

func (s *GameService) GetRoomByCode(code string) (*model.Room, error) {
	room, err := s.store.GetRoomByCode(code)
	if err != nil {
		return nil, err
	}
	return room.Public(), nil
}

func (s *GameService) SetReady(roomID, playerID string, ready bool) error {
	return s.store.SetReady(roomID, playerID, ready)
}

func (s *GameService) StartGame(roomID, hostID string, questionCount int) (*model.Room, error) {
	room, err := s.store.StartGame(roomID, hostID, questionCount)
	if err != nil {
		return nil, err
	}
	return room.Public(), nil
}

func (s *GameService) SubmitAnswer(roomID, playerID string, questionIndex, selectedOption int, timeSpent float64) error {
	return s.store.SubmitAnswer(roomID, playerID, questionIndex, selectedOption, timeSpent)
}

func (s *GameService) LeaveRoom(roomID, playerID string) error {
	return s.store.RemovePlayer(roomID, playerID)
}

func (s *GameService) ResetGame(roomID, hostID string) error {
	return s.store.ResetGame(roomID, hostID)
}

func (s *GameService) Stats(roomID string) (*model.RoomStats, error) {
	return s.store.Stats(roomID)
}

// Snapshot returns the room view for one subscriber, or a terminal
// status when the room is gone or the player is no longer a member.
func (s *GameService) Snapshot(roomID, playerID string) (*model.Room, SnapshotStatus) {
	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, SnapshotRoomClosed
	}
	if room.Player(playerID) == nil {
		return nil, SnapshotPlayerRemoved
	}
	return room.Public(), SnapshotOK
}

// Leaderboard returns the global top scores. Empty when Redis is not
// configured.
func (s *GameService) Leaderboard(ctx context.Context, top int) ([]cache.LeaderboardEntry, error) {
	if s.leaderboard == nil {
		return []cache.LeaderboardEntry{}, nil
	}
	return s.leaderboard.GetTop(ctx, top)
}

// RoomChanged implements store.Notifier.
func (s *GameService) RoomChanged(roomID string) {
	if s.notifier != nil {
		s.notifier.RoomChanged(roomID)
	}
}

// RoomClosed implements store.Notifier.
func (s *GameService) RoomClosed(roomID string) {
	if s.notifier != nil {
		s.notifier.RoomClosed(roomID)
	}
}

// RoomFinished implements store.Notifier: final scores go to the
// leaderboard. Best effort; gameplay never depends on Redis.
func (s *GameService) RoomFinished(room *model.Room) {
	if s.leaderboard == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, p := range room.Players {
		if err := s.leaderboard.RecordScore(ctx, p.ID, p.Name, p.Score); err != nil {
			s.logger.Warn("leaderboard update failed", "room", room.ID, "player", p.ID, "error", err)
		}
	}
}
