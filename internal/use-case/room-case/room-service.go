package room_service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/room_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	room_repo "github.com/Matches1st/Cord-Disc-Chat/internal/repo/room"
	"github.com/Matches1st/Cord-Disc-Chat/state"
)

const (
	directoryLimit  = 50
	maxCodeAttempts = 10
)

type RoomService struct {
	AppState *state.AppState
	RoomRepo room_repo.RoomRepoContract
}

func NewRoomService(appState *state.AppState) RoomServiceContract {
	return &RoomService{
		AppState: appState,
		RoomRepo: room_repo.NewRoomRepo(appState),
	}
}

// Create generates a code, verifies it is free and commits room plus
// owner membership atomically. A commit-time collision (someone claimed
// the code between check and commit) surfaces as Conflict and is retried
// with a fresh code.
func (s *RoomService) Create(ctx context.Context, req room_dto.CreateRoomRequest, uid string) (*room_dto.RoomResponse, *app_error.AppError) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, app_error.Validation("room name is required", "name")
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := GenerateRoomCode()

		exists, err := s.RoomRepo.CodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		room := entity.Room{
			Code:      code,
			Name:      name,
			OwnerUID:  uid,
			CreatedAt: time.Now(),
		}

		if err := s.RoomRepo.CreateRoom(ctx, room); err != nil {
			if app_error.IsConflict(err) {
				log.Warn().Str("code", code).Msg("room code collided at commit, regenerating")
				continue
			}
			return nil, err
		}

		resp := room_dto.FromRoom(&room, []string{uid})
		return &resp, nil
	}

	return nil, app_error.Internal("failed to generate a unique room code", "room-code")
}

func (s *RoomService) Join(ctx context.Context, req room_dto.JoinRoomRequest, uid string) (*room_dto.RoomResponse, *app_error.AppError) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !IsValidRoomCode(code) {
		return nil, app_error.Validation("room code must be 6 alphanumeric characters", "code")
	}

	room, err := s.RoomRepo.JoinRoom(ctx, code, uid)
	if err != nil {
		return nil, err
	}

	members, err := s.RoomRepo.MemberIDs(ctx, code)
	if err != nil {
		return nil, err
	}

	resp := room_dto.FromRoom(room, members)
	return &resp, nil
}

// List is the room directory view: rooms this identity belongs to,
// newest first, capped at 50.
func (s *RoomService) List(ctx context.Context, uid string) (*room_dto.ListRoomsResponse, *app_error.AppError) {
	rooms, err := s.RoomRepo.ListByMember(ctx, uid, directoryLimit)
	if err != nil {
		return nil, err
	}

	out := make([]room_dto.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		members, err := s.RoomRepo.MemberIDs(ctx, room.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, room_dto.FromRoom(room, members))
	}

	return &room_dto.ListRoomsResponse{Rooms: out}, nil
}

// Get returns one room, membership required.
func (s *RoomService) Get(ctx context.Context, code, uid string) (*room_dto.RoomResponse, *app_error.AppError) {
	room, err := s.RoomRepo.FindRoomByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	isMember, err := s.RoomRepo.IsMember(ctx, code, uid)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, app_error.NotFound("room not found", "room-code")
	}

	members, err := s.RoomRepo.MemberIDs(ctx, code)
	if err != nil {
		return nil, err
	}

	resp := room_dto.FromRoom(room, members)
	return &resp, nil
}
