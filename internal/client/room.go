package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/presence_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/feed"
	presence_service "github.com/Matches1st/Cord-Disc-Chat/internal/use-case/presence-case"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// RoomSession is an open room: a live subscription feeding the local
// feed, plus the heartbeat loop keeping this member's presence fresh.
type RoomSession struct {
	api      *API
	roomCode string
	Feed     *feed.Feed
	// Incoming mirrors applied events for interactive consumers. Slow
	// consumers miss events here but never stall the feed itself.
	Incoming chan chat_dto.Event
	conn     *websocket.Conn
	cancel   context.CancelFunc
	done     chan struct{}
	wg       sync.WaitGroup
	closeOne sync.Once
}

// OpenRoom subscribes to the room's live feed and starts heartbeating.
// The caller must be a member; the server rejects the handshake
// otherwise.
func (a *API) OpenRoom(ctx context.Context, roomCode string) (*RoomSession, error) {
	snap := a.Session.Current()
	if !snap.SignedIn() {
		return nil, fmt.Errorf("not signed in")
	}

	wsURL, err := a.liveURL(roomCode, snap.Token)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("room %s not found or not joined", roomCode)
		}
		return nil, fmt.Errorf("dial room %s: %w", roomCode, err)
	}

	roomCtx, cancel := context.WithCancel(ctx)
	rs := &RoomSession{
		api:      a,
		roomCode: roomCode,
		Feed:     feed.New(roomCode),
		Incoming: make(chan chat_dto.Event, 64),
		conn:     conn,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	rs.wg.Add(2)
	go rs.readLoop()
	go rs.heartbeatLoop(roomCtx)

	return rs, nil
}

func (a *API) liveURL(roomCode, token string) (string, error) {
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = fmt.Sprintf("/api/v1/rooms/%s/live", roomCode)
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// readLoop drains subscription events into the feed until the connection
// drops or Close is called.
func (rs *RoomSession) readLoop() {
	defer rs.wg.Done()
	defer rs.shutdown()

	for {
		var event chat_dto.Event
		if err := rs.conn.ReadJSON(&event); err != nil {
			if !strings.Contains(err.Error(), "use of closed network connection") {
				log.Debug().Err(err).Str("room", rs.roomCode).Msg("subscription closed")
			}
			return
		}

		switch event.Type {
		case chat_dto.EventSnapshot:
			rs.Feed.ApplySnapshot(event.Messages)
		case chat_dto.EventMessage:
			if event.Message != nil {
				rs.Feed.ApplyAppend(*event.Message)
			}
		default:
			log.Debug().Str("type", event.Type).Msg("ignoring unknown event")
			continue
		}

		select {
		case rs.Incoming <- event:
		default:
		}
	}
}

func (rs *RoomSession) heartbeatLoop(ctx context.Context) {
	defer rs.wg.Done()

	beat := func() {
		snap := rs.api.Session.Current()
		var photoURL *string
		if snap.Identity != nil {
			photoURL = snap.Identity.PhotoURL
		}
		if err := rs.api.Heartbeat(ctx, rs.roomCode, photoURL); err != nil && ctx.Err() == nil {
			log.Debug().Err(err).Str("room", rs.roomCode).Msg("heartbeat failed")
		}
	}

	beat()
	ticker := time.NewTicker(presence_service.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-rs.done:
			return
		case <-ticker.C:
			beat()
		}
	}
}

// Send appends optimistically, then confirms or drops the pending entry
// when the server answers.
func (rs *RoomSession) Send(ctx context.Context, text string) error {
	snap := rs.api.Session.Current()
	if !snap.SignedIn() {
		return fmt.Errorf("not signed in")
	}

	localID := rs.Feed.AppendPending(snap.Identity.UID, snap.Identity.Username, text)
	msg, err := rs.api.SendMessage(ctx, rs.roomCode, text)
	if err != nil {
		rs.Feed.Drop(localID)
		return err
	}
	rs.Feed.Resolve(localID, *msg)
	return nil
}

// LoadOlder fetches the next older page and merges it in front of the
// feed. Returns false when the full history is already loaded.
func (rs *RoomSession) LoadOlder(ctx context.Context) (bool, error) {
	cursor, hasMore := rs.Feed.Cursor()
	if !hasMore {
		return false, nil
	}
	page, err := rs.api.History(ctx, rs.roomCode, feed.Window, cursor)
	if err != nil {
		return false, err
	}
	rs.Feed.MergeOlder(*page)
	return page.HasMore, nil
}

func (rs *RoomSession) Roster(ctx context.Context) (*presence_dto.RosterResponse, error) {
	return rs.api.Roster(ctx, rs.roomCode)
}

func (rs *RoomSession) shutdown() {
	rs.closeOne.Do(func() {
		rs.cancel()
		close(rs.done)
		rs.conn.Close()
	})
}

// Close tears the subscription down and stops heartbeating. Safe to call
// more than once.
func (rs *RoomSession) Close() {
	rs.shutdown()
	rs.wg.Wait()
}
