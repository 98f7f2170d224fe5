package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos"
	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/presence_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/room_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/user_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/session"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError is a server-side rejection decoded from the error envelope.
type APIError struct {
	Code    int
	Field   string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Code, e.Field, e.Message)
}

// API is the typed HTTP surface of the chat server. Authentication comes
// from the session store handed in at construction.
type API struct {
	BaseURL string
	HTTP    *http.Client
	Session *session.Store
}

func NewAPI(baseURL string, sess *session.Store) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Session: sess,
	}
}

func (a *API) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := a.Session.Current().Token; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}

func decodeEnvelope(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		var envelope dtos.Response[any]
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Errors == nil {
			return &APIError{Code: resp.StatusCode, Message: resp.Status}
		}
		return &APIError{
			Code:    envelope.Errors.Code,
			Field:   envelope.Errors.Field,
			Message: envelope.Errors.Message,
		}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Register creates credentials and publishes the resulting session.
func (a *API) Register(ctx context.Context, username, password string) (*user_dto.AuthResponse, error) {
	var envelope dtos.Response[user_dto.AuthResponse]
	req := user_dto.RegisterRequest{Username: username, Password: password}
	if err := a.do(ctx, http.MethodPost, "/api/v1/auth/register", req, &envelope); err != nil {
		return nil, err
	}
	a.publishAuth(envelope.Data)
	return &envelope.Data, nil
}

func (a *API) Login(ctx context.Context, username, password string) (*user_dto.AuthResponse, error) {
	var envelope dtos.Response[user_dto.AuthResponse]
	req := user_dto.LoginRequest{Username: username, Password: password}
	if err := a.do(ctx, http.MethodPost, "/api/v1/auth/login", req, &envelope); err != nil {
		return nil, err
	}
	a.publishAuth(envelope.Data)
	return &envelope.Data, nil
}

// Guest opens a session without credentials. The server mints a handle
// and an identity row the same as a registered account.
func (a *API) Guest(ctx context.Context, username string) (*user_dto.AuthResponse, error) {
	var envelope dtos.Response[user_dto.AuthResponse]
	req := user_dto.GuestRequest{Username: username}
	if err := a.do(ctx, http.MethodPost, "/api/v1/auth/guest", req, &envelope); err != nil {
		return nil, err
	}
	a.publishAuth(envelope.Data)
	return &envelope.Data, nil
}

// ResolveSession refreshes the identity behind the current token and
// republishes it.
func (a *API) ResolveSession(ctx context.Context) (*user_dto.IdentityResponse, error) {
	var envelope dtos.Response[user_dto.IdentityResponse]
	if err := a.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, &envelope); err != nil {
		return nil, err
	}
	identity := envelope.Data
	a.Session.Publish(session.Snapshot{Token: a.Session.Current().Token, Identity: &identity})
	return &identity, nil
}

// SignOut drops the local session. Tokens are short-lived and stateless,
// so there is nothing to revoke server-side.
func (a *API) SignOut() {
	a.Session.Clear()
}

func (a *API) publishAuth(auth user_dto.AuthResponse) {
	identity := auth.Identity
	a.Session.Publish(session.Snapshot{Token: auth.Token, Identity: &identity})
}

func (a *API) CreateRoom(ctx context.Context, name string) (*room_dto.RoomResponse, error) {
	var envelope dtos.Response[room_dto.RoomResponse]
	req := room_dto.CreateRoomRequest{Name: name}
	if err := a.do(ctx, http.MethodPost, "/api/v1/rooms", req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (a *API) JoinRoom(ctx context.Context, code string) (*room_dto.RoomResponse, error) {
	var envelope dtos.Response[room_dto.RoomResponse]
	req := room_dto.JoinRoomRequest{Code: strings.ToUpper(strings.TrimSpace(code))}
	if err := a.do(ctx, http.MethodPost, "/api/v1/rooms/join", req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (a *API) ListRooms(ctx context.Context) (*room_dto.ListRoomsResponse, error) {
	var envelope dtos.Response[room_dto.ListRoomsResponse]
	if err := a.do(ctx, http.MethodGet, "/api/v1/rooms", nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (a *API) GetRoom(ctx context.Context, code string) (*room_dto.RoomResponse, error) {
	var envelope dtos.Response[room_dto.RoomResponse]
	if err := a.do(ctx, http.MethodGet, "/api/v1/rooms/"+url.PathEscape(code), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (a *API) SendMessage(ctx context.Context, roomCode, text string) (*chat_dto.MessageResponse, error) {
	var envelope dtos.Response[chat_dto.MessageResponse]
	req := chat_dto.SendMessageRequest{Text: text}
	path := fmt.Sprintf("/api/v1/rooms/%s/messages", url.PathEscape(roomCode))
	if err := a.do(ctx, http.MethodPost, path, req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// History pages backwards; pass nil before for the latest window.
func (a *API) History(ctx context.Context, roomCode string, limit int, before *string) (*chat_dto.HistoryResponse, error) {
	var envelope dtos.Response[chat_dto.HistoryResponse]
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if before != nil {
		q.Set("before", *before)
	}
	path := fmt.Sprintf("/api/v1/rooms/%s/messages", url.PathEscape(roomCode))
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	if err := a.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// SendFile uploads an attachment as a file message.
func (a *API) SendFile(ctx context.Context, roomCode, filename string, src io.Reader) (*chat_dto.SendFileResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/api/v1/rooms/%s/files", url.PathEscape(roomCode))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token := a.Session.Current().Token; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope dtos.Response[chat_dto.SendFileResponse]
	if err := decodeEnvelope(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (a *API) UpdateDisplayName(ctx context.Context, displayName string) error {
	req := user_dto.UpdateDisplayNameRequest{DisplayName: displayName}
	return a.do(ctx, http.MethodPatch, "/api/v1/profile/display-name", req, nil)
}

func (a *API) UpdateTheme(ctx context.Context, theme string) error {
	req := user_dto.UpdateThemeRequest{Theme: theme}
	return a.do(ctx, http.MethodPatch, "/api/v1/profile/theme", req, nil)
}

func (a *API) Heartbeat(ctx context.Context, roomCode string, photoURL *string) error {
	req := presence_dto.HeartbeatRequest{PhotoURL: photoURL}
	path := fmt.Sprintf("/api/v1/rooms/%s/presence", url.PathEscape(roomCode))
	return a.do(ctx, http.MethodPost, path, req, nil)
}

func (a *API) Roster(ctx context.Context, roomCode string) (*presence_dto.RosterResponse, error) {
	var envelope dtos.Response[presence_dto.RosterResponse]
	path := fmt.Sprintf("/api/v1/rooms/%s/presence", url.PathEscape(roomCode))
	if err := a.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
