package chat_handler

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/internal/handlers"
	"github.com/Matches1st/Cord-Disc-Chat/internal/middleware"
	"github.com/Matches1st/Cord-Disc-Chat/internal/storage"
	chat_service "github.com/Matches1st/Cord-Disc-Chat/internal/use-case/chat-case"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// maxUploadSize caps attachment uploads at 32 MiB.
const maxUploadSize = 32 << 20

type ChatHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Store    *storage.Store
	Service  chat_service.ChatServiceContract
}

func NewChatHandler(state *state.AppState, store *storage.Store) *ChatHandler {
	validate := validator.New()
	_ = validate.RegisterValidation("objectid", chat_dto.ObjectIDValidator)
	return &ChatHandler{
		State:    state,
		Validate: validate,
		Store:    store,
		Service:  chat_service.NewChatService(state, store),
	}
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	roomCode := chi.URLParam(r, "roomCode")

	var req chat_dto.SendMessageRequest
	if err := handlers.DecodeAndValidate(r, h.Validate, &req); err != nil {
		return err
	}

	resp, err := h.Service.Send(r.Context(), req, roomCode, claims.Sub, claims.Username)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusCreated, "message sent", *resp)
	return nil
}

// History pages backwards through the room's log. Without a cursor it
// returns the latest window; with before_id it returns the window older
// than that message.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	roomCode := chi.URLParam(r, "roomCode")

	var req chat_dto.HistoryRequest
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return app_error.Validation("limit must be a number", "limit")
		}
		req.Limit = limit
	}
	if before := r.URL.Query().Get("before"); before != "" {
		req.BeforeID = &before
	}
	if err := h.Validate.Struct(req); err != nil {
		return app_error.Validation("invalid history query", "query")
	}

	resp, err := h.Service.History(r.Context(), req, roomCode, claims.Sub)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusOK, "history fetched", *resp)
	return nil
}

// SendFile accepts a multipart upload, streams it into the object store,
// and appends a file message to the room.
func (h *ChatHandler) SendFile(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	roomCode := chi.URLParam(r, "roomCode")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		return app_error.Validation("missing file field", "file")
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	reqID := handlers.RequestID(r)
	onProgress := func(transferred, total int64) {
		log.Debug().
			Str("request_id", reqID).
			Str("filename", filename).
			Int64("transferred", transferred).
			Int64("total", total).
			Msg("upload progress")
	}

	resp, appErr := h.Service.SendFile(r.Context(), roomCode, claims.Sub, claims.Username, filename, header.Size, file, onProgress)
	if appErr != nil {
		return appErr
	}

	handlers.WriteData(w, r, http.StatusCreated, "file sent", *resp)
	return nil
}

// DownloadFile streams a stored attachment back to the caller. The URL is
// embedded in file messages, so this route stays readable without a body.
func (h *ChatHandler) DownloadFile(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	fileID := chi.URLParam(r, "fileId")
	if err := h.Validate.Var(fileID, "required,objectid"); err != nil {
		return app_error.Validation("invalid file id", "fileId")
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if err := h.Store.Download(r.Context(), fileID, w); err != nil {
		return err
	}
	return nil
}
