package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/application/services"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/application/usecases"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/repositories"
	"github.com/Dichobeauty/Gemini-Dress-Up/model"
)

const (
	sessionCookie = "dressup_session"
	busyMessage   = "The service is busy right now. Please wait a moment and try again."
)

type DressUpHandler struct {
	dressUpUseCase *usecases.DressUpUseCase
	uploadService  *services.UploadService
	model          string
}

func NewDressUpHandler(
	dressUpUseCase *usecases.DressUpUseCase,
	uploadService *services.UploadService,
	model string,
) *DressUpHandler {
	return &DressUpHandler{
		dressUpUseCase: dressUpUseCase,
		uploadService:  uploadService,
		model:          model,
	}
}

func (h *DressUpHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.HandleIndex).Methods("GET")
	r.HandleFunc("/healthz", h.HandleHealth).Methods("GET")

	api := r.PathPrefix("/api/studio").Subrouter()
	api.HandleFunc("", h.HandleGetStudio).Methods("GET")
	api.HandleFunc("", h.HandleReset).Methods("DELETE")
	api.HandleFunc("/events", h.HandleEvents).Methods("GET")
	api.HandleFunc("/person", h.HandleSetPerson).Methods("PUT", "POST")
	api.HandleFunc("/person", h.HandleRemovePerson).Methods("DELETE")
	api.HandleFunc("/clothing", h.HandleAddClothing).Methods("POST")
	api.HandleFunc("/clothing/{id:[0-9]+}", h.HandleRemoveClothing).Methods("DELETE")
	api.HandleFunc("/generate", h.HandleGenerate).Methods("POST")
}

func (h *DressUpHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *DressUpHandler) HandleGetStudio(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dressUpUseCase.Snapshot(r.Context(), h.sessionID(w, r))
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendStudio(w, snap, http.StatusOK)
}

func (h *DressUpHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	if err := h.dressUpUseCase.Reset(r.Context(), sessionID); err != nil {
		h.sendError(w, err)
		return
	}

	snap, err := h.dressUpUseCase.Snapshot(r.Context(), sessionID)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendStudio(w, snap, http.StatusOK)
}

func (h *DressUpHandler) HandleSetPerson(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)

	image, err := h.uploadService.ReadImage(w, r)
	if err != nil {
		h.sendError(w, err)
		return
	}

	snap, err := h.dressUpUseCase.SetPersonImage(r.Context(), sessionID, image)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendStudio(w, snap, http.StatusOK)
}

func (h *DressUpHandler) HandleRemovePerson(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dressUpUseCase.RemovePersonImage(r.Context(), h.sessionID(w, r))
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendStudio(w, snap, http.StatusOK)
}

func (h *DressUpHandler) HandleAddClothing(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)

	image, err := h.uploadService.ReadImage(w, r)
	if err != nil {
		h.sendError(w, err)
		return
	}

	if _, err := h.dressUpUseCase.AddClothingItem(r.Context(), sessionID, image); err != nil {
		h.sendError(w, err)
		return
	}

	snap, err := h.dressUpUseCase.Snapshot(r.Context(), sessionID)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendStudio(w, snap, http.StatusCreated)
}

func (h *DressUpHandler) HandleRemoveClothing(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.sendError(w, failures.Wrap(failures.Validation, "invalid clothing item id", err))
		return
	}

	snap, err := h.dressUpUseCase.RemoveClothingItem(r.Context(), sessionID, entities.ClothingItemID(id))
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendStudio(w, snap, http.StatusOK)
}

func (h *DressUpHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	start := time.Now()

	snap, err := h.dressUpUseCase.Generate(r.Context(), sessionID)
	if err != nil {
		log.Printf("Dress up failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		h.sendError(w, err)
		return
	}

	log.Printf("Dress up finished in %s", time.Since(start).Round(time.Millisecond))
	h.sendStudio(w, snap, http.StatusOK)
}

func (h *DressUpHandler) sessionID(w http.ResponseWriter, r *http.Request) repositories.SessionID {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return repositories.SessionID(c.Value)
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// 同じリクエスト内の後続処理でも同じIDを使う
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: id})
	return repositories.SessionID(id)
}

func (h *DressUpHandler) sendStudio(w http.ResponseWriter, snap entities.StudioSnapshot, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(model.NewStudioResponse(snap)); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func (h *DressUpHandler) sendError(w http.ResponseWriter, err error) {
	kind := failures.KindOf(err)
	statusCode := statusFor(err)

	message := err.Error()
	if statusCode == http.StatusTooManyRequests {
		message = busyMessage
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Success: false,
		Error:   message,
		Kind:    string(kind),
	})
}

func statusFor(err error) int {
	if failures.IsQuota(err) {
		return http.StatusTooManyRequests
	}

	switch kind := failures.KindOf(err); {
	case kind == failures.Validation, kind == failures.UnreadableFile:
		return http.StatusBadRequest
	case kind == failures.NotFound:
		return http.StatusNotFound
	case kind == failures.GenerationInFlight:
		return http.StatusConflict
	case failures.IsGeneration(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
