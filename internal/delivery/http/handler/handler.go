package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/collection-service/internal/delivery/http/middleware"
	"github.com/user/collection-service/internal/delivery/http/request"
	"github.com/user/collection-service/internal/delivery/http/response"
	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/usecase"
)

type Handler struct {
	tokens    usecase.TokenManager
	captures  usecase.CaptureManager
	items     usecase.ItemManager
	community usecase.CommunityManager
}

func NewHandler(tokens usecase.TokenManager, captures usecase.CaptureManager, items usecase.ItemManager, community usecase.CommunityManager) *Handler {
	return &Handler{
		tokens:    tokens,
		captures:  captures,
		items:     items,
		community: community,
	}
}

// HandleIssueToken mints a fresh capture token for the authenticated user,
// revoking all previously issued ones.
func (h *Handler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		h.writeJSONError(w, "Primary session required", http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Issue(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to issue capture token", "user_id", userID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.CaptureTokenResponse{
		Token:     token.Token,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

// HandleSubmitCapture receives a capture agent's delivery and opens a session.
func (h *Handler) HandleSubmitCapture(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitCaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sessionID, err := h.captures.Submit(r.Context(), &usecase.SubmitCaptureInput{
		Token:           req.Token,
		SourceURL:       req.SourceURL,
		CapturedContent: req.CapturedContent,
		CaptureKind:     req.CaptureKind,
		Hints:           req.Hints,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidToken) {
			h.writeJSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		slog.Error("Failed to submit capture", "source_url", req.SourceURL, "error", err)
		h.writeJSONError(w, "Invalid capture submission", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusAccepted, response.SubmitCaptureResponse{SessionID: sessionID})
}

// HandleCaptureResult is the polling endpoint for the application tab. It
// answers 404 uniformly for not-yet-submitted, consumed, expired and unknown
// sessions; pollers retry until their own timeout.
func (h *Handler) HandleCaptureResult(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	token := r.URL.Query().Get("token")
	if sessionID == "" || token == "" {
		h.writeJSONError(w, "session_id and token query parameters are required", http.StatusBadRequest)
		return
	}

	result, err := h.captures.Result(r.Context(), sessionID, token)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidToken) {
			h.writeJSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if errors.Is(err, usecase.ErrSessionNotFound) {
			h.writeJSONError(w, "Capture session not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to retrieve capture result", "session_id", sessionID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.CaptureResultResponse{Result: result})
}

// HandleAgentScript serves the injectable capture script with the token and
// submit endpoint baked in.
func (h *Handler) HandleAgentScript(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.writeJSONError(w, "token query parameter is required", http.StatusBadRequest)
		return
	}

	script, err := h.captures.AgentScript(r.Context(), token, r.URL.Query().Get("kind"))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidToken) {
			h.writeJSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		h.writeJSONError(w, "Invalid agent script request", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(script)); err != nil {
		slog.Error("Failed to write agent script", "error", err)
	}
}

// HandleAddItem inserts an item, or answers 409 with the duplicate report.
func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		h.writeJSONError(w, "Primary session required", http.StatusUnauthorized)
		return
	}

	var req request.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item := &entity.Item{
		UserID: userID,
		Name:   req.Name,
		Brand:  req.Brand,
		URL:    req.URL,
		Price:  req.Price,
		Notes:  req.Notes,
	}
	saved, err := h.items.Add(r.Context(), item, req.ForceAdd)
	if err != nil {
		var dup *usecase.DuplicateError
		if errors.As(err, &dup) {
			h.writeJSON(w, http.StatusConflict, response.DuplicateConflictResponse{
				DuplicateType: string(dup.Report.Type),
				Matches:       dup.Report.Matches,
				Candidate:     dup.Candidate,
			})
			return
		}
		if errors.Is(err, usecase.ErrItemNameRequired) {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Failed to add item", "user_id", userID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, saved)
}

// HandleListItems lists the caller's items.
func (h *Handler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		h.writeJSONError(w, "Primary session required", http.StatusUnauthorized)
		return
	}

	items, err := h.items.List(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to list items", "user_id", userID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*entity.Item{}
	}
	h.writeJSON(w, http.StatusOK, response.ItemListResponse{Items: items})
}

// HandleSearchCommunityRecords searches community records by domain.
func (h *Handler) HandleSearchCommunityRecords(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	records, err := h.community.Search(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		slog.Error("Failed to search community records", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*entity.CommunityRecord{}
	}
	h.writeJSON(w, http.StatusOK, response.CommunityRecordListResponse{Records: records})
}

// HandleImportCommunityRecord merges a community record into the caller's
// editing session. Manual fields always win.
func (h *Handler) HandleImportCommunityRecord(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("targetID")

	var req request.ImportCommunityRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	merged, err := h.community.Import(r.Context(), targetID, req.Manual, req.Scraped)
	if err != nil {
		if errors.Is(err, usecase.ErrRecordNotFound) {
			h.writeJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		slog.Error("Failed to import community record", "target_id", targetID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.ImportCommunityRecordResponse{Record: merged})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
