package nota

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"

	"github.com/nota-app/nota/pkg/models"
)

type createPageRequest struct {
	Name     string         `json:"name"`
	ParentID *models.PageID `json:"parentId,omitempty"`
}

func (r createPageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

type renamePageRequest struct {
	NewName string `json:"newName"`
}

func (r renamePageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewName, validation.Required),
	)
}

type insertBlockRequest struct {
	Type     models.BlockType `json:"type,omitempty"`
	Text     string           `json:"text,omitempty"`
	Indent   int              `json:"indent,omitempty"`
	Position *int             `json:"position,omitempty"`
}

type moveBlockRequest struct {
	Before *models.BlockID `json:"before,omitempty"`
	Index  *int            `json:"index,omitempty"`
}

type splitBlockRequest struct {
	Offset int `json:"offset"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// handleHealth reports service availability, the active backend, and the
// server time. Load balancers and the test harness poll it.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"backend": a.config.Backend,
		"time":    time.Now().Unix(),
	})
}

func (a *App) handleListPages(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("tree") == "true" {
		respondJSON(w, http.StatusOK, a.PageTree())
		return
	}
	respondJSON(w, http.StatusOK, a.Pages())
}

func (a *App) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := a.CreatePage(r.Context(), req.Name, req.ParentID)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, page)
}

func (a *App) handleGetPage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	page, ok := a.Page(name)
	if !ok {
		respondError(w, http.StatusNotFound, "Page not found")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (a *App) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := a.DeletePage(r.Context(), name, confirmed); err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleRenamePage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var req renamePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := a.RenamePage(r.Context(), name, req.NewName)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (a *App) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	on, err := a.ToggleFavorite(r.Context(), name)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"favorite": on})
}

func (a *App) handleOpenPage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	view, err := a.OpenPage(r.Context(), name)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (a *App) handleFavorites(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.Favorites())
}

func (a *App) handleRecents(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.Recents())
}

func (a *App) handleDocument(w http.ResponseWriter, r *http.Request) {
	view, err := a.Document()
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (a *App) handleInsertBlock(w http.ResponseWriter, r *http.Request) {
	var req insertBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	block, err := a.InsertBlock(r.Context(), req.Type, req.Text, req.Indent, req.Position)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, block)
}

func (a *App) handleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseBlockID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid block ID")
		return
	}
	var patch BlockPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	block, err := a.UpdateBlock(r.Context(), id, patch)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, block)
}

func (a *App) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseBlockID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid block ID")
		return
	}
	view, err := a.DeleteBlock(r.Context(), id)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (a *App) handleDuplicateBlock(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseBlockID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid block ID")
		return
	}
	block, err := a.DuplicateBlock(r.Context(), id)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, block)
}

func (a *App) handleMoveBlock(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseBlockID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid block ID")
		return
	}
	var req moveBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	view, err := a.MoveBlock(r.Context(), id, req.Before, req.Index)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (a *App) handleSplitBlock(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseBlockID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid block ID")
		return
	}
	var req splitBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	view, err := a.SplitBlock(r.Context(), id, req.Offset)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (a *App) handleToggleBlock(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseBlockID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid block ID")
		return
	}
	block, err := a.ToggleBlock(r.Context(), id)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, block)
}

func (a *App) handleBlockLink(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseBlockID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid block ID")
		return
	}
	link, err := a.BlockLink(id)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": link})
}

func (a *App) handleResolve(w http.ResponseWriter, r *http.Request) {
	fragment := r.URL.Query().Get("fragment")
	resolved, err := a.ResolveFragment(fragment)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resolved)
}

func (a *App) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := a.Theme(r.Context())
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (a *App) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := a.SetTheme(r.Context(), req.Theme); err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

// respondError sends the standardized {"error": message} body so clients
// handle every failure the same way.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondOpError maps domain errors onto HTTP statuses: validation errors
// become 400, stale ids and unknown names 404, duplicate names and missing
// delete confirmation 409, and everything else 500.
func respondOpError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrPageNotFound), errors.Is(err, models.ErrBlockNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrPageExists), errors.Is(err, models.ErrConfirmationRequired):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
