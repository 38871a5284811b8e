package nota

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Router builds the HTTP route table.
//
// Pages and directory state:
//
//	GET    /api/pages                     - page list (?tree=true for the sidebar tree)
//	POST   /api/pages                     - create page, open it
//	GET    /api/pages/{name}              - page record
//	DELETE /api/pages/{name}?confirm=true - cascade delete (409 without confirm)
//	POST   /api/pages/{name}/rename       - rename with reference migration
//	POST   /api/pages/{name}/favorite     - toggle favorite membership
//	POST   /api/pages/{name}/open         - open the page, returns the document view
//	GET    /api/favorites                 - favorite names
//	GET    /api/recent                    - recently opened names, capped
//	GET    /api/document                  - the open page with its blocks
//
// Blocks of the open page:
//
//	POST   /api/blocks                    - insert
//	PATCH  /api/blocks/{id}               - partial update, including retype
//	DELETE /api/blocks/{id}               - delete, response carries the focus hint
//	POST   /api/blocks/{id}/duplicate     - clone under a fresh id
//	POST   /api/blocks/{id}/move          - reposition by index or before-target
//	POST   /api/blocks/{id}/split         - Enter behavior at a caret offset
//	POST   /api/blocks/{id}/toggle        - todo checkbox
//	GET    /api/blocks/{id}/link          - shareable block link
//
// Navigation and appearance:
//
//	GET    /api/resolve?fragment=...      - resolve a hash fragment
//	GET    /api/theme  /  PUT /api/theme  - UI theme
//	GET    /ws                            - the live editor session
//
// Page names may contain slashes, so the name routes match greedily; the
// suffixed routes register first and win their methods.
func (a *App) Router() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", a.handleHealth).Methods("GET")

	api.HandleFunc("/pages", a.handleListPages).Methods("GET")
	api.HandleFunc("/pages", a.handleCreatePage).Methods("POST")
	api.HandleFunc("/pages/{name:.+}/rename", a.handleRenamePage).Methods("POST")
	api.HandleFunc("/pages/{name:.+}/favorite", a.handleToggleFavorite).Methods("POST")
	api.HandleFunc("/pages/{name:.+}/open", a.handleOpenPage).Methods("POST")
	api.HandleFunc("/pages/{name:.+}", a.handleGetPage).Methods("GET")
	api.HandleFunc("/pages/{name:.+}", a.handleDeletePage).Methods("DELETE")

	api.HandleFunc("/favorites", a.handleFavorites).Methods("GET")
	api.HandleFunc("/recent", a.handleRecents).Methods("GET")
	api.HandleFunc("/document", a.handleDocument).Methods("GET")

	api.HandleFunc("/blocks", a.handleInsertBlock).Methods("POST")
	api.HandleFunc("/blocks/{id}", a.handleUpdateBlock).Methods("PATCH")
	api.HandleFunc("/blocks/{id}", a.handleDeleteBlock).Methods("DELETE")
	api.HandleFunc("/blocks/{id}/duplicate", a.handleDuplicateBlock).Methods("POST")
	api.HandleFunc("/blocks/{id}/move", a.handleMoveBlock).Methods("POST")
	api.HandleFunc("/blocks/{id}/split", a.handleSplitBlock).Methods("POST")
	api.HandleFunc("/blocks/{id}/toggle", a.handleToggleBlock).Methods("POST")
	api.HandleFunc("/blocks/{id}/link", a.handleBlockLink).Methods("GET")

	api.HandleFunc("/resolve", a.handleResolve).Methods("GET")
	api.HandleFunc("/theme", a.handleGetTheme).Methods("GET")
	api.HandleFunc("/theme", a.handleSetTheme).Methods("PUT")

	// Health check route (outside of /api prefix)
	router.HandleFunc("/health", a.handleHealth).Methods("GET")

	// The WebSocket editor session negotiates its own protocol upgrade.
	router.HandleFunc("/ws", a.handleWS)

	return router
}

// Run serves the HTTP API until the context is cancelled or the server
// fails. Cancellation drains in-flight requests for up to five seconds
// before closing.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Router(),
	}
	a.logger.Info().Str("addr", a.config.Addr).Str("backend", a.config.Backend).Msg("starting server")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
