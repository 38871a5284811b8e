package nota

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nota-app/nota/pkg/editor"
	"github.com/nota-app/nota/pkg/models"
	"github.com/nota-app/nota/pkg/nav"
)

// wsEvent is one inbound editor event. Type selects which fields matter:
//
//	open   - page
//	key    - block, caret, key, shift, ctrl, meta
//	input  - block, content (the settled text after an edit)
//	paste  - block, content (the raw pasted text)
//	toggle - block
//	move   - block plus before or index
type wsEvent struct {
	Type    string          `json:"type"`
	Page    string          `json:"page,omitempty"`
	Block   models.BlockID  `json:"block,omitempty"`
	Caret   int             `json:"caret,omitempty"`
	Key     string          `json:"key,omitempty"`
	Shift   bool            `json:"shift,omitempty"`
	Ctrl    bool            `json:"ctrl,omitempty"`
	Meta    bool            `json:"meta,omitempty"`
	Content string          `json:"content,omitempty"`
	Before  *models.BlockID `json:"before,omitempty"`
	Index   *int            `json:"index,omitempty"`
}

// wsMessage is one outbound frame: a render after a mutation, the menu
// signal for the type chooser, a link instruction for a pasted block link,
// or an error.
type wsMessage struct {
	Type     string          `json:"type"`
	Document *DocumentView   `json:"document,omitempty"`
	Page     string          `json:"page,omitempty"`
	Block    *models.BlockID `json:"block,omitempty"`
	URL      string          `json:"url,omitempty"`
	Error    string          `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The editor ships same-origin; tests and dev tooling connect from
	// arbitrary origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS runs the live editor session over one WebSocket connection.
// Events process strictly in arrival order on this goroutine, and every
// reply is written before the next event is read, which preserves the
// run-to-completion model end to end: the view cannot observe a half
// applied operation.
func (a *App) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	a.logger.Debug().Str("remote", r.RemoteAddr).Msg("editor session connected")
	for {
		var ev wsEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.logger.Warn().Err(err).Msg("editor session closed unexpectedly")
			}
			return
		}
		msg := a.dispatchEvent(r.Context(), ev)
		if msg == nil {
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			a.logger.Warn().Err(err).Msg("failed to write editor frame")
			return
		}
	}
}

// dispatchEvent maps one event onto an operation and shapes the reply. A
// nil reply means the event needs no answer, which is how a plain-text
// paste stays on the default insertion path.
func (a *App) dispatchEvent(ctx context.Context, ev wsEvent) *wsMessage {
	switch ev.Type {
	case "open":
		view, err := a.OpenPage(ctx, ev.Page)
		if err != nil {
			return wsError(err)
		}
		return &wsMessage{Type: "render", Document: &view}
	case "key":
		view, res, err := a.HandleKey(ctx, ev.Block, ev.Caret, editor.KeyEvent{
			Key:   ev.Key,
			Shift: ev.Shift,
			Ctrl:  ev.Ctrl,
			Meta:  ev.Meta,
		})
		if err != nil {
			return wsError(err)
		}
		if res.Menu {
			block := ev.Block
			return &wsMessage{Type: "menu", Block: &block}
		}
		return &wsMessage{Type: "render", Document: &view}
	case "input":
		view, err := a.HandleInput(ctx, ev.Block, ev.Content)
		if err != nil {
			return wsError(err)
		}
		return &wsMessage{Type: "render", Document: &view}
	case "paste":
		f, ok := a.HandlePaste(ev.Content)
		if !ok {
			return nil
		}
		block := f.Block
		return &wsMessage{
			Type:  "link",
			Page:  f.Page,
			Block: &block,
			URL:   nav.BlockLink(a.config.BaseURL, f.Page, f.Block),
		}
	case "toggle":
		if _, err := a.ToggleBlock(ctx, ev.Block); err != nil {
			return wsError(err)
		}
		view, err := a.Document()
		if err != nil {
			return wsError(err)
		}
		return &wsMessage{Type: "render", Document: &view}
	case "move":
		view, err := a.MoveBlock(ctx, ev.Block, ev.Before, ev.Index)
		if err != nil {
			return wsError(err)
		}
		return &wsMessage{Type: "render", Document: &view}
	default:
		return &wsMessage{Type: "error", Error: fmt.Sprintf("unknown event type %q", ev.Type)}
	}
}

func wsError(err error) *wsMessage {
	return &wsMessage{Type: "error", Error: err.Error()}
}
