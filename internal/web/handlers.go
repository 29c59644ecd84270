package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jaminalder/hidden-ring-tictactoe/internal/app"
	"github.com/jaminalder/hidden-ring-tictactoe/internal/domain"
)

type handlers struct {
	svc *app.Service
	tpl *templates
	log *slog.Logger
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg))
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	gs := h.svc.Get()
	if !gs.Unlocked || !hasUnlockCookie(r) {
		writeHTML(w, http.StatusOK, renderTemplate(h.tpl.gate, "base", struct{ Error string }{}))
		return
	}
	data := newBoardView(*gs, "")
	writeHTML(w, http.StatusOK, renderTemplate(h.tpl.puzzle, "base", data))
}

func (h *handlers) unlock(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	if _, err := h.svc.Unlock(r.Form.Get("code")); err != nil {
		data := struct{ Error string }{Error: "Incorrect code. Try again."}
		writeHTML(w, http.StatusOK, renderTemplate(h.tpl.gate, "base", data))
		return
	}
	setUnlockCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// requireUnlocked rejects puzzle requests from browsers that never passed
// the gate.
func (h *handlers) requireUnlocked(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hasUnlockCookie(r) || !h.svc.Get().Unlocked {
			http.Error(w, "puzzle is locked", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func formInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.Form.Get(key))
	if err != nil {
		return -1
	}
	return v
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	ri, ci := formInt(r, "r"), formInt(r, "c")
	gs, err := h.svc.Play(r.Form.Get("round"), ri, ci)
	var errMsg string
	switch {
	case err == nil:
	case errors.Is(err, app.ErrLocked):
		http.Error(w, "puzzle is locked", http.StatusForbidden)
		return
	case errors.Is(err, domain.ErrNotSelectable),
		errors.Is(err, domain.ErrOccupied),
		errors.Is(err, domain.ErrGameOver),
		errors.Is(err, domain.ErrNotYourTurn):
		// No-op clicks; any notice is carried in the status line.
	case errors.Is(err, app.ErrStaleRound):
		errMsg = "The board was reset"
	case errors.Is(err, domain.ErrOutOfBounds):
		errMsg = "Out of bounds"
	default:
		errMsg = "Invalid move"
	}
	if err != nil {
		h.log.Debug("move ignored", slog.String("reason", err.Error()))
	}
	if gs == nil {
		gs = h.svc.Get()
	}
	writeHTML(w, http.StatusOK, h.renderBoard(*gs, errMsg))
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	gs := h.svc.Reset()
	writeHTML(w, http.StatusOK, h.renderBoard(*gs, ""))
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// Non-EventSource requests only get the headers
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub := h.svc.Subscribe(ctx)
	defer unsub()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: board\n")
			_, _ = fmt.Fprintf(w, "data: %s\n\n", sseData(b))
			flusher.Flush()
		}
	}
}

var sseFold = strings.NewReplacer("\r", "", "\n", "")

// sseData folds a multi-line fragment into one data field.
func sseData(b []byte) string { return sseFold.Replace(string(b)) }
