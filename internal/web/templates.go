package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/jaminalder/hidden-ring-tictactoe/internal/app"
	"github.com/jaminalder/hidden-ring-tictactoe/internal/domain"
)

type templates struct {
	base   *template.Template
	gate   *template.Template
	puzzle *template.Template
	board  *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(baseTemplate))
	// Define the board template within the same set so the puzzle page can include it
	template.Must(base.New("board").Parse(boardTemplate))
	gate := template.Must(template.Must(base.Clone()).New("content").Parse(gateTemplate))
	puzzle := template.Must(template.Must(base.Clone()).New("content").Parse(puzzleTemplate))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Parse(boardTemplate))
	return &templates{base: base, gate: gate, puzzle: puzzle, board: board}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const baseTemplate = `<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe?</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.grid{display:grid;grid-template-columns:repeat(5,64px);gap:4px}
.cell button{width:64px;height:64px;font-size:32px}
.outer-cell button{opacity:0}
.revealed-outer button{outline:2px dashed #2a7}
.status{min-height:1.5em;margin:8px 0}
</style>
</head><body>{{template "content" .}}</body></html>`

const gateTemplate = `
<div id="code-section">
  <h1>Enter access code</h1>
  {{if .Error}}
  <div class="alert" role="alert">{{.Error}}</div>
  <script>alert({{.Error}});</script>
  {{end}}
  <form action="/unlock" method="post">
    <input id="access-code" name="code" type="text" autocomplete="off">
    <button id="submit-code" type="submit">Submit</button>
  </form>
</div>`

const puzzleTemplate = `
<div id="puzzle-section" hx-ext="sse" sse-connect="/puzzle/events">
  <div id="board-stream" sse-swap="board">{{template "board" .}}</div>
</div>`

const boardTemplate = `
<div id="board">
  <div id="status" class="status">{{.Status}}</div>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="grid">
  {{range .Cells}}
    <form class="{{.Class}}" hx-post="/puzzle/play" hx-target="#board" hx-swap="outerHTML" method="post" action="/puzzle/play">
      <input type="hidden" name="round" value="{{$.Round}}">
      <input type="hidden" name="r" value="{{.Row}}">
      <input type="hidden" name="c" value="{{.Col}}">
      <button type="submit" data-row="{{.Row}}" data-col="{{.Col}}"{{if .Disabled}} disabled{{end}}>{{.Symbol}}</button>
    </form>
  {{end}}
  </div>
  <form hx-post="/puzzle/reset" hx-target="#board" hx-swap="outerHTML" method="post" action="/puzzle/reset">
    <button id="reset-btn" type="submit">Reset</button>
  </form>
</div>
`

type cellView struct {
	Row, Col int
	Symbol   string
	Class    string
	Disabled bool
}

type boardView struct {
	Round  string
	Status string
	Error  string
	Cells  []cellView
}

// newBoardView projects game state onto the 5x5 surface. Selectability is
// read from the game, never from the rendered markup.
func newBoardView(gs app.GameState, errMsg string) boardView {
	g := gs.Game
	v := boardView{Round: gs.Round, Status: gs.Status(), Error: errMsg}
	v.Cells = make([]cellView, 0, domain.Cells)
	for i, mark := range g.Board {
		r, c := domain.RowCol(i)
		cv := cellView{Row: r, Col: c, Symbol: mark.String(), Class: "cell"}
		switch {
		case domain.IsInner(r, c):
		case g.IsSelectable(i):
			cv.Class = "cell revealed-outer"
		case g.Revealed:
			cv.Class = "cell revealed"
		default:
			cv.Class = "cell outer-cell"
			cv.Symbol = ""
		}
		cv.Disabled = g.Over || mark != domain.Empty
		v.Cells = append(v.Cells, cv)
	}
	return v
}

const unlockCookie = "puzzle_unlocked"

func hasUnlockCookie(r *http.Request) bool {
	c, err := r.Cookie(unlockCookie)
	return err == nil && c.Value == "1"
}

func setUnlockCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: unlockCookie, Value: "1", Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
}
