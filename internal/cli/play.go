package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jaminalder/hidden-ring-tictactoe/internal/app"
	"github.com/jaminalder/hidden-ring-tictactoe/internal/config"
	"github.com/jaminalder/hidden-ring-tictactoe/internal/domain"
)

func newPlayCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the puzzle in the terminal",
		Long: `Play the puzzle in the terminal. Enter a move as "row col" on the 5x5
board (0-4), or as a single label 1-9 for the visible 3x3. "reset" starts
over and "quit" leaves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cfg.ServiceOptions(cfg.Logger(io.Discard))
			// Replies and notices are synchronous in the terminal.
			opts.CPUDelay, opts.NoticeTTL = 0, 0
			svc := app.NewService(opts)
			in := cmd.InOrStdin()
			return runPlay(svc, in, cmd.OutOrStdout(), isTerminal(in))
		},
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runPlay(svc *app.Service, in io.Reader, out io.Writer, prompt bool) error {
	sc := bufio.NewScanner(in)
	ask := func(p string) bool {
		if prompt {
			fmt.Fprint(out, p)
		}
		return sc.Scan()
	}

	for {
		if !ask("Access code: ") {
			return sc.Err()
		}
		if _, err := svc.Unlock(sc.Text()); err != nil {
			fmt.Fprintln(out, "Incorrect code. Try again.")
			continue
		}
		break
	}

	gs := svc.Get()
	fmt.Fprint(out, renderText(*gs))
	for ask("> ") {
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "reset":
			gs = svc.Reset()
			fmt.Fprint(out, renderText(*gs))
			continue
		}
		r, c, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		st, err := svc.Play(gs.Round, r, c)
		switch {
		case err == nil, errors.Is(err, domain.ErrNotSelectable):
		case errors.Is(err, domain.ErrGameOver):
			fmt.Fprintln(out, "Game is over; type reset to play again.")
		case errors.Is(err, domain.ErrOccupied):
			fmt.Fprintln(out, "Cell is occupied")
		default:
			fmt.Fprintln(out, err)
		}
		if st != nil {
			gs = st
			fmt.Fprint(out, renderText(*gs))
		}
	}
	return sc.Err()
}

// parseMove accepts "row col" on the full board or a single inner label.
func parseMove(s string) (int, int, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	switch len(fields) {
	case 1:
		l, err := strconv.Atoi(fields[0])
		if err != nil {
			break
		}
		i, ok := domain.LabelIndex(l)
		if !ok {
			return 0, 0, fmt.Errorf("label %d out of range 1-9", l)
		}
		r, c := domain.RowCol(i)
		return r, c, nil
	case 2:
		r, err1 := strconv.Atoi(fields[0])
		c, err2 := strconv.Atoi(fields[1])
		if err1 == nil && err2 == nil {
			return r, c, nil
		}
	}
	return 0, 0, fmt.Errorf("cannot read move %q", s)
}

// renderText draws the board: hidden ring cells are blank, selectable ones
// are '*'.
func renderText(gs app.GameState) string {
	g := gs.Game
	var b strings.Builder
	b.WriteString("  0 1 2 3 4\n")
	for r := 0; r < domain.Size; r++ {
		fmt.Fprintf(&b, "%d", r)
		for c := 0; c < domain.Size; c++ {
			i := domain.Index(r, c)
			ch := "."
			switch {
			case g.Board[i] != domain.Empty && (domain.IsInner(r, c) || g.Revealed):
				ch = g.Board[i].String()
			case g.IsSelectable(i):
				ch = "*"
			case !domain.IsInner(r, c) && !g.Revealed:
				ch = " "
			}
			b.WriteString(" " + ch)
		}
		b.WriteString("\n")
	}
	if status := gs.Status(); status != "" {
		b.WriteString(status + "\n")
	}
	return b.String()
}
