package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rcliao/village-market/internal/dialog"
	"github.com/rcliao/village-market/internal/session"
)

var handsetStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1).
	Width(34)

var endStyle = handsetStyle.BorderForeground(lipgloss.Color("9"))

func init() {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Dial the keypad menu from the terminal",
		Long: "Drive the dialog against the local database as a handset would. " +
			"Each line typed is one keypad entry; the session text accumulates with '*'. " +
			"With --text a single turn is answered and printed.",
		Run: runSimulate,
	}

	cmd.Flags().String("phone", "+254700000000", "Caller phone number")
	cmd.Flags().String("text", "", "Answer one turn for this accumulated text, e.g. 8*2*Shop")
	cmd.Flags().String("session", "", "Session id (default: random)")
	cmd.Flags().Bool("raw", false, "Print the raw CON/END reply instead of a handset box")

	RootCmd.AddCommand(cmd)
}

func runSimulate(cmd *cobra.Command, args []string) {
	phone, _ := cmd.Flags().GetString("phone")
	text, _ := cmd.Flags().GetString("text")
	sessionID, _ := cmd.Flags().GetString("session")
	raw, _ := cmd.Flags().GetBool("raw")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	engine := dialog.New(s, session.NewMemoryStore(), dialog.WithBrowseLimit(browseLimit()))
	sim := &simulator{
		engine: engine,
		req:    dialog.Request{SessionID: sessionID, Phone: phone},
		out:    cmd.OutOrStdout(),
		raw:    raw,
	}

	if cmd.Flags().Changed("text") {
		if _, err := sim.turn(cmd.Context(), text); err != nil {
			exitErr("simulate", err)
		}
		return
	}
	if err := sim.run(cmd.Context(), os.Stdin); err != nil {
		exitErr("simulate", err)
	}
}

func browseLimit() int {
	if cfg != nil {
		return cfg.BrowseLimit
	}
	return 20
}

type simulator struct {
	engine *dialog.Engine
	req    dialog.Request
	out    io.Writer
	raw    bool
}

// run dials an empty text, then appends each input line as a keypad entry
// until the dialog ends or input runs out.
func (s *simulator) run(ctx context.Context, in io.Reader) error {
	var entries []string
	screen, err := s.turn(ctx, "")
	if err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for !screen.End {
		fmt.Fprint(s.out, "> ")
		if !sc.Scan() {
			break
		}
		entry := strings.TrimSpace(sc.Text())
		if entry == "" {
			continue
		}
		entries = append(entries, entry)
		if screen, err = s.turn(ctx, strings.Join(entries, dialog.Delimiter)); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (s *simulator) turn(ctx context.Context, text string) (dialog.Screen, error) {
	req := s.req
	req.Text = text
	screen, err := s.engine.Handle(ctx, req)
	if err != nil {
		return screen, err
	}
	fmt.Fprintln(s.out, s.render(screen))
	return screen, nil
}

func (s *simulator) render(screen dialog.Screen) string {
	if s.raw {
		return screen.String()
	}
	body := strings.Join(screen.Lines, "\n")
	if screen.End {
		return endStyle.Render(body)
	}
	return handsetStyle.Render(body)
}
