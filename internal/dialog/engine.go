// Package dialog implements the USSD dialog engine.
//
// The gateway sends the whole accumulated input on every turn, so the
// engine keeps no explicit position: each turn it parses the text,
// dispatches on the first entry and, inside the Add/Update wizard,
// replays the remaining entries through WizardState.Next. Session state
// holds only what the text cannot: recently viewed numbers and the
// wizard draft the replay produced.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/village-market/internal/catalog"
	"github.com/rcliao/village-market/internal/model"
	"github.com/rcliao/village-market/internal/session"
	"github.com/rcliao/village-market/internal/store"
)

// Top-level keys outside the category range.
const (
	keyHelp   = "0"
	keyAdd    = "8"
	keyRecent = "9"
	keyBack   = "0"
)

// DefaultBrowseLimit is how many listings a category browse reads.
const DefaultBrowseLimit = 20

// ErrMissingSession is returned for a request without a session id.
var ErrMissingSession = errors.New("missing session id")

// Catalog is the listing storage the engine reads and writes.
type Catalog interface {
	Insert(ctx context.Context, p store.InsertParams) (*model.Listing, error)
	Latest(ctx context.Context, p store.LatestParams) ([]model.Listing, error)
}

// Request is one turn from the gateway.
type Request struct {
	SessionID string
	Phone     string
	Text      string // every entry so far, joined by Delimiter
}

// Engine answers dialog turns.
type Engine struct {
	catalog     Catalog
	sessions    session.Store
	logger      *zap.Logger
	browseLimit int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBrowseLimit sets how many listings a category browse reads.
func WithBrowseLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.browseLimit = n
		}
	}
}

// New returns an Engine over the given catalog and session store.
func New(c Catalog, sessions session.Store, opts ...Option) *Engine {
	e := &Engine{
		catalog:     c,
		sessions:    sessions,
		logger:      zap.NewNop(),
		browseLimit: DefaultBrowseLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle computes the reply for one turn. Catalog failures are returned
// as errors; the caller decides how to present them.
func (e *Engine) Handle(ctx context.Context, req Request) (Screen, error) {
	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		return Screen{}, ErrMissingSession
	}
	tokens := Parse(strings.TrimSpace(req.Text))

	var screen Screen
	err := e.sessions.WithLock(id, func(s *session.Session) error {
		var err error
		screen, err = e.route(ctx, s, req.Phone, tokens)
		return err
	})
	return screen, err
}

func (e *Engine) route(ctx context.Context, s *session.Session, phone string, tokens []string) (Screen, error) {
	if len(tokens) == 0 {
		return MainMenu(), nil
	}
	first := strings.TrimSpace(tokens[0])
	last := strings.TrimSpace(tokens[len(tokens)-1])

	switch first {
	case keyHelp:
		if len(tokens) == 1 {
			return HelpMenu(), nil
		}
		return MainMenu(), nil
	case keyRecent:
		if len(tokens) > 1 && last == keyBack {
			return MainMenu(), nil
		}
		return RecentScreen(s.Recent), nil
	case keyAdd:
		return e.wizard(ctx, s, phone, tokens[1:])
	}

	cat, ok := catalog.Lookup(catalog.Categories, first)
	if !ok {
		return MainMenu(), nil
	}
	if cat == catalog.Transport {
		return e.transport(ctx, s, tokens)
	}
	if len(tokens) > 1 {
		switch last {
		case keyBack:
			return MainMenu(), nil
		case keyRecent:
			return RecentScreen(s.Recent), nil
		}
	}
	return e.browse(ctx, s, cat+" (latest):", []string{cat})
}

func (e *Engine) transport(ctx context.Context, s *session.Session, tokens []string) (Screen, error) {
	n := len(tokens)
	last := strings.TrimSpace(tokens[n-1])
	switch {
	case n == 1:
		return TransportMenu(), nil
	case n == 2 && last == keyBack:
		return MainMenu(), nil
	case n >= 3 && last == keyBack:
		return TransportMenu(), nil
	case n >= 3 && last == keyRecent:
		return RecentScreen(s.Recent), nil
	}

	sub, ok := catalog.Lookup(catalog.TransportTypes, tokens[1])
	if !ok {
		return invalidTransportMenu(), nil
	}
	title := catalog.StorageCategory(catalog.Transport, sub) + " (latest):"
	return e.browse(ctx, s, title, catalog.QueryCategories(sub))
}

func (e *Engine) browse(ctx context.Context, s *session.Session, title string, categories []string) (Screen, error) {
	listings, err := e.catalog.Latest(ctx, store.LatestParams{
		Categories: categories,
		Limit:      e.browseLimit,
	})
	if err != nil {
		return Screen{}, fmt.Errorf("browse %s: %w", strings.Join(categories, ","), err)
	}

	// Push oldest first so the newest listing ends up in front.
	top := listings[:min(len(listings), session.RecentLimit)]
	for i := len(top) - 1; i >= 0; i-- {
		s.AddRecent(top[i].Phone)
	}
	return FormatList(title, listings, true), nil
}

func (e *Engine) wizard(ctx context.Context, s *session.Session, phone string, entries []string) (Screen, error) {
	w := ReplayWizard(entries)
	final := w.Consumed == len(entries)

	e.logger.Debug("wizard",
		zap.String("session", s.ID),
		zap.Stringer("step", w.Step),
		zap.Bool("invalid", w.Invalid))

	switch w.Step {
	case StepExited:
		s.ResetWizard()
		return e.route(ctx, s, phone, entries[w.Consumed:])
	case StepCancelled:
		s.ResetWizard()
		if !final {
			return MainMenu(), nil
		}
		return cancelledScreen, nil
	case StepConfirmed:
		s.ResetWizard()
		if !final {
			return MainMenu(), nil
		}
		return e.commit(ctx, s, w, NormalizePhone(phone))
	}

	s.Wizard = w.Draft
	return w.Prompt(NormalizePhone(phone)), nil
}

func (e *Engine) commit(ctx context.Context, s *session.Session, w WizardState, phone string) (Screen, error) {
	d := w.Draft
	if d.Village == "" || d.Name == "" || d.CategoryMain == "" || phone == "" {
		return missingDataScreen, nil
	}

	l, err := e.catalog.Insert(ctx, store.InsertParams{
		Name:     d.Name,
		Category: w.Category(),
		Phone:    phone,
		Village:  d.Village,
	})
	if err != nil {
		return Screen{}, fmt.Errorf("save listing: %w", err)
	}

	e.logger.Info("listing saved",
		zap.String("session", s.ID),
		zap.String("ref", l.Ref),
		zap.String("category", l.Category),
		zap.String("village", l.Village))
	return savedScreen, nil
}

// NormalizePhone strips surrounding space and a leading plus sign.
func NormalizePhone(p string) string {
	return strings.TrimPrefix(strings.TrimSpace(p), "+")
}
