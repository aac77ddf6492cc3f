package cart

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/Mongkol7/E-Bookstore/pkg/money"
	"go.uber.org/multierr"
)

// API is the slice of the upstream client the cart controller drives.
type API interface {
	FetchCart(ctx context.Context, token string) ([]upstream.CartItem, error)
	UpdateQuantity(ctx context.Context, token string, bookID, quantity int64) ([]upstream.CartItem, error)
	RemoveItem(ctx context.Context, token string, bookID int64) ([]upstream.CartItem, error)
}

type lineState struct {
	draft     string
	draftErr  string
	updating  bool
	serverQty int64
}

// Controller owns one session's cart view: the authoritative line set
// as last reported by the server, plus the per-line draft strings,
// validation messages, and in-flight flags layered on top. All methods
// serialize on the controller mutex, the single-threaded event-loop
// analogue.
type Controller struct {
	mu     sync.Mutex
	api    API
	token  string
	closed bool

	items  []upstream.CartItem
	lines  map[int64]*lineState
	banner string
}

func NewController(api API, token string) *Controller {
	return &Controller{
		api:   api,
		token: token,
		lines: map[int64]*lineState{},
	}
}

// Close suppresses any further state mutation, so a response that
// lands after the session went away cannot resurrect the view.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// replaceItems swaps in the server's full line set and resets the
// shadow state: drafts back to the canonical quantity strings and
// last-known-server quantities to the fetched values. The server is
// the single source of truth after any mutation.
func (c *Controller) replaceItems(items []upstream.CartItem) {
	c.items = items
	next := make(map[int64]*lineState, len(items))
	for _, item := range items {
		ls := &lineState{
			draft:     strconv.FormatInt(item.Quantity, 10),
			serverQty: item.Quantity,
		}
		if prev, ok := c.lines[item.ID]; ok {
			ls.updating = prev.updating
		}
		next[item.ID] = ls
	}
	c.lines = next
}

// Load fetches the authoritative cart. On unauthorized the error
// bubbles untouched so the session middleware clears state uniformly;
// on any other failure the line set is emptied rather than left stale.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	items, err := c.api.FetchCart(ctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart view no longer active")
	}
	if err != nil {
		c.items = nil
		c.lines = map[int64]*lineState{}
		if !pkgerrors.IsUnauthorized(err) {
			c.banner = publicMessage(err)
		}
		return err
	}
	c.banner = ""
	c.replaceItems(items)
	return nil
}

func (c *Controller) findItem(id int64) (upstream.CartItem, *lineState, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, c.lines[id], true
		}
	}
	return upstream.CartItem{}, nil, false
}

// EditDraft records the raw keystroke-level input for a line, preserving
// invalid intermediate states so the user can keep correcting, and
// recomputes the line's validation message.
func (c *Controller) EditDraft(id int64, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ls, ok := c.findItem(id)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if ls.updating {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "item update in progress")
	}

	ls.draft = raw
	ls.draftErr = ValidateDraft(item, raw)
	return nil
}

// CommitDraft settles a line's draft on blur/Enter. Invalid commits
// roll the draft back to the last accepted quantity without touching
// the committed value or the network; valid commits apply locally and
// canonicalize the draft string.
func (c *Controller) CommitDraft(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ls, ok := c.findItem(id)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if ls.updating {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "item update in progress")
	}

	raw := ls.draft
	if msg := ValidateDraft(item, raw); msg != "" {
		ls.draftErr = msg
		ls.draft = strconv.FormatInt(item.Quantity, 10)
		return nil
	}

	ls.draftErr = ""
	parsed, _ := strconv.ParseInt(raw, 10, 64)
	if parsed != item.Quantity {
		c.applyLocalQuantity(id, parsed)
	} else {
		ls.draft = strconv.FormatInt(parsed, 10)
	}
	return nil
}

// Step adjusts a line's quantity by delta through the same validation
// path as typed input. Stepping below 1 is a no-op; stepping past stock
// surfaces the stock message.
func (c *Controller) Step(id int64, delta int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ls, ok := c.findItem(id)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if ls.updating {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "item update in progress")
	}

	next := item.Quantity + delta
	if next < 1 {
		return nil
	}
	if msg := ValidateDraft(item, strconv.FormatInt(next, 10)); msg != "" {
		ls.draftErr = msg
		return nil
	}

	ls.draftErr = ""
	c.applyLocalQuantity(id, next)
	return nil
}

func (c *Controller) applyLocalQuantity(id, quantity int64) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			break
		}
	}
	if ls, ok := c.lines[id]; ok {
		ls.draft = strconv.FormatInt(quantity, 10)
	}
}

// Remove deletes a line on the server and replaces the local set with
// the server's response.
func (c *Controller) Remove(ctx context.Context, id int64) error {
	c.mu.Lock()
	_, ls, ok := c.findItem(id)
	if !ok {
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if ls.updating {
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "item update in progress")
	}
	ls.updating = true
	token := c.token
	c.mu.Unlock()

	items, err := c.api.RemoveItem(ctx, token, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart view no longer active")
	}
	if current, ok := c.lines[id]; ok {
		current.updating = false
	}
	if err != nil {
		if !pkgerrors.IsUnauthorized(err) {
			c.banner = publicMessage(err)
		}
		return err
	}
	c.banner = ""
	c.replaceItems(items)
	return nil
}

// persistQuantity pushes one line's quantity to the server while the
// line is flagged in flight, then swaps in the returned full item set.
// Local state is left untouched on failure.
func (c *Controller) persistQuantity(ctx context.Context, id, quantity int64) error {
	c.mu.Lock()
	ls, ok := c.lines[id]
	if !ok {
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if ls.updating {
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "item update in progress")
	}
	ls.updating = true
	token := c.token
	c.mu.Unlock()

	items, err := c.api.UpdateQuantity(ctx, token, id, quantity)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart view no longer active")
	}
	if current, ok := c.lines[id]; ok {
		current.updating = false
	}
	if err != nil {
		if !pkgerrors.IsUnauthorized(err) {
			c.banner = publicMessage(err)
		}
		return err
	}
	c.banner = ""
	c.replaceItems(items)
	return nil
}

// dirtyLine pairs a line id with the quantity its draft settles to.
type dirtyLine struct {
	id       int64
	quantity int64
}

// dirtyLines returns the lines whose committed draft differs from the
// last-known-server quantity. Caller holds the lock.
func (c *Controller) dirtyLines() []dirtyLine {
	var dirty []dirtyLine
	for _, item := range c.items {
		ls := c.lines[item.ID]
		raw := ls.draft
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if parsed != ls.serverQty {
			dirty = append(dirty, dirtyLine{id: item.ID, quantity: parsed})
		}
	}
	return dirty
}

// SyncForCheckout reconciles every draft edit against the server before
// the checkout handoff. All lines are validated up front; any failure
// aborts the whole handoff with one aggregated error and zero persist
// calls. Dirty lines are then pushed strictly sequentially so two
// writes to the shared cart cannot race, aborting on the first
// failure. A fully clean cart issues no network calls at all. The
// returned snapshot is the final server-confirmed item set.
func (c *Controller) SyncForCheckout(ctx context.Context) ([]upstream.CartItem, error) {
	c.mu.Lock()
	var validationErr error
	for _, item := range c.items {
		ls := c.lines[item.ID]
		if msg := ValidateDraft(item, ls.draft); msg != "" {
			ls.draftErr = msg
			validationErr = multierr.Append(validationErr, fmt.Errorf("%s: %s", item.Title, msg))
		}
	}
	if validationErr != nil {
		c.banner = "Please fix quantity errors before checkout."
		c.mu.Unlock()
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, validationErr, "Please fix quantity errors before checkout.")
	}
	c.banner = ""
	dirty := c.dirtyLines()
	c.mu.Unlock()

	for _, line := range dirty {
		if err := c.persistQuantity(ctx, line.id, line.quantity); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]upstream.CartItem, len(c.items))
	copy(snapshot, c.items)
	return snapshot, nil
}

// View renders the controller state for the HTTP layer.
type View struct {
	Items   []LineView `json:"items"`
	Summary money.View `json:"summary"`
	Error   string     `json:"error,omitempty"`
}

type LineView struct {
	upstream.CartItem
	Draft      string `json:"draft"`
	DraftError string `json:"draftError,omitempty"`
	Updating   bool   `json:"updating"`
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]money.Line, 0, len(c.items))
	views := make([]LineView, 0, len(c.items))
	for _, item := range c.items {
		ls := c.lines[item.ID]
		views = append(views, LineView{
			CartItem:   item,
			Draft:      ls.draft,
			DraftError: ls.draftErr,
			Updating:   ls.updating,
		})
		lines = append(lines, money.Line{Price: item.Price, Quantity: item.Quantity})
	}

	return View{
		Items:   views,
		Summary: money.Summarize(lines).View(),
		Error:   c.banner,
	}
}

func publicMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeTransport:
			return "Unable to connect to server"
		default:
			return typed.Message()
		}
	}
	return "Unable to connect to server"
}
