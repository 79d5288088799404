package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/connectivity"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/sheets"
)

// Phase is the coordinator's load state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// OfflineMessage is recorded when a load is attempted without connectivity.
const OfflineMessage = "No internet connection. Using offline data."

// ErrOffline is returned by loads attempted while offline.
var ErrOffline = errors.New("offline")

const defaultWriteTimeout = 15 * time.Second

// Snapshot is a point-in-time copy of everything the UI renders.
type Snapshot struct {
	Phase         Phase
	Equipment     []inventory.EquipmentItem
	Checkouts     []inventory.CheckoutRecord
	Error         string // last load error, empty when the last load succeeded
	Notice        string // advisory, e.g. a table fell back to built-in data
	Online        bool
	Configured    bool
	PendingWrites int // dispatched remote writes that have not settled
	LastUpdated   time.Time

	// ConsecutiveFailures counts loads in a row that were offline or used
	// fallback data for at least one table.
	ConsecutiveFailures int
}

// IsDegraded is true when several loads in a row have not produced live data.
func (s Snapshot) IsDegraded() bool {
	return s.ConsecutiveFailures >= 2
}

// Options configure a Coordinator.
type Options struct {
	Logger       *slog.Logger
	WriteTimeout time.Duration
	Now          func() time.Time
}

// Coordinator owns the in-memory equipment and checkout collections. Local
// mutations apply immediately; the matching remote write is dispatched in
// the background and never blocks or fails the caller.
type Coordinator struct {
	store sheets.Store
	conn  connectivity.Provider
	log   *slog.Logger
	now   func() time.Time

	writeTimeout time.Duration

	// loadMu serializes loads so fallback notes belong to one load.
	loadMu sync.Mutex

	mu          sync.RWMutex
	phase       Phase
	equipment   []inventory.EquipmentItem
	checkouts   []inventory.CheckoutRecord
	loaded      bool
	errMsg      string
	notice      string
	online      bool
	lastUpdated time.Time
	failures    int
	fallbacks   []string
	pending     int
	lastWrite   chan struct{}

	writes      sync.WaitGroup
	unsubscribe func()
}

// New builds a Coordinator over store. A nil conn is treated as always online.
func New(store sheets.Store, conn connectivity.Provider, opts Options) *Coordinator {
	if conn == nil {
		conn = connectivity.NewStatic(true)
	}
	c := &Coordinator{
		store:        store,
		conn:         conn,
		log:          opts.Logger,
		now:          opts.Now,
		writeTimeout: opts.WriteTimeout,
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.writeTimeout <= 0 {
		c.writeTimeout = defaultWriteTimeout
	}

	c.online = conn.Online()
	c.unsubscribe = conn.Subscribe(func(online bool) {
		c.mu.Lock()
		c.online = online
		c.mu.Unlock()
		c.log.Info("connectivity changed", slog.Bool("online", online))
	})
	return c
}

// Close stops listening for connectivity changes.
func (c *Coordinator) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Initialize performs the first load.
func (c *Coordinator) Initialize(ctx context.Context) error {
	return c.load(ctx)
}

// RefreshData re-fetches both tables and replaces the local collections
// wholesale. Local changes the backend has not caught up with disappear.
func (c *Coordinator) RefreshData(ctx context.Context) error {
	return c.load(ctx)
}

// NoteFallback records that a table was served from built-in data during the
// current load. It is meant to be wired to sheets.Options.OnFallback.
func (c *Coordinator) NoteFallback(table string, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallbacks = append(c.fallbacks, table)
}

func (c *Coordinator) load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.Lock()
	c.phase = PhaseLoading
	c.fallbacks = nil
	online := c.online
	c.mu.Unlock()

	if !online {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.phase = PhaseErrored
		c.errMsg = OfflineMessage
		c.failures++
		c.lastUpdated = c.now()
		if !c.loaded {
			c.equipment = sheets.FallbackEquipment()
			c.checkouts = sheets.FallbackCheckouts()
			c.notice = "Showing built-in data until the sheet can be reached"
		}
		c.log.Warn("load skipped", slog.String("reason", OfflineMessage))
		return ErrOffline
	}

	var (
		equipment []inventory.EquipmentItem
		checkouts []inventory.CheckoutRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		equipment = c.store.FetchEquipment(gctx)
		return nil
	})
	g.Go(func() error {
		checkouts = c.store.FetchCheckouts(gctx)
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUpdated = c.now()

	if err := ctx.Err(); err != nil {
		c.phase = PhaseErrored
		c.errMsg = err.Error()
		c.failures++
		return err
	}

	c.equipment = equipment
	c.checkouts = checkouts
	c.loaded = true
	c.phase = PhaseReady
	c.errMsg = ""
	if len(c.fallbacks) > 0 {
		c.notice = "Using built-in " + strings.Join(c.fallbacks, " and ") + " data"
		c.failures++
	} else {
		c.notice = ""
		c.failures = 0
	}
	c.log.Info("data loaded",
		slog.Int("equipment", len(equipment)),
		slog.Int("checkouts", len(checkouts)),
		slog.Int("fallbacks", len(c.fallbacks)))
	return nil
}

// AddCheckout appends rec with the next id, marks its equipment unavailable
// and, when online and configured, sends the write in the background. It
// always reports true.
func (c *Coordinator) AddCheckout(rec inventory.CheckoutRecord) bool {
	c.mu.Lock()
	rec = c.addCheckoutLocked(rec)
	send := c.shouldWriteLocked()
	c.mu.Unlock()

	c.sendCheckout(rec, send)
	return true
}

// Checkout validates form against the current equipment and records the
// checkout. Validation failures change nothing.
func (c *Coordinator) Checkout(form inventory.CheckoutForm) (inventory.CheckoutRecord, error) {
	c.mu.Lock()
	item, err := form.Validate(c.equipment)
	if err != nil {
		c.mu.Unlock()
		return inventory.CheckoutRecord{}, err
	}
	rec := c.addCheckoutLocked(inventory.NewCheckout(form, item, c.now()))
	send := c.shouldWriteLocked()
	c.mu.Unlock()

	c.sendCheckout(rec, send)
	return rec, nil
}

// addCheckoutLocked keeps the append and the availability flip together.
func (c *Coordinator) addCheckoutLocked(rec inventory.CheckoutRecord) inventory.CheckoutRecord {
	next := 1
	for _, existing := range c.checkouts {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	rec.ID = next
	rec.Returned = false
	c.checkouts = append(c.checkouts, rec)
	c.setAvailableLocked(rec.EquipmentID, false)
	return rec
}

// sendCheckout logs a locally added checkout and, when send is set, queues
// the matching remote append.
func (c *Coordinator) sendCheckout(rec inventory.CheckoutRecord, send bool) {
	c.log.Info("checkout added locally",
		slog.Int("checkout_id", rec.ID),
		slog.Int("equipment_id", rec.EquipmentID))
	if !send {
		return
	}
	c.dispatch(sheets.ActionAddCheckout, func(ctx context.Context) bool {
		return c.store.AddCheckout(ctx, rec)
	})
}

// MarkAsReturned checks in the given checkout. Unknown ids report false and
// change nothing. The equipment becomes available again unless another
// unreturned checkout still holds it.
func (c *Coordinator) MarkAsReturned(checkoutID int) bool {
	c.mu.Lock()
	idx := -1
	for i := range c.checkouts {
		if c.checkouts[i].ID == checkoutID {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.checkouts[idx].Returned = true
	equipmentID := c.checkouts[idx].EquipmentID
	if !c.hasOpenCheckoutLocked(equipmentID) {
		c.setAvailableLocked(equipmentID, true)
	}
	send := c.shouldWriteLocked()
	c.mu.Unlock()

	c.log.Info("checkout returned locally",
		slog.Int("checkout_id", checkoutID),
		slog.Int("equipment_id", equipmentID))
	if send {
		c.dispatch(sheets.ActionMarkReturned, func(ctx context.Context) bool {
			return c.store.MarkAsReturned(ctx, checkoutID)
		})
	}
	return true
}

// SetEquipmentAvailability overrides one item's flag directly, for gear that
// goes out for repair or comes back outside the checkout flow. An item held
// by an unreturned checkout cannot be made available; that returns
// inventory.ErrEquipmentCheckedOut and changes nothing.
func (c *Coordinator) SetEquipmentAvailability(equipmentID int, available bool) error {
	c.mu.Lock()
	if _, ok := inventory.FindEquipment(c.equipment, equipmentID); !ok {
		c.mu.Unlock()
		return fmt.Errorf("equipment %d: %w", equipmentID, inventory.ErrUnknownEquipment)
	}
	if available && c.hasOpenCheckoutLocked(equipmentID) {
		c.mu.Unlock()
		return fmt.Errorf("equipment %d: %w", equipmentID, inventory.ErrEquipmentCheckedOut)
	}
	c.setAvailableLocked(equipmentID, available)
	send := c.shouldWriteLocked()
	c.mu.Unlock()

	c.log.Info("equipment availability set locally",
		slog.Int("equipment_id", equipmentID),
		slog.Bool("available", available))
	if send {
		c.dispatch(sheets.ActionUpdateEquipment, func(ctx context.Context) bool {
			return c.store.UpdateEquipment(ctx, equipmentID, available)
		})
	}
	return nil
}

func (c *Coordinator) hasOpenCheckoutLocked(equipmentID int) bool {
	for _, rec := range c.checkouts {
		if !rec.Returned && rec.EquipmentID == equipmentID {
			return true
		}
	}
	return false
}

func (c *Coordinator) setAvailableLocked(equipmentID int, available bool) {
	for i := range c.equipment {
		if c.equipment[i].ID == equipmentID {
			c.equipment[i].Available = available
		}
	}
}

func (c *Coordinator) shouldWriteLocked() bool {
	if !c.online {
		c.log.Info("remote write skipped", slog.String("reason", "offline"))
		return false
	}
	if !c.store.IsConfigured() {
		c.log.Info("remote write skipped", slog.String("reason", "sheet not configured"))
		return false
	}
	return true
}

// dispatch runs write in the background. Writes are chained so the backend
// sees them in the order they were made locally.
func (c *Coordinator) dispatch(action string, write func(ctx context.Context) bool) {
	c.mu.Lock()
	c.pending++
	prev := c.lastWrite
	done := make(chan struct{})
	c.lastWrite = done
	c.mu.Unlock()

	c.writes.Add(1)
	go func() {
		defer c.writes.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
		ok := write(ctx)
		cancel()
		if !ok {
			c.log.Warn("remote write failed", slog.String("action", action))
		}

		c.mu.Lock()
		c.pending--
		c.mu.Unlock()
	}()
}

// Wait blocks until every dispatched write has settled.
func (c *Coordinator) Wait() {
	c.writes.Wait()
}

// Online reports the current connectivity signal.
func (c *Coordinator) Online() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.online
}

// Configured reports whether the backend has real read credentials.
func (c *Coordinator) Configured() bool {
	return c.store.IsConfigured()
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Phase:               c.phase,
		Equipment:           inventory.CloneEquipment(c.equipment),
		Checkouts:           inventory.CloneCheckouts(c.checkouts),
		Error:               c.errMsg,
		Notice:              c.notice,
		Online:              c.online,
		Configured:          c.store.IsConfigured(),
		PendingWrites:       c.pending,
		LastUpdated:         c.lastUpdated,
		ConsecutiveFailures: c.failures,
	}
}
