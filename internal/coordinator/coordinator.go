package coordinator

import (
	"sync"
	"time"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/shell"
	"github.com/breezeware/dynamodocs/internal/signal"
)

// Navigator is the slice of the shell the coordinator drives. Satisfied by
// *shell.Router.
type Navigator interface {
	Navigate(path string) shell.Route
	Back() shell.Route
	Current() shell.Route
}

// Notifier shows the transient banner. One notification per outcome,
// dismissed explicitly.
type Notifier interface {
	Success(message string)
	Error(message string)
}

const (
	// backDelay lets the success banner render before navigating away.
	backDelay = 200 * time.Millisecond
	// autosaveDelay is the trailing-edge debounce for keystroke saves.
	autosaveDelay = 3000 * time.Millisecond
)

// Coordinator owns every mutating document and collection action: it
// issues the REST call, and only after the server answered reconciles the
// UI — notification, invalidation flip, navigation. A failed call flips
// nothing.
type Coordinator struct {
	api    *api.Client
	bus    *signal.Bus
	nav    Navigator
	notify Notifier

	backDelay     time.Duration
	autosaveDelay time.Duration

	mu       sync.Mutex
	autosave *time.Timer
}

type Option func(*Coordinator)

// WithDelays overrides the reconciliation delays, for tests.
func WithDelays(back, autosave time.Duration) Option {
	return func(c *Coordinator) {
		c.backDelay = back
		c.autosaveDelay = autosave
	}
}

func New(client *api.Client, bus *signal.Bus, nav Navigator, notify Notifier, opts ...Option) *Coordinator {
	c := &Coordinator{
		api:           client,
		bus:           bus,
		nav:           nav,
		notify:        notify,
		backDelay:     backDelay,
		autosaveDelay: autosaveDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the pending autosave timer, part of the coordinator's
// scoped-resource contract.
func (c *Coordinator) Close() {
	c.cancelAutosave()
}

// navigateHomeDelayed waits out the banner and then returns to the
// documents home. Runs inline so the mutating action's reconciliation
// stays ordered.
func (c *Coordinator) navigateHomeDelayed() {
	time.Sleep(c.backDelay)
	c.nav.Navigate(shell.PathHome)
}

func (c *Coordinator) navigateBackDelayed() {
	time.Sleep(c.backDelay)
	c.nav.Back()
}

// Banner is the in-memory notification surface: it keeps the last message
// until explicitly closed, the way the snackbar behaves.
type Banner struct {
	mu      sync.Mutex
	message string
	isError bool
	open    bool
}

func NewBanner() *Banner {
	return &Banner{}
}

func (b *Banner) Success(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message, b.isError, b.open = message, false, true
}

func (b *Banner) Error(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message, b.isError, b.open = message, true, true
}

// Current returns the visible notification, if any.
func (b *Banner) Current() (message string, isError, open bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message, b.isError, b.open
}

func (b *Banner) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
}
