// Package session scopes console state to one operator's browser session.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	workspaceContextKey = "workspace"
	defaultCookieName   = "console_session"
	defaultTTL          = 2 * time.Hour
	reapInterval        = time.Minute
)

// Config holds configuration for the session manager.
type Config struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
	Logger     *slog.Logger
}

// Closer is implemented by workspace values that hold timers or other
// resources released on replacement or expiry.
type Closer interface {
	Close()
}

// Workspace is the state of one operator session: the entity stores, the
// list screen models and the dashboard cache.
type Workspace struct {
	id string

	mu       sync.Mutex
	values   map[string]any
	flash    *Flash
	lastSeen time.Time
}

// Flash is a one-shot notification shown on the next full page render, used
// when a mutation ends with a redirect.
type Flash struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ID returns the session id.
func (w *Workspace) ID() string { return w.id }

// Value returns the value stored under key, creating it with create on first
// use. It panics if the stored value has a different type, which means two
// callers share a key by mistake.
func Value[V any](w *Workspace, key string, create func() V) V {
	w.mu.Lock()
	defer w.mu.Unlock()
	if v, ok := w.values[key]; ok {
		return v.(V)
	}
	v := create()
	w.values[key] = v
	return v
}

// Lookup returns the value stored under key without creating it.
func Lookup[V any](w *Workspace, key string) (V, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.values[key].(V)
	return v, ok
}

// Replace stores v under key, closing the previous value if it is a Closer.
func (w *Workspace) Replace(key string, v any) {
	w.mu.Lock()
	old, had := w.values[key]
	w.values[key] = v
	w.mu.Unlock()

	if c, ok := old.(Closer); had && ok && old != v {
		c.Close()
	}
}

// SetFlash queues a notification for the next page render, replacing any
// notification not yet shown.
func (w *Workspace) SetFlash(message, kind string) {
	w.mu.Lock()
	w.flash = &Flash{Message: message, Type: kind}
	w.mu.Unlock()
}

// PopFlash returns and clears the queued notification.
func (w *Workspace) PopFlash() (Flash, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.flash == nil {
		return Flash{}, false
	}
	f := *w.flash
	w.flash = nil
	return f, true
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) close() {
	w.mu.Lock()
	values := w.values
	w.values = map[string]any{}
	w.mu.Unlock()

	for _, v := range values {
		if c, ok := v.(Closer); ok {
			c.Close()
		}
	}
}

// Manager keeps workspaces in memory and expires them after TTL of inactivity.
type Manager struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
	lastReap   time.Time
}

// NewManager creates a Manager.
func NewManager(cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the live workspace with the given id and marks it as used.
func (m *Manager) Get(id string) (*Workspace, bool) {
	now := m.now()
	m.mu.Lock()
	w, ok := m.workspaces[id]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	if now.Sub(w.idleSince()) > m.cfg.TTL {
		m.remove(id)
		return nil, false
	}
	w.touch(now)
	return w, true
}

// Create starts a new workspace.
func (m *Manager) Create() *Workspace {
	w := &Workspace{
		id:       uuid.NewString(),
		values:   make(map[string]any),
		lastSeen: m.now(),
	}
	m.mu.Lock()
	m.workspaces[w.id] = w
	m.mu.Unlock()
	return w
}

// Len returns the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// Reap closes and drops every workspace idle for longer than TTL.
func (m *Manager) Reap() int {
	now := m.now()
	var expired []*Workspace

	m.mu.Lock()
	m.lastReap = now
	for id, w := range m.workspaces {
		if now.Sub(w.idleSince()) > m.cfg.TTL {
			expired = append(expired, w)
			delete(m.workspaces, id)
		}
	}
	m.mu.Unlock()

	for _, w := range expired {
		w.close()
	}
	if len(expired) > 0 {
		m.logger.Debug("expired console sessions", slog.Int("count", len(expired)))
	}
	return len(expired)
}

// Close drops every workspace.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.workspaces
	m.workspaces = make(map[string]*Workspace)
	m.mu.Unlock()
	for _, w := range all {
		w.close()
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	w, ok := m.workspaces[id]
	delete(m.workspaces, id)
	m.mu.Unlock()
	if ok {
		w.close()
	}
}

func (m *Manager) reapDue() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now().Sub(m.lastReap) >= reapInterval
}

// Middleware resolves the workspace from the session cookie, creating a new
// one when the cookie is missing or expired, and stores it in gin.Context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.reapDue() {
			m.Reap()
		}

		var w *Workspace
		if id, err := c.Cookie(m.cfg.CookieName); err == nil && id != "" {
			w, _ = m.Get(id)
		}
		if w == nil {
			w = m.Create()
			c.SetCookie(m.cfg.CookieName, w.ID(), int(m.cfg.TTL.Seconds()), "/", "", m.cfg.Secure, true)
		}

		c.Set(workspaceContextKey, w)
		c.Next()
	}
}

// FromContext returns the workspace stored by Middleware, or nil.
func FromContext(c *gin.Context) *Workspace {
	if v, ok := c.Get(workspaceContextKey); ok {
		if w, ok := v.(*Workspace); ok {
			return w
		}
	}
	return nil
}
