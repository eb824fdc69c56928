// Package remote serves the event monitor to SSH clients
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	gossh "golang.org/x/crypto/ssh"

	"github.com/bnema/desktopkit/internal/logger"
)

// DefaultHistory is how many messages a late viewer is replayed
const DefaultHistory = 1000

// ErrStopped is returned when starting a server that was stopped
var ErrStopped = errors.New("remote monitor stopped")

// Config describes the SSH endpoint
type Config struct {
	Addr        string
	HostKeyPath string
	// AuthorizedKeys lists SHA256 fingerprints allowed in. Empty accepts any key.
	AuthorizedKeys []string
	// History bounds the replay buffer. Zero means DefaultHistory.
	History int
}

// Server fans monitor messages out to every connected viewer. Each SSH
// session runs its own Bubble Tea program over a model from newModel.
type Server struct {
	cfg      Config
	newModel func() tea.Model

	mu      sync.Mutex
	history []tea.Msg
	viewers map[string]chan tea.Msg
	stopped bool

	srv      *ssh.Server
	ln       net.Listener
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewServer creates a server. Nothing listens until Start.
func NewServer(cfg Config, newModel func() tea.Model) *Server {
	if cfg.History <= 0 {
		cfg.History = DefaultHistory
	}
	return &Server{
		cfg:      cfg,
		newModel: newModel,
		viewers:  make(map[string]chan tea.Msg),
	}
}

// Start begins listening. The server stops when ctx is done or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	srv, err := wish.NewServer(
		wish.WithAddress(s.cfg.Addr),
		wish.WithHostKeyPath(s.cfg.HostKeyPath),
		wish.WithPublicKeyAuth(s.publicKeyAuth),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			activeterm.Middleware(),
			s.loggingMiddleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		ln.Close()
		return ErrStopped
	}
	s.srv, s.ln = srv, ln
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		logger.Info("Remote monitor listening", "addr", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, ssh.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			logger.Error("Remote monitor failed", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop closes every viewer and shuts the listener down
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		for id, ch := range s.viewers {
			close(ch)
			delete(s.viewers, id)
		}
		srv, ln := s.srv, s.ln
		s.mu.Unlock()

		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
			// Serve may not have tracked the listener yet
			_ = ln.Close()
		}
		s.wg.Wait()
	})
}

// Send records msg and delivers it to every viewer. A viewer that cannot
// keep up is disconnected.
func (s *Server) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.history = append(s.history, msg)
	if len(s.history) > s.cfg.History {
		s.history = s.history[len(s.history)-s.cfg.History:]
	}
	for id, ch := range s.viewers {
		select {
		case ch <- msg:
		default:
			logger.Warn("Dropping slow remote viewer", "session", id)
			close(ch)
			delete(s.viewers, id)
		}
	}
}

// Addr is the listening address, nil before Start
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Viewers returns the number of connected viewers
func (s *Server) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

// subscribe registers a viewer and queues the history for it. The channel
// is closed on unsubscribe or Stop.
func (s *Server) subscribe(id string) <-chan tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan tea.Msg, s.cfg.History+64)
	if s.stopped {
		close(ch)
		return ch
	}
	for _, msg := range s.history {
		ch <- msg
	}
	s.viewers[id] = ch
	return ch
}

func (s *Server) unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.viewers[id]; ok {
		close(ch)
		delete(s.viewers, id)
	}
}

func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	id := sess.Context().SessionID()
	ch := s.subscribe(id)
	go func() {
		<-sess.Context().Done()
		s.unsubscribe(id)
	}()
	return newViewer(s.newModel(), ch), []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *Server) publicKeyAuth(ctx ssh.Context, key ssh.PublicKey) bool {
	fingerprint := gossh.FingerprintSHA256(key)
	ok := s.authorized(fingerprint)
	logger.Info("Remote monitor authentication", "addr", ctx.RemoteAddr(), "user", ctx.User(), "key", fingerprint, "accepted", ok)
	return ok
}

func (s *Server) authorized(fingerprint string) bool {
	if len(s.cfg.AuthorizedKeys) == 0 {
		return true
	}
	return slices.Contains(s.cfg.AuthorizedKeys, fingerprint)
}

func (s *Server) loggingMiddleware() wish.Middleware {
	return func(h ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			logger.Debug("Remote viewer connected", "user", sess.User(), "addr", sess.RemoteAddr())
			h(sess)
			logger.Debug("Remote viewer disconnected", "addr", sess.RemoteAddr())
		}
	}
}
