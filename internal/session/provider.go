package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Session is an authenticated handle for the remote services.
type Session struct {
	HTTPClient *http.Client
	Credential Credential
}

// LoadOAuthConfig reads the client-secret file provisioned for this application.
func LoadOAuthConfig(path string, scopes ...string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client secret: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secret %s: %w", path, err)
	}
	return cfg, nil
}

// Provider owns the credential lifecycle and hands out a memoized Session.
type Provider struct {
	Config     *oauth2.Config
	Store      Store
	Authorizer Authorizer
	Logger     *slog.Logger
	Clock      func() time.Time

	mu      sync.Mutex
	session *Session
}

// NewProvider constructs a Provider with sane defaults.
func NewProvider(cfg *oauth2.Config, store Store, auth Authorizer, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Provider{
		Config:     cfg,
		Store:      store,
		Authorizer: auth,
		Logger:     logger,
		Clock:      time.Now,
	}
}

// Session returns the cached session, bootstrapping it on first use.
func (p *Provider) Session(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != nil {
		return p.session, nil
	}
	s, err := p.bootstrap(ctx, false)
	if err != nil {
		return nil, err
	}
	p.session = s
	return s, nil
}

// RefreshOrReauthorize discards the cached session and forces a new token:
// a refresh when a refresh token is stored, otherwise an interactive grant.
func (p *Provider) RefreshOrReauthorize(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = nil
	s, err := p.bootstrap(ctx, true)
	if err != nil {
		return nil, err
	}
	p.session = s
	return s, nil
}

// Reset drops the cached session so the next Session call re-runs the lifecycle.
func (p *Provider) Reset() {
	p.mu.Lock()
	p.session = nil
	p.mu.Unlock()
}

func (p *Provider) bootstrap(ctx context.Context, force bool) (*Session, error) {
	cred, ok := p.load(ctx)
	if ok && !force && !cred.Expired(p.Clock()) {
		p.Logger.DebugContext(ctx, "using cached credential")
		return p.newSession(ctx, cred), nil
	}

	if ok && cred.RefreshToken != "" {
		refreshed, err := p.refresh(ctx, cred)
		if err == nil {
			p.Logger.InfoContext(ctx, "refreshed credential")
			p.persist(ctx, refreshed)
			return p.newSession(ctx, refreshed), nil
		}
		p.Logger.WarnContext(ctx, "credential refresh failed; falling back to interactive authorization", "error", err)
	}

	if p.Authorizer == nil {
		return nil, fmt.Errorf("%w: %w", ErrAuth, ErrInteractiveUnavailable)
	}
	tok, err := p.Authorizer.Authorize(ctx, p.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuth, err)
	}
	fresh := NewCredential(tok, p.Config.Scopes)
	p.Logger.InfoContext(ctx, "obtained new credential")
	p.persist(ctx, fresh)
	return p.newSession(ctx, fresh), nil
}

// load returns the stored credential when it is usable for the configured scopes.
func (p *Provider) load(ctx context.Context) (Credential, bool) {
	cred, err := p.Store.Load()
	if err != nil {
		if !errors.Is(err, ErrNoCredential) {
			p.Logger.WarnContext(ctx, "ignoring unreadable credential", "error", err)
		}
		return Credential{}, false
	}
	if !cred.Covers(p.Config.Scopes) {
		p.Logger.InfoContext(ctx, "stored credential lacks requested scopes", "have", cred.Scopes, "want", p.Config.Scopes)
		return Credential{}, false
	}
	return cred, true
}

func (p *Provider) refresh(ctx context.Context, cred Credential) (Credential, error) {
	src := p.Config.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return Credential{}, err
	}
	return NewCredential(tok, cred.Scopes), nil
}

func (p *Provider) persist(ctx context.Context, cred Credential) {
	if err := p.Store.Save(cred); err != nil {
		p.Logger.WarnContext(ctx, "could not persist credential", "error", err)
	}
}

func (p *Provider) newSession(ctx context.Context, cred Credential) *Session {
	// the client outlives the bootstrap call; keep ctx values (HTTP client) but not its deadline
	base := context.WithoutCancel(ctx)
	tok := cred.Token()
	src := &persistingSource{
		base:   oauth2.ReuseTokenSource(tok, p.Config.TokenSource(base, tok)),
		last:   cred,
		store:  p.Store,
		logger: p.Logger,
	}
	return &Session{
		HTTPClient: oauth2.NewClient(base, src),
		Credential: cred,
	}
}

// persistingSource writes tokens back to the store whenever the HTTP client
// refreshes them transparently.
type persistingSource struct {
	base   oauth2.TokenSource
	store  Store
	logger *slog.Logger

	mu   sync.Mutex
	last Credential
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last.sameToken(tok) {
		return tok, nil
	}
	next := NewCredential(tok, s.last.Scopes)
	if next.RefreshToken == "" {
		next.RefreshToken = s.last.RefreshToken
	}
	if err := s.store.Save(next); err != nil {
		s.logger.Warn("could not persist refreshed credential", "error", err)
	}
	s.last = next
	return tok, nil
}
