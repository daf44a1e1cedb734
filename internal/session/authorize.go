package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	goruntime "runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const defaultAuthTimeout = 3 * time.Minute

// Authorizer obtains a brand-new token from the user.
type Authorizer interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// LoopbackAuthorizer runs the installed-app flow: it serves a redirect target
// on the loopback interface, sends the user to the consent page and exchanges
// the returned code (PKCE S256).
type LoopbackAuthorizer struct {
	// Disabled makes every Authorize call fail with ErrInteractiveUnavailable.
	Disabled bool
	// NoBrowser skips launching a browser; the URL is only logged.
	NoBrowser bool
	Timeout   time.Duration
	Logger    *slog.Logger
	// ListenAddr defaults to 127.0.0.1:0.
	ListenAddr string
	// Open launches the consent URL. Defaults to the platform opener.
	Open func(url string) error
}

type callbackResult struct {
	code string
	err  error
}

// Authorize implements Authorizer.
func (a LoopbackAuthorizer) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	if a.Disabled {
		return nil, ErrInteractiveUnavailable
	}
	addr := a.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen for redirect: %v", ErrInteractiveUnavailable, err)
	}
	defer ln.Close()

	flow := *cfg
	flow.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := flow.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)
	logger := a.logger()
	logger.InfoContext(ctx, "authorization required; open this URL to continue", "url", authURL)
	if !a.NoBrowser {
		open := a.Open
		if open == nil {
			open = openBrowser
		}
		if oerr := open(authURL); oerr != nil {
			logger.WarnContext(ctx, "could not open browser automatically", "error", oerr)
		}
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultAuthTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, xerr := flow.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
		if xerr != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", xerr)
		}
		if tok.RefreshToken == "" {
			logger.WarnContext(ctx, "no refresh token returned; the next expiry will require authorization again")
		}
		return tok, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: timed out waiting for browser callback after %s", ErrInteractiveUnavailable, timeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for browser callback: %w", ctx.Err())
	}
}

func (a LoopbackAuthorizer) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	send := func(res callbackResult) {
		select {
		case results <- res:
		default:
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			send(callbackResult{err: errors.New("oauth callback state mismatch")})
			return
		}
		if reason := q.Get("error"); reason != "" {
			http.Error(w, "authorization denied", http.StatusForbidden)
			send(callbackResult{err: fmt.Errorf("authorization denied: %s", reason)})
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			send(callbackResult{err: errors.New("oauth callback missing code")})
			return
		}
		_, _ = io.WriteString(w, "sheetsmcp authorization complete. You can close this tab.")
		send(callbackResult{code: code})
	})
	return mux
}

func openBrowser(target string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32.exe", "url.dll,FileProtocolHandler", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}

var _ Authorizer = LoopbackAuthorizer{}
