package klubyorg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/riskibarqy/court-spotter/external/provider"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"golang.org/x/sync/singleflight"
)

const (
	loginEndpoint  = "logowanie"
	authCookieName = "kluby_autolog"
	loginFlightKey = "login"
)

// Authenticator keeps a kluby.org session alive in the shared cookie jar.
type Authenticator struct {
	client   *provider.Client
	jar      http.CookieJar
	baseURL  *url.URL
	username string
	password string
	logger   *logging.Logger

	logins singleflight.Group
}

func NewAuthenticator(client *provider.Client, username, password string, logger *logging.Logger) (*Authenticator, error) {
	base, err := url.Parse(client.BaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse kluby.org base url: %w", err)
	}
	jar := client.HTTPClient().Jar
	if jar == nil {
		return nil, errors.New("kluby.org http client has no cookie jar")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Authenticator{
		client:   client,
		jar:      jar,
		baseURL:  base,
		username: username,
		password: password,
		logger:   logger,
	}, nil
}

// EnsureAuthenticated logs in when the session cookie is missing. A rejected login
// returns false without an error; transport problems return the error.
// Concurrent callers share one in-flight login request.
func (a *Authenticator) EnsureAuthenticated(ctx context.Context) (bool, error) {
	if a.isAuthenticated() {
		return true, nil
	}

	// The shared login must outlive any single waiter; the client timeout bounds it.
	loginCtx := context.WithoutCancel(ctx)
	ch := a.logins.DoChan(loginFlightKey, func() (any, error) {
		return a.login(loginCtx)
	})

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

func (a *Authenticator) login(ctx context.Context) (bool, error) {
	if a.isAuthenticated() {
		return true, nil
	}

	form := url.Values{
		"konto":     {a.username},
		"haslo":     {a.password},
		"logowanie": {"1"},
		"remember":  {"1"},
		"page":      {"/"},
	}
	if err := a.client.PostForm(ctx, loginEndpoint, form); err != nil && !errors.Is(err, provider.ErrUnexpectedStatus) {
		return false, fmt.Errorf("kluby.org login: %w", err)
	}

	ok := a.isAuthenticated()
	if !ok {
		a.logger.WarnContext(ctx, "kluby.org login did not yield a session cookie")
	}
	return ok, nil
}

func (a *Authenticator) isAuthenticated() bool {
	for _, cookie := range a.jar.Cookies(a.baseURL) {
		if cookie.Name == authCookieName {
			return true
		}
	}
	return false
}
