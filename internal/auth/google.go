package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

const (
	defaultStateTTL = 5 * time.Minute
	googleUserInfo  = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// UserLinker maps an external identity onto a local user.
type UserLinker interface {
	UpsertFromGoogle(ctx context.Context, sub, email, givenName, familyName string) (users.User, error)
}

// GoogleService signs users in with Google and hands the UI a bearer token
// for the matching local user.
type GoogleService struct {
	oauth       *oauth2.Config
	uiRedirect  string
	userInfoURL string
	states      *pendingLogins
	users       UserLinker
}

func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirect string, linker UserLinker) *GoogleService {
	return &GoogleService{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		uiRedirect:  uiRedirect,
		userInfoURL: googleUserInfo,
		states:      newPendingLogins(defaultStateTTL, time.Now),
		users:       linker,
	}
}

func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) configured() bool {
	return s.oauth.ClientID != "" && s.oauth.ClientSecret != "" && s.oauth.RedirectURL != ""
}

// start redirects to Google. An optional ?next= path is carried through the
// login and handed back to the UI.
func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusServiceUnavailable, "auth_not_configured", "Google sign-in is not configured", nil)
		return
	}
	state := uuid.NewString()
	s.states.add(state, safeNext(c.Query("next")))
	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state))
}

func (s *GoogleService) callback(c *gin.Context) {
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	next, ok := s.states.take(state)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		telemetry.Warn("auth.google.exchange_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}
	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		telemetry.Warn("auth.google.profile_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	user, err := s.users.UpsertFromGoogle(ctx, profile.Sub, profile.Email, profile.GivenName, profile.FamilyName)
	if err != nil {
		telemetry.Error("auth.google.link_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to link account", nil)
		return
	}
	jwt, err := sharedauth.SignUser(user.ID, user.Username, user.Email)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	target, err := uiTarget(s.uiRedirect, jwt, next)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	telemetry.Info("auth.google.login", map[string]any{"user_id": user.ID})
	c.Redirect(http.StatusFound, target)
}

type googleProfile struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

func (s *GoogleService) fetchProfile(ctx context.Context, token *oauth2.Token) (googleProfile, error) {
	resp, err := s.oauth.Client(ctx, token).Get(s.userInfoURL)
	if err != nil {
		return googleProfile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleProfile{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var p googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return googleProfile{}, err
	}
	if p.Sub == "" {
		return googleProfile{}, errors.New("userinfo without subject")
	}
	return p, nil
}

// pendingLogins remembers issued OAuth states until they are used or expire.
type pendingLogins struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]pendingLogin
}

type pendingLogin struct {
	next    string
	expires time.Time
}

func newPendingLogins(ttl time.Duration, now func() time.Time) *pendingLogins {
	return &pendingLogins{ttl: ttl, now: now, items: make(map[string]pendingLogin)}
}

func (p *pendingLogins) add(state, next string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	for k, v := range p.items {
		if now.After(v.expires) {
			delete(p.items, k)
		}
	}
	p.items[state] = pendingLogin{next: next, expires: now.Add(p.ttl)}
}

// take consumes state; a state is valid once.
func (p *pendingLogins) take(state string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.items[state]
	delete(p.items, state)
	if !ok || p.now().After(v.expires) {
		return "", false
	}
	return v.next, true
}

// safeNext keeps only same-site absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return ""
	}
	return next
}

func uiTarget(rawURL, token, next string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	if next != "" {
		q.Set("next", next)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
