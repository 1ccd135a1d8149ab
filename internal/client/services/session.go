package services

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/vignaraja/internal/client/models"
	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/cryptox"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
)

// Session is the identity of one client together with the watches opened
// on its behalf. Logout releases every watch exactly once.
type Session struct {
	mu    sync.Mutex
	actor models.Actor
	subs  []docstore.Subscription
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Actor() models.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actor
}

func (s *Session) setActor(a models.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actor = a
}

// Track ties sub to the session so that Clear cancels it.
func (s *Session) Track(sub docstore.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
}

// Watches returns the number of tracked subscriptions.
func (s *Session) Watches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Clear resets the identity and cancels every tracked subscription.
func (s *Session) Clear() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.actor = models.Actor{}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

// LoginRequest carries the login form. Phone and Image are only used when
// Name is not registered yet.
type LoginRequest struct {
	Name     string
	Password string
	Phone    string
	Image    string
}

type LoginOutcome int

const (
	OutcomeAuthenticated LoginOutcome = iota + 1
	OutcomeRegistered
)

func (o LoginOutcome) String() string {
	switch o {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeRegistered:
		return "registered"
	default:
		return "unknown"
	}
}

// AuthService signs members and the admin in and out. Member login and
// signup are one operation told apart by whether the record exists.
type AuthService struct {
	store   docstore.Store
	layout  Layout
	session *Session
	members *MemberService
	admin   cryptox.CredentialVerifier
	logger  logging.Logger
}

func NewAuthService(store docstore.Store, l Layout, s *Session, members *MemberService, admin cryptox.CredentialVerifier, logger logging.Logger) *AuthService {
	return &AuthService{
		store:   store,
		layout:  l,
		session: s,
		members: members,
		admin:   admin,
		logger:  logger.With("module", "auth"),
	}
}

// Login authenticates an existing member or registers a new one. A
// registration leaves the session signed out; the member logs in next. A
// successful login replaces the previous identity and releases its watches.
func (a *AuthService) Login(ctx context.Context, req LoginRequest) (LoginOutcome, error) {
	name := strings.TrimSpace(req.Name)
	password := strings.TrimSpace(req.Password)
	if name == "" || password == "" {
		return 0, validationf("enter name and password")
	}
	if err := checkKey("name", name); err != nil {
		return 0, err
	}

	snap, err := a.store.Get(ctx, a.layout.User(name))
	if err != nil {
		return 0, err
	}

	if snap.Exists {
		var m models.Member
		if err := snap.Decode(&m); err != nil {
			return 0, err
		}
		if m.Password != password {
			return 0, common.ErrorIncorrectPassword
		}
		a.session.Clear()
		a.session.setActor(models.Actor{Kind: models.ActorMember, Name: name})
		a.logger.Info(ctx, "member logged in", "name", name)
		return OutcomeAuthenticated, nil
	}

	if err := a.members.Register(ctx, name, password, strings.TrimSpace(req.Phone), req.Image); err != nil {
		return 0, err
	}
	return OutcomeRegistered, nil
}

// AdminLogin checks the admin credential. The admin identity exists only in
// this session and is never written to the store.
func (a *AuthService) AdminLogin(ctx context.Context, user, pass string) error {
	if a.admin == nil || !a.admin.Verify(strings.TrimSpace(user), []byte(strings.TrimSpace(pass))) {
		a.logger.Warn(ctx, "admin login rejected")
		return unauthorized("invalid admin credentials")
	}
	a.session.Clear()
	a.session.setActor(models.Actor{Kind: models.ActorAdmin})
	a.logger.Info(ctx, "admin logged in")
	return nil
}

// Logout signs out and stops every watch of the session. Stored data is not
// touched.
func (a *AuthService) Logout() {
	a.session.Clear()
}
