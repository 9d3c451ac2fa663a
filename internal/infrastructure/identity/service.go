// Package identity implements the identity backend the portal delegates to:
// account verification and creation, session issuance and revocation,
// one-time sign-in links, and push-style session-change notifications.
//
// The rest of the application only sees it through ports.IdentityClient views
// obtained from ClientFor, mirroring how a managed auth provider hands each
// browser session its own client handle.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
	storeredis "github.com/samaraworks/portal-api/internal/infrastructure/db/redis"
)

// Account is the credential record behind an identity. It never leaves this
// package; the application works with Profile and ApplicationUser instead.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountStore abstracts credential persistence (MongoDB).
type AccountStore interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// SessionStore abstracts revocable session persistence (Redis).
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Fetch(ctx context.Context, sid string) (*domain.Session, error)
	Delete(ctx context.Context, sid string) error
}

// LinkStore abstracts one-time sign-in token persistence (Redis).
type LinkStore interface {
	Save(ctx context.Context, token string, link storeredis.PasswordlessLink, ttl time.Duration) error
	Consume(ctx context.Context, token string) (*storeredis.PasswordlessLink, error)
}

// Mailer delivers passwordless sign-in links. Production wiring would use an
// email provider; tests and local runs use the log mailer below.
type Mailer interface {
	SendSignInLink(ctx context.Context, email, linkURL string) error
}

// Options configures a Service.
type Options struct {
	JWTSecret   string
	SessionTTL  time.Duration
	LinkTTL     time.Duration
	LinkBaseURL string
	Log         zerolog.Logger
}

// Service is the identity backend facade.
type Service struct {
	accounts   AccountStore
	sessions   SessionStore
	links      LinkStore
	mailer     Mailer
	jwtSecret  []byte
	sessionTTL time.Duration
	linkTTL    time.Duration
	linkBase   string
	log        zerolog.Logger
	hub        *changeHub
}

// NewService constructs the identity backend facade.
func NewService(accounts AccountStore, sessions SessionStore, links LinkStore, mailer Mailer, opts Options) *Service {
	sessionTTL := opts.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	linkTTL := opts.LinkTTL
	if linkTTL <= 0 {
		linkTTL = 15 * time.Minute
	}
	if mailer == nil {
		mailer = LogMailer{Log: opts.Log}
	}
	return &Service{
		accounts:   accounts,
		sessions:   sessions,
		links:      links,
		mailer:     mailer,
		jwtSecret:  []byte(opts.JWTSecret),
		sessionTTL: sessionTTL,
		linkTTL:    linkTTL,
		linkBase:   opts.LinkBaseURL,
		log:        opts.Log,
		hub:        newChangeHub(),
	}
}

// ClientFor returns a session-scoped client view. token may be empty for a
// client with no session yet (e.g. the login flow).
func (s *Service) ClientFor(token string) ports.IdentityClient {
	c := &Client{svc: s, handlers: make(map[int]func(domain.SessionChange))}
	c.bind(token)
	return c
}

// CreateAccount registers a new credential record. Success means the request
// was accepted; it does not establish a session.
func (s *Service) CreateAccount(ctx context.Context, email, secret, displayName string) error {
	if email == "" || secret == "" {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	account := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return err
	}
	return nil
}

// verifyCredentials checks email/secret and returns the matching account.
// Unknown email and wrong secret are collapsed into ErrInvalidCredentials so
// callers cannot enumerate accounts.
func (s *Service) verifyCredentials(ctx context.Context, email, secret string) (*Account, error) {
	if email == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(secret)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

// issueSession mints a session for account, persists it, and returns it with
// the signed transport token attached.
func (s *Service) issueSession(ctx context.Context, account *Account) (*domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:          uuid.NewString(),
		IdentityID:  account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	token, err := s.signToken(session)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	session.Token = token
	return session, nil
}

// signToken produces the opaque-to-the-app session token: an HS256 JWT whose
// sid claim points at the revocable Redis record.
func (s *Service) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":   session.ID,
		"sub":   session.IdentityID,
		"email": session.Email,
		"iat":   session.IssuedAt.Unix(),
		"exp":   session.ExpiresAt.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

// parseToken validates a transport token and returns the session id inside.
func (s *Service) parseToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrSessionNotFound
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ErrSessionNotFound
	}
	return sid, nil
}

// lookupSession fetches the live session for a transport token. A revoked or
// expired session yields (nil, nil), matching "no current session".
func (s *Service) lookupSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}
	sid, err := s.parseToken(token)
	if err != nil {
		return nil, nil
	}
	session, err := s.sessions.Fetch(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, nil
	}
	session.Token = token
	return session, nil
}

// invalidateSession revokes sid and notifies every subscriber bound to it.
func (s *Service) invalidateSession(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return err
	}
	s.hub.publish(sid, domain.SessionChange{Kind: domain.SessionSignedOut})
	return nil
}

// IssuePasswordlessLink mints a one-time sign-in token for email and mails
// the resulting link. The email is not validated against existing accounts;
// redeeming provisions one on demand, and the uniform success response avoids
// account enumeration.
func (s *Service) IssuePasswordlessLink(ctx context.Context, email, returnURL string) error {
	if email == "" {
		return domain.ErrInvalidCredentials
	}
	token := uuid.NewString()
	link := storeredis.PasswordlessLink{Email: email, ReturnURL: returnURL}
	if err := s.links.Save(ctx, token, link, s.linkTTL); err != nil {
		return fmt.Errorf("issue link: %w", err)
	}
	linkURL := fmt.Sprintf("%s?token=%s", s.linkBase, token)
	if err := s.mailer.SendSignInLink(ctx, email, linkURL); err != nil {
		return fmt.Errorf("issue link: %w", err)
	}
	return nil
}

// RedeemPasswordlessLink consumes a one-time token and signs its owner in,
// provisioning an account for first-time emails. The returned session carries
// its transport token.
func (s *Service) RedeemPasswordlessLink(ctx context.Context, token string) (*domain.Session, string, error) {
	link, err := s.links.Consume(ctx, token)
	if err != nil {
		return nil, "", err
	}

	account, err := s.accounts.FindByEmail(ctx, link.Email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		account = &Account{
			ID:        uuid.NewString(),
			Email:     link.Email,
			CreatedAt: time.Now().UTC(),
		}
		if createErr := s.accounts.Create(ctx, account); createErr != nil {
			if !errors.Is(createErr, domain.ErrAccountExists) {
				return nil, "", fmt.Errorf("redeem link: %w", createErr)
			}
			// Concurrent redeem created it first.
			account, err = s.accounts.FindByEmail(ctx, link.Email)
			if err != nil {
				return nil, "", fmt.Errorf("redeem link: %w", err)
			}
		}
	} else if err != nil {
		return nil, "", fmt.Errorf("redeem link: %w", err)
	}

	session, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, "", err
	}
	return session, link.ReturnURL, nil
}

// LogMailer writes sign-in links to the log instead of sending email.
type LogMailer struct {
	Log zerolog.Logger
}

func (m LogMailer) SendSignInLink(_ context.Context, email, linkURL string) error {
	m.Log.Info().Str("email", email).Str("link", linkURL).Msg("passwordless sign-in link issued")
	return nil
}
