package identity

import (
	"context"
	"sync"

	"github.com/samaraworks/portal-api/internal/core/domain"
)

// Client is the session-scoped view of the identity backend handed to one
// resolver. It implements ports.IdentityClient.
type Client struct {
	svc *Service

	mu       sync.Mutex
	token    string
	sid      string
	handlers map[int]func(domain.SessionChange)
	nextID   int
	hubUnsub func()
}

// Token returns the raw transport token for the bound session, or "" when
// none is held.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// CurrentSession returns the live session for this client, or (nil, nil) when
// the token is absent, invalid, revoked, or expired.
func (c *Client) CurrentSession(ctx context.Context) (*domain.Session, error) {
	return c.svc.lookupSession(ctx, c.Token())
}

// SubscribeSessionChanges registers handler for this client's session events.
func (c *Client) SubscribeSessionChanges(handler func(domain.SessionChange)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = handler
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}
}

// VerifyCredentials checks the credentials and, on success, binds the new
// session to this client and announces it through the subscription.
func (c *Client) VerifyCredentials(ctx context.Context, email, secret string) error {
	account, err := c.svc.verifyCredentials(ctx, email, secret)
	if err != nil {
		return err
	}
	session, err := c.svc.issueSession(ctx, account)
	if err != nil {
		return err
	}
	c.rebind(session.Token, session.ID)
	c.dispatch(domain.SessionChange{Kind: domain.SessionSignedIn, Session: session})
	return nil
}

// IssuePasswordlessLink requests a one-time sign-in link for email.
func (c *Client) IssuePasswordlessLink(ctx context.Context, email, returnURL string) error {
	return c.svc.IssuePasswordlessLink(ctx, email, returnURL)
}

// CreateAccount requests account creation; it does not sign the caller in.
func (c *Client) CreateAccount(ctx context.Context, email, secret, displayName string) error {
	return c.svc.CreateAccount(ctx, email, secret, displayName)
}

// InvalidateSession revokes the bound session. Subscribers on every client
// bound to the same session hear the sign-out. Idempotent.
func (c *Client) InvalidateSession(ctx context.Context) error {
	c.mu.Lock()
	sid := c.sid
	c.mu.Unlock()
	return c.svc.invalidateSession(ctx, sid)
}

// bind attaches the client to the session inside token, if any, and wires the
// hub subscription so backend-side revocations reach this client.
func (c *Client) bind(token string) {
	if token == "" {
		return
	}
	sid, err := c.svc.parseToken(token)
	if err != nil {
		return
	}
	c.rebind(token, sid)
}

func (c *Client) rebind(token, sid string) {
	c.mu.Lock()
	if c.hubUnsub != nil {
		c.hubUnsub()
	}
	c.token = token
	c.sid = sid
	c.hubUnsub = c.svc.hub.subscribe(sid, c.onHubChange)
	c.mu.Unlock()
}

// onHubChange handles backend-pushed events for the bound session.
func (c *Client) onHubChange(change domain.SessionChange) {
	if change.Kind == domain.SessionSignedOut {
		c.mu.Lock()
		c.token = ""
		c.sid = ""
		if c.hubUnsub != nil {
			c.hubUnsub()
			c.hubUnsub = nil
		}
		c.mu.Unlock()
	}
	c.dispatch(change)
}

// dispatch runs handlers outside the lock; a handler may call back into the
// client.
func (c *Client) dispatch(change domain.SessionChange) {
	c.mu.Lock()
	handlers := make([]func(domain.SessionChange), 0, len(c.handlers))
	for _, fn := range c.handlers {
		handlers = append(handlers, fn)
	}
	c.mu.Unlock()

	for _, fn := range handlers {
		fn(change)
	}
}
