package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	apperrors "github.com/eventhub/eventhub/internal/errors"
)

// Codec issues and verifies the two token classes. Access and refresh
// tokens are signed with distinct secrets so that compromise of one class
// does not compromise the other. Tokens are self-contained: the server
// keeps no revocation list, so a leaked token stays valid until its own
// expiry.
type Codec struct {
	access     Signer
	refresh    Signer
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowFunc    func() time.Time
}

type CodecOption func(*Codec)

func WithTokenExpiry(accessTTL, refreshTTL time.Duration) CodecOption {
	return func(c *Codec) {
		c.accessTTL = accessTTL
		c.refreshTTL = refreshTTL
	}
}

func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(accessSigner, refreshSigner Signer, options ...CodecOption) *Codec {
	c := &Codec{
		access:  accessSigner,
		refresh: refreshSigner,
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(c)
	}

	if c.accessTTL == 0 {
		c.accessTTL = 15 * time.Second
	}
	if c.refreshTTL == 0 {
		c.refreshTTL = 365 * 24 * time.Hour
	}
	return c
}

// IssueAccess signs a short-lived access token for the identity.
func (c *Codec) IssueAccess(identity Identity) (string, error) {
	return c.issue(c.access, identity, c.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the identity.
func (c *Codec) IssueRefresh(identity Identity) (string, error) {
	return c.issue(c.refresh, identity, c.refreshTTL)
}

func (c *Codec) issue(signer Signer, identity Identity, ttl time.Duration) (string, error) {
	now := c.nowFunc()
	claims := Claims{
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Codec issue] Sign")
	}
	return signed, nil
}

// VerifyAccess validates an access token against the access secret.
// Every signature, parsing, and expiry failure collapses to
// ErrInvalidToken so callers implement a single branch.
func (c *Codec) VerifyAccess(raw string) (*Identity, error) {
	return c.verify(c.access, raw)
}

// VerifyRefresh validates a refresh token against the refresh secret.
func (c *Codec) VerifyRefresh(raw string) (*Identity, error) {
	return c.verify(c.refresh, raw)
}

func (c *Codec) verify(signer Signer, raw string) (*Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, signer.GetVerificationKey,
		jwt.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, apperrors.ErrInvalidToken
	}

	return &Identity{ID: claims.Subject, Role: claims.Role}, nil
}
