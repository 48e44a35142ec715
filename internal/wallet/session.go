package wallet

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const issuer = "mindengage-learner"

var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrBadToken       = errors.New("bad session token")
)

var addressRE = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidAddress checks the 0x-prefixed, 20-byte hex form.
func ValidAddress(a string) bool { return addressRE.MatchString(a) }

// SameAddress compares addresses case-insensitively (checksum casing differs).
func SameAddress(a, b string) bool { return strings.EqualFold(a, b) }

type Claims struct {
	Address string `json:"addr"`
	jwt.RegisteredClaims
}

// Session is the learner's connected wallet: an address plus the capability
// to sign requests on its behalf. It is an oauth2.TokenSource, so it plugs
// straight into oauth2.NewClient.
type Session struct {
	Address string

	hmac []byte
	ttl  time.Duration
	now  func() time.Time
}

func NewSession(address, secret string) (*Session, error) {
	if !ValidAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if secret == "" {
		return nil, errors.New("empty signing secret")
	}
	return &Session{Address: address, hmac: []byte(secret), ttl: 15 * time.Minute, now: time.Now}, nil
}

// Token mints a short-lived HS256 bearer token for the session address.
func (s *Session) Token() (*oauth2.Token, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := &Claims{
		Address: s.Address,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.Address,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.hmac)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: signed, TokenType: "Bearer", Expiry: exp}, nil
}

// Verifier checks session tokens on the relay side.
type Verifier struct{ hmac []byte }

func NewVerifier(secret string) *Verifier { return &Verifier{hmac: []byte(secret)} }

func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	c := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, c, func(t *jwt.Token) (interface{}, error) {
		return v.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	if !token.Valid || !ValidAddress(c.Address) {
		return nil, ErrBadToken
	}
	return c, nil
}
