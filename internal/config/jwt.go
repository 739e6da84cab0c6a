package config

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

// loadPEM returns the inline PEM value or the contents of file. It returns
// nil when neither is set.
func loadPEM(value, file, name string) ([]byte, error) {
	if value != "" {
		return []byte(value), nil
	}
	if file == "" {
		return nil, nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT %s key: %w", name, err)
	}
	return b, nil
}

// NewJWT loads the RS256 key pair. Without a configured private key an
// ephemeral pair is generated, so tokens die with the process along with the
// sessions they point to.
func NewJWT(opts JWTOptions) (*JWT, error) {
	j := &JWT{
		signingMethod: jwt.SigningMethodRS256,
		tokenLifetime: opts.TokenLifetime,
	}
	if j.tokenLifetime <= 0 {
		j.tokenLifetime = 24 * time.Hour
	}

	privatePEM, err := loadPEM(opts.PrivateKey, opts.PrivateKeyFile, "private")
	if err != nil {
		return nil, err
	}
	if privatePEM == nil {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, fmt.Errorf("unable to generate JWT key: %w", err)
		}
		j.privateKey, j.publicKey = key, &key.PublicKey
		return j, nil
	}
	if j.privateKey, err = jwt.ParseRSAPrivateKeyFromPEM(privatePEM); err != nil {
		return nil, fmt.Errorf("invalid JWT private key: %w", err)
	}

	publicPEM, err := loadPEM(opts.PublicKey, opts.PublicKeyFile, "public")
	if err != nil {
		return nil, err
	}
	if publicPEM == nil {
		j.publicKey = &j.privateKey.PublicKey
		return j, nil
	}
	if j.publicKey, err = jwt.ParseRSAPublicKeyFromPEM(publicPEM); err != nil {
		return nil, fmt.Errorf("invalid JWT public key: %w", err)
	}
	return j, nil
}

func (j *JWT) TokenLifetime() time.Duration {
	return j.tokenLifetime
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
}
