package media

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/rahulkpr2510/droply/internal/config"

	"github.com/google/uuid"
)

// AuthParams are the signed upload-authentication parameters a client must
// present to the media CDN to push file bytes directly. The structure is
// opaque to the rest of the application; it is returned to the client as-is.
type AuthParams struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// UploadAuthorizer issues signed upload-authentication parameters.
type UploadAuthorizer interface {
	AuthParams() (AuthParams, error)
}

// ImageKitAuthorizer signs upload tokens for the ImageKit CDN. The signature
// is an HMAC-SHA1 of token+expire keyed by the account's private key, per
// ImageKit's client-side upload contract.
type ImageKitAuthorizer struct {
	privateKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewImageKitAuthorizer creates an authorizer from the ImageKit configuration.
// ImageKit rejects expiry timestamps more than an hour ahead, so the token
// lifetime is capped accordingly.
func NewImageKitAuthorizer(cfg config.ImageKit) (*ImageKitAuthorizer, error) {
	if cfg.PrivateKey == "" {
		return nil, errors.New("imagekit private key is not configured")
	}
	return &ImageKitAuthorizer{
		privateKey: []byte(cfg.PrivateKey),
		ttl:        30 * time.Minute,
		now:        time.Now,
	}, nil
}

// AuthParams generates a fresh token, expiry, and signature.
func (a *ImageKitAuthorizer) AuthParams() (AuthParams, error) {
	token := uuid.NewString()
	expire := a.now().Add(a.ttl).Unix()

	return AuthParams{
		Token:     token,
		Expire:    expire,
		Signature: a.sign(token, expire),
	}, nil
}

// sign computes the hex HMAC-SHA1 over the concatenated token and expiry.
func (a *ImageKitAuthorizer) sign(token string, expire int64) string {
	mac := hmac.New(sha1.New, a.privateKey)
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
