package session

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gorilla/securecookie"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/env"
)

// Codec signs (and optionally encrypts) the serialized user record so the
// browser cannot grant itself the pro flag.
type Codec struct {
	sc *securecookie.SecureCookie
}

func NewCodec(hashKey, blockKey []byte) *Codec {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(CookieTTL.Seconds()))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &Codec{sc: sc}
}

// NewCodecFromEnv reads COOKIE_HASH_KEY (required outside dev) and COOKIE_BLOCK_KEY.
func NewCodecFromEnv() (*Codec, error) {
	hashKey := []byte(env.GetEnv("COOKIE_HASH_KEY", ""))
	blockKey := []byte(env.GetEnv("COOKIE_BLOCK_KEY", ""))

	if len(hashKey) == 0 {
		if !env.IsDev() {
			return nil, fmt.Errorf("COOKIE_HASH_KEY is required")
		}
		log.Warn("[Session] COOKIE_HASH_KEY not set, using a random key; sessions end on restart")
		hashKey = securecookie.GenerateRandomKey(64)
	}
	switch len(blockKey) {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("COOKIE_BLOCK_KEY must be 16, 24 or 32 bytes, got %d", len(blockKey))
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}
	return NewCodec(hashKey, blockKey), nil
}

func (c *Codec) EncodeUser(u *models.User) (string, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return c.sc.Encode(CookieUser, string(raw))
}

func (c *Codec) DecodeUser(value string) (*models.User, error) {
	var raw string
	if err := c.sc.Decode(CookieUser, value, &raw); err != nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
