package login

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// blacklist for manual logout (token -> expiry). Not persisted; acceptable
// for the scale of this service.
var (
	blacklistMu sync.Mutex
	blacklist   = map[string]int64{}
)

// tokenPayload minimal JWT-like payload
type tokenPayload struct {
	Sub string `json:"sub"` // username
	Exp int64  `json:"exp"`
	Rem bool   `json:"rem"` // remember flag
	Jti string `json:"jti"` // unique id
}

func sessionDuration(remember bool) time.Duration {
	defHours := 12
	if v := os.Getenv("SESSION_DEFAULT_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			defHours = n
		}
	}
	remDays := 30
	if v := os.Getenv("SESSION_REMEMBER_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			remDays = n
		}
	}
	if remember {
		return time.Hour * 24 * time.Duration(remDays)
	}
	return time.Hour * time.Duration(defHours)
}

func sessionSecret() []byte {
	s := os.Getenv("SESSION_SECRET")
	if s == "" {
		s = "dev-insecure-secret"
	}
	return []byte(s)
}

// SignToken issues an HMAC-signed bearer token for the username. Exported so
// the external-identity handler and tests can mint tokens.
func SignToken(username string, dur time.Duration, remember bool) (string, int64) {
	exp := time.Now().Add(dur).Unix()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payloadBytes, _ := json.Marshal(tokenPayload{Sub: username, Exp: exp, Rem: remember, Jti: generateJTI()})
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	mac := hmac.New(sha256.New, sessionSecret())
	mac.Write([]byte(header + "." + payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return header + "." + payload + "." + sig, exp
}

func parseToken(token string) (tokenPayload, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return tokenPayload{}, false
	}
	unsigned := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, sessionSecret())
	mac.Write([]byte(unsigned))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return tokenPayload{}, false
	}
	pb, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return tokenPayload{}, false
	}
	var tp tokenPayload
	if err := json.Unmarshal(pb, &tp); err != nil {
		return tokenPayload{}, false
	}
	if tp.Exp < time.Now().Unix() {
		return tokenPayload{}, false
	}
	blacklistMu.Lock()
	exp, blocked := blacklist[token]
	blacklistMu.Unlock()
	if blocked && exp >= time.Now().Unix() {
		return tokenPayload{}, false
	}
	return tp, true
}

func revokeToken(token string, exp int64) {
	blacklistMu.Lock()
	blacklist[token] = exp
	blacklistMu.Unlock()
}

func generateJTI() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102150405")
	}
	return hex.EncodeToString(b)
}

// UsernameFromToken validates signature + expiry and returns the subject.
func UsernameFromToken(token string) (string, bool) {
	tp, ok := parseToken(token)
	if !ok {
		return "", false
	}
	return tp.Sub, true
}
