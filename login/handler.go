package login

import (
	"log"
	"net/http"
	"strings"
	"time"

	"tripcraft-backend/accounts"
	"tripcraft-backend/email"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "auth_user"

// Handler owns the credential and external-identity endpoints.
type Handler struct {
	users accounts.Store
}

func NewHandler(users accounts.Store) *Handler {
	return &Handler{users: users}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/register", h.register)
	r.POST("/api/login", h.login)
	r.POST("/api/logout", h.logout)
	r.GET("/api/user", h.session)
	r.POST("/api/auth/external", h.externalIdentity)
}

// Middleware resolves the bearer token to an account and aborts with 401
// when it can't.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		username, ok := UsernameFromToken(token)
		if token == "" || !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}
		u, err := h.users.GetByUsername(username)
		if err != nil || u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}
		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// UserFrom returns the account the middleware resolved for this request.
func UserFrom(c *gin.Context) *accounts.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*accounts.User); ok {
			return u
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

type registerPayload struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (h *Handler) register(c *gin.Context) {
	var p registerPayload
	if err := c.ShouldBindJSON(&p); err != nil || p.Username == "" || p.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration data"})
		return
	}
	if err := validatePassword(p.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}
	p.Username = strings.TrimSpace(p.Username)
	existing, err := h.users.GetByUsername(p.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate username"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		return
	}
	hash, err := HashPassword(p.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	u := &accounts.User{Username: p.Username, Password: hash, Email: p.Email, DisplayName: p.DisplayName}
	if err := h.users.Create(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if u.Email != "" {
		if err := email.SendWelcome(u.Email); err != nil {
			log.Printf("[login][email] welcome to %s failed: %v", u.Email, err)
		}
	}
	token, exp := SignToken(u.Username, sessionDuration(false), false)
	c.JSON(http.StatusCreated, gin.H{"token": token, "expires_at": exp, "user": userResponse(u)})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func (h *Handler) login(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials payload"})
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)
	u, err := h.users.GetByUsername(creds.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if u == nil || !ComparePassword(creds.Password, u.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	token, exp := SignToken(u.Username, sessionDuration(creds.Remember), creds.Remember)
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp, "remember": creds.Remember, "user": userResponse(u)})
}

func (h *Handler) logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
		return
	}
	if tp, ok := parseToken(token); ok {
		revokeToken(token, tp.Exp)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) session(c *gin.Context) {
	token := bearerToken(c)
	username, ok := UsernameFromToken(token)
	if token == "" || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	u, err := h.users.GetByUsername(username)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResponse(u)})
}

type externalPayload struct {
	ProviderID  string `json:"providerId"`
	UID         string `json:"uid"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// externalIdentity signs in with an OAuth-style identity. First sighting of
// a provider/uid pair creates the account; later sightings look it up. If
// the suggested username already belongs to a local account, the identity is
// linked to that account instead of being rejected.
func (h *Handler) externalIdentity(c *gin.Context) {
	var p externalPayload
	if err := c.ShouldBindJSON(&p); err != nil || p.ProviderID == "" || p.UID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing provider identity"})
		return
	}
	u, err := h.users.GetByProviderID(p.ProviderID, p.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
		return
	}
	status := http.StatusOK
	if u == nil {
		username := p.Username
		if username == "" {
			username = p.Email
		}
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username"})
			return
		}
		existing, err := h.users.GetByUsername(username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
			return
		}
		if existing != nil {
			// Same local username: link, don't reject.
			if err := h.users.LinkExternalIdentity(existing.ID, p.ProviderID, p.UID, p.PhotoURL, p.DisplayName); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
				return
			}
			u, err = h.users.GetByID(existing.ID)
			if err != nil || u == nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
				return
			}
			log.Printf("[login][external] linked provider=%s to account=%d", p.ProviderID, u.ID)
		} else {
			// Random local password; the account is only reachable
			// through the external identity until one is set.
			hash, err := HashPassword(generateJTI())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
				return
			}
			u = &accounts.User{
				Username:    username,
				Password:    hash,
				Email:       p.Email,
				DisplayName: p.DisplayName,
				PhotoURL:    p.PhotoURL,
				ProviderID:  p.ProviderID,
				UID:         p.UID,
			}
			if err := h.users.Create(u); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
				return
			}
			status = http.StatusCreated
			log.Printf("[login][external] created account=%d provider=%s", u.ID, p.ProviderID)
		}
	}
	token, exp := SignToken(u.Username, sessionDuration(true), true)
	c.JSON(status, gin.H{"token": token, "expires_at": exp, "user": userResponse(u)})
}

func userResponse(u *accounts.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"displayName": u.DisplayName,
		"photoURL":    u.PhotoURL,
		"packageType": u.PackageType,
		"created_at":  u.CreatedAt.Format(time.RFC3339),
	}
}
