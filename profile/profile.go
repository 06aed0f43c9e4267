package profile

import (
	"net/http"

	"tripcraft-backend/accounts"
	"tripcraft-backend/login"
	"tripcraft-backend/trips"

	"github.com/gin-gonic/gin"
)

// Handler serves account usage stats for the dashboard.
type Handler struct {
	users accounts.Store
	trips trips.Store
}

func NewHandler(users accounts.Store, tripStore trips.Store) *Handler {
	return &Handler{users: users, trips: tripStore}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/api/user/stats", auth, h.stats)
}

func (h *Handler) stats(c *gin.Context) {
	user := login.UserFrom(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	total, err := h.trips.CountByUser(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user stats"})
		return
	}
	// The client renders "Unlimited" verbatim for the ultimate tier.
	remaining := any(user.Credits.Remaining())
	if user.Credits.IsUnlimited() {
		remaining = "Unlimited"
	}
	c.JSON(http.StatusOK, gin.H{
		"totalTrips":     total,
		"remainingTrips": remaining,
		"packageType":    user.PackageType,
		"packageName":    accounts.PackageName(user.PackageType),
	})
}
