package trips

import (
	"net/http"
	"strconv"

	"tripcraft-backend/login"

	"github.com/gin-gonic/gin"
)

// Handler serves stored itineraries. Fetch-by-id is public (trips are shared
// by link in the demo flow); the list endpoint is scoped to the caller.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/api/trips/:id", h.getTrip)
	r.GET("/api/trips", auth, h.listTrips)
}

func (h *Handler) getTrip(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip id"})
		return
	}
	trip, err := h.store.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trip"})
		return
	}
	if trip == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) listTrips(c *gin.Context) {
	user := login.UserFrom(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	list, err := h.store.ListByUser(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trips"})
		return
	}
	c.JSON(http.StatusOK, list)
}
