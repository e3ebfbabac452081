package controllers

import (
	"net/http"
	"strconv"

	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/pkg/response"
	"github.com/rsharma-dev/inventra/pkg/ws"
)

type ActivityController struct {
	repo repositories.ActivityRepository
	hub  *ws.Hub
}

func NewActivityController(repo repositories.ActivityRepository, hub *ws.Hub) *ActivityController {
	return &ActivityController{repo: repo, hub: hub}
}

// Index lists the newest activity with ?entityType, ?action, ?limit.
func (c *ActivityController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)

	items, err := c.repo.List(r.Context(), repositories.ActivityQuery{
		EntityType: q.Get("entityType"),
		Action:     q.Get("action"),
		Limit:      limit,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, items)
}

// ByUser lists the last 50 records for one user.
func (c *ActivityController) ByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "userId")
	if !ok {
		response.Error(w, http.StatusNotFound, "User not found")
		return
	}
	items, err := c.repo.ListByUser(r.Context(), id, 50)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, items)
}

// Stream upgrades to a WebSocket that receives every new activity record.
func (c *ActivityController) Stream(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, c.hub)
}
