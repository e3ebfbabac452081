package controllers

import (
	"net/http"

	"github.com/rsharma-dev/inventra/app/services"
	"github.com/rsharma-dev/inventra/pkg/response"
)

type AnalyticsController struct {
	service *services.AnalyticsService
}

func NewAnalyticsController(service *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{service: service}
}

func (c *AnalyticsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := c.service.Dashboard(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, d)
}

func (c *AnalyticsController) Inventory(w http.ResponseWriter, r *http.Request) {
	rep, err := c.service.Inventory(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, rep)
}
