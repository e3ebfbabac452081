package controllers

import (
	"net/http"

	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/app/services"
	"github.com/rsharma-dev/inventra/pkg/bind"
	"github.com/rsharma-dev/inventra/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := repositories.OrderQuery{
		Status: q.Get("status"),
		SortBy: q.Get("sortBy"),
		Desc:   sortDesc(q.Get("sortBy"), q.Get("order")),
	}

	orders, err := c.service.List(r.Context(), query)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, orders)
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, http.StatusNotFound, "Order not found")
		return
	}
	o, err := c.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, o)
}

func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.PlaceOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	o, err := c.service.Place(r.Context(), actorFrom(r), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, o)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, http.StatusNotFound, "Order not found")
		return
	}

	var in services.UpdateOrderStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	o, err := c.service.UpdateStatus(r.Context(), actorFrom(r), id, in.Status)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, o)
}

func (c *OrderController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, http.StatusNotFound, "Order not found")
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Order deleted")
}
