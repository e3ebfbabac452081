package controllers

import (
	"net/http"

	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/app/services"
	"github.com/rsharma-dev/inventra/pkg/bind"
	"github.com/rsharma-dev/inventra/pkg/response"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Index lists products with ?search, ?category, ?status, ?sortBy, ?order.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := repositories.ProductQuery{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
		SortBy:   q.Get("sortBy"),
		Desc:     sortDesc(q.Get("sortBy"), q.Get("order")),
	}

	products, err := c.service.List(r.Context(), query)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, products)
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	p, err := c.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, p)
}

func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.CreateProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.service.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, p)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	var in services.UpdateProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.service.Update(r.Context(), actorFrom(r), id, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, p)
}

func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	if err := c.service.Delete(r.Context(), actorFrom(r), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Product deleted")
}
