package controllers

import (
	"net/http"

	"github.com/rsharma-dev/inventra/app/services"
	"github.com/rsharma-dev/inventra/pkg/bind"
	"github.com/rsharma-dev/inventra/pkg/response"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	users, err := c.service.List(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, users)
}

func (c *UserController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.Stats(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, stats)
}

func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, http.StatusNotFound, "User not found")
		return
	}
	u, err := c.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, u)
}

func (c *UserController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, http.StatusNotFound, "User not found")
		return
	}

	var in services.UpdateRoleInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	u, err := c.service.UpdateRole(r.Context(), id, in.Role)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, u)
}

func (c *UserController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "User deleted")
}
