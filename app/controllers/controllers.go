// Package controllers translates HTTP requests into service calls:
// bind and validate the body, resolve the actor, call the service, map
// the result (or typed error) onto the wire.
package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rsharma-dev/inventra/app/services"
	"github.com/rsharma-dev/inventra/pkg/middleware"
)

// actorFrom resolves the authenticated actor from the request context.
// Routes behind the auth middleware always have claims; a zero Actor is
// returned for the few unauthenticated paths.
func actorFrom(r *http.Request) services.Actor {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		return services.Actor{}
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return services.Actor{Name: claims.Name}
	}
	return services.Actor{ID: id, Name: claims.Name}
}

// sortDesc resolves the list sort direction: an explicit sortBy is
// ascending unless ?order=desc, while the createdAt fallback is always
// newest first.
func sortDesc(sortBy, order string) bool {
	if sortBy == "" {
		return true
	}
	return order == "desc"
}

// idParam parses the {id} route parameter as an ObjectID.
func idParam(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	return id, err == nil
}
