// Package graph exposes a read-only GraphQL query surface over the
// catalogue and orders, for dashboard tooling that prefers one request
// over several REST calls. Mutations stay on the REST API.
package graph

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/pkg/response"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"stock":       &graphql.Field{Type: graphql.Int},
		"status":      &graphql.Field{Type: graphql.String},
		"imageUrl":    &graphql.Field{Type: graphql.String},
	},
})

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"productId":   &graphql.Field{Type: graphql.String},
		"productName": &graphql.Field{Type: graphql.String},
		"quantity":    &graphql.Field{Type: graphql.Int},
		"price":       &graphql.Field{Type: graphql.Float},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.String},
		"customerName":    &graphql.Field{Type: graphql.String},
		"customerEmail":   &graphql.Field{Type: graphql.String},
		"items":           &graphql.Field{Type: graphql.NewList(orderItemType)},
		"totalAmount":     &graphql.Field{Type: graphql.Float},
		"shippingAddress": &graphql.Field{Type: graphql.String},
		"status":          &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the root query over the given repositories.
func NewSchema(products repositories.ProductRepository, orders repositories.OrderRepository) (graphql.Schema, error) {
	stringArg := func(p graphql.ResolveParams, name string) string {
		if v, ok := p.Args[name].(string); ok {
			return v
		}
		return ""
	}

	root := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"status":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return products.List(p.Context, repositories.ProductQuery{
						Search:   stringArg(p, "search"),
						Category: stringArg(p, "category"),
						Status:   stringArg(p, "status"),
						Desc:     true,
					})
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := primitive.ObjectIDFromHex(stringArg(p, "id"))
					if err != nil {
						return nil, fmt.Errorf("invalid product id")
					}
					return products.Get(p.Context, id)
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return orders.List(p.Context, repositories.OrderQuery{
						Status: stringArg(p, "status"),
						Desc:   true,
					})
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := primitive.ObjectIDFromHex(stringArg(p, "id"))
					if err != nil {
						return nil, fmt.Errorf("invalid order id")
					}
					return orders.Get(p.Context, id)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: root})
}

// Handler serves POST requests carrying {"query": ..., "variables": ...}.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid GraphQL request")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})
		response.JSON(w, result)
	}
}
