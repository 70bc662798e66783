package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/samber/lo"

	"github.com/souzafcharles/spatialdata/internal/core/domain"
	"github.com/souzafcharles/spatialdata/internal/pkg/geospatial"
)

// geometryScalar passes encoded geometry documents through as JSON.
var geometryScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Geometry",
	Description: "A {type, coordinates} geometry document, or null",
	Serialize:   func(v interface{}) interface{} { return v },
})

func idArg(p graphql.ResolveParams) (int64, error) {
	return strconv.ParseInt(p.Args["id"].(string), 10, 64)
}

// buildSchema creates the GraphQL schema over spatial records.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	recordType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SpatialData",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"point":           &graphql.Field{Type: geometryScalar},
			"multiPoint":      &graphql.Field{Type: geometryScalar},
			"lineString":      &graphql.Field{Type: geometryScalar},
			"multiLineString": &graphql.Field{Type: geometryScalar},
			"polygon":         &graphql.Field{Type: geometryScalar},
			"multiPolygon":    &graphql.Field{Type: geometryScalar},
			"createdAt":       &graphql.Field{Type: graphql.DateTime},
		},
	})

	featureType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PolygonFeature",
		Fields: graphql.Fields{
			"type":     &graphql.Field{Type: graphql.String},
			"geometry": &graphql.Field{Type: geometryScalar},
			"description": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f, ok := p.Source.(*geospatial.Feature)
					if !ok {
						return nil, nil
					}
					return f.Properties["description"], nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"spatialData": &graphql.Field{
				Type:        recordType,
				Description: "Get a record by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p)
					if err != nil {
						return nil, err
					}
					rec, err := deps.SpatialData.GetByID(p.Context, id)
					if err != nil {
						return nil, err
					}
					return toResponse(*rec), nil
				},
			},
			"spatialDataList": &graphql.Field{
				Type:        graphql.NewList(recordType),
				Description: "List records ordered by ID",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultPageLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					records, _, err := deps.SpatialData.List(p.Context, p.Args["offset"].(int), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					return lo.Map(records, func(r domain.SpatialRecord, _ int) SpatialDataResponse {
						return toResponse(r)
					}), nil
				},
			},
			"polygonFeature": &graphql.Field{
				Type:        featureType,
				Description: "The record's polygon as a GeoJSON Feature",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p)
					if err != nil {
						return nil, err
					}
					return deps.SpatialData.GetPolygonAsGeoJSON(p.Context, id)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})
		return c.JSON(result)
	}
}
