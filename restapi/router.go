// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/release-eng/advisory-sync/internal/engine"
	"github.com/release-eng/advisory-sync/restapi/modules/bugs"
	"github.com/release-eng/advisory-sync/restapi/modules/builds"
	"github.com/release-eng/advisory-sync/restapi/modules/schedule"
)

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
func SetupRoutes(app *fiber.App, eng *engine.Engine, groupDir string, schema graphql.Schema) {
	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - Mounted within the api group to inherit path prefixes
	api.Post("/graphql", GraphQLHandler(schema))

	// Candidate resolution and synchronization
	api.Post("/builds/resolve", builds.PostResolve(eng, groupDir))
	api.Post("/bugs/resolve", bugs.PostResolve(eng, groupDir))
	api.Post("/bugs/repair", bugs.PostRepair(eng, groupDir))

	// Release scheduling and advisory parameter derivation
	api.Get("/schedule/:group/next", schedule.GetNextReleaseDate(eng))
	api.Post("/schedule/advisory-params", schedule.PostAdvisoryParams(eng, groupDir))

	log.Println("API routes initialized successfully")
}
