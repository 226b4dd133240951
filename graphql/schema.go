// Package graphql assembles the root schema for the read-only query
// surface.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/release-eng/advisory-sync/graphql/modules/advisories"
	"github.com/release-eng/advisory-sync/internal/engine"
)

var eng *engine.Engine

// Init stores the engine used by the resolvers.
func Init(e *engine.Engine) {
	eng = e
}

// CreateSchema builds the root query schema from the module query fields.
func CreateSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}
	for name, field := range advisories.GetQueryFields(func() *engine.Engine { return eng }) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}
