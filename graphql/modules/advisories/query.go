// Package advisories defines the GraphQL queries for advisory management.
package advisories

import (
	"github.com/graphql-go/graphql"

	"github.com/release-eng/advisory-sync/internal/engine"
)

// GetQueryFields returns the advisory queries to be mounted in the root
// schema. The engine is resolved lazily so schema construction does not
// depend on wiring order.
func GetQueryFields(eng func() *engine.Engine) graphql.Fields {
	return graphql.Fields{
		"advisory": &graphql.Field{
			Type: AdvisoryType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id := p.Args["id"].(int)
				return ResolveAdvisory(p.Context, eng(), id)
			},
		},
		"openAdvisories": &graphql.Field{
			Type: graphql.NewList(AdvisoryType),
			Args: graphql.FieldConfigArgument{
				"type":    &graphql.ArgumentConfig{Type: graphql.String},
				"product": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				filter := engine.AdvisoryFilter{}
				if t, ok := p.Args["type"].(string); ok {
					filter.Type = t
				}
				if pr, ok := p.Args["product"].(string); ok {
					filter.ProductLine = pr
				}
				return ResolveOpenAdvisories(p.Context, eng(), filter)
			},
		},
		"releaseHistory": &graphql.Field{
			Type: graphql.NewList(ReleaseHistoryEntryType),
			Args: graphql.FieldConfigArgument{
				"group": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				group := p.Args["group"].(string)
				return ResolveReleaseHistory(p.Context, eng(), group)
			},
		},
		"nextReleaseDate": &graphql.Field{
			Type: graphql.String,
			Args: graphql.FieldConfigArgument{
				"group": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"date":  &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				group := p.Args["group"].(string)
				explicit, _ := p.Args["date"].(string)
				return ResolveNextReleaseDate(p.Context, eng(), group, explicit)
			},
		},
	}
}
