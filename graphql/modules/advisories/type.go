// Package advisories defines the GraphQL types for advisory queries.
package advisories

import "github.com/graphql-go/graphql"

// AdvisoryType represents one advisory with its attachment set.
var AdvisoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Advisory",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.Int},
		"type":          &graphql.Field{Type: graphql.String},
		"synopsis":      &graphql.Field{Type: graphql.String},
		"state":         &graphql.Field{Type: graphql.String},
		"release_date":  &graphql.Field{Type: graphql.String},
		"attached_nvrs": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"attached_bugs": &graphql.Field{Type: graphql.NewList(graphql.Int)},
	},
})

// ReleaseHistoryEntryType represents one prior release of a product line.
var ReleaseHistoryEntryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ReleaseHistoryEntry",
	Fields: graphql.Fields{
		"synopsis":     &graphql.Field{Type: graphql.String},
		"release_date": &graphql.Field{Type: graphql.String},
	},
})
