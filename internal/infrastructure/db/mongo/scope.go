package mongo

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// Soft-delete scoping. Every query built in this package goes through exactly
// one of these two constructors, so the call site always states whether
// logically deleted rows are included. There is no session-level toggle that
// must be remembered per call.

// activeOnly restricts filter to rows whose status is not DELETED. This is
// the default read path for all lookups, listings and searches.
func activeOnly(filter bson.M) bson.M {
	if filter == nil {
		filter = bson.M{}
	}
	filter["status"] = bson.M{"$ne": string(domain.StatusDeleted)}
	return filter
}

// includingDeleted leaves filter unscoped. It exists so administrative reads
// of deleted rows are spelled out rather than implied.
func includingDeleted(filter bson.M) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return filter
}
