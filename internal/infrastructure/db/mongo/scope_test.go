package mongo

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestActiveOnly(t *testing.T) {
	filter := activeOnly(bson.M{"username": "alice"})
	want := bson.M{
		"username": "alice",
		"status":   bson.M{"$ne": "deleted"},
	}
	if !reflect.DeepEqual(filter, want) {
		t.Fatalf("activeOnly = %v, want %v", filter, want)
	}
}

func TestActiveOnly_NilFilter(t *testing.T) {
	filter := activeOnly(nil)
	if !reflect.DeepEqual(filter, bson.M{"status": bson.M{"$ne": "deleted"}}) {
		t.Fatalf("unexpected filter: %v", filter)
	}
}

func TestIncludingDeleted_LeavesFilterUnscoped(t *testing.T) {
	filter := includingDeleted(bson.M{"_id": "x"})
	if _, scoped := filter["status"]; scoped {
		t.Fatalf("includingDeleted must not add a status condition: %v", filter)
	}
	if includingDeleted(nil) == nil {
		t.Fatalf("nil filter should become an empty filter")
	}
}
