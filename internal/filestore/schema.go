package filestore

import (
	"github.com/hashicorp/go-memdb"

	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// indexID is the unique primary index present on every table.
const indexID = "id"

// foreignKeys lists the secondary indexes per class: attribute name to the
// struct field it reads. Where uses them for relationship lookups.
var foreignKeys = map[string]map[string]string{
	types.ClassCity:   {"state_id": "StateID"},
	types.ClassPlace:  {"city_id": "CityID", "user_id": "UserID"},
	types.ClassReview: {"place_id": "PlaceID", "user_id": "UserID"},
}

// schema builds one memdb table per registered class.
func schema() *memdb.DBSchema {
	tables := make(map[string]*memdb.TableSchema)
	for _, class := range types.Classes() {
		indexes := map[string]*memdb.IndexSchema{
			indexID: {
				Name:    indexID,
				Unique:  true,
				Indexer: &memdb.StringFieldIndex{Field: "ID"},
			},
		}
		for attr, field := range foreignKeys[class] {
			indexes[attr] = &memdb.IndexSchema{
				Name:         attr,
				AllowMissing: true,
				Indexer:      &memdb.StringFieldIndex{Field: field},
			}
		}
		tables[class] = &memdb.TableSchema{Name: class, Indexes: indexes}
	}
	return &memdb.DBSchema{Tables: tables}
}

// hasIndex reports whether class has a secondary index on attr.
func hasIndex(class, attr string) bool {
	_, ok := foreignKeys[class][attr]
	return ok
}
