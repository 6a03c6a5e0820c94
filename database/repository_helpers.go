package database

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const TYPE = "$type"

// getSoftDeleteQuery restricts a query to documents that have not been soft
// deleted. BSON type 10 is null: the deleted field exists but carries no date.
func getSoftDeleteQuery(query bson.M) bson.M {
	return bson.M{
		AND: []any{
			query,
			bson.M{DELETED: bson.M{TYPE: 10}},
		},
	}
}

func toBsonMap(v any) (doc bson.M, err error) {
	if v == nil {
		return bson.M{}, nil
	}

	if bsonMap, ok := v.(bson.M); ok {
		return bsonMap, nil
	}

	data, err := bson.Marshal(v)
	if err != nil {
		return
	}

	err = bson.Unmarshal(data, &doc)
	return doc, err
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
