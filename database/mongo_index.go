package database

// MongoIndexDefinition represents a MongoDB index with the options this
// application uses.
type MongoIndexDefinition struct {
	IndexDefinition

	Sparse bool // Only index documents that have the indexed field
	Unique bool // Enforce uniqueness
}

// NewMongoSimpleIndex creates a simple ascending index on a single field
func NewMongoSimpleIndex(fieldName string, unique bool) MongoIndexDefinition {
	return MongoIndexDefinition{
		IndexDefinition: IndexDefinition{
			Name:   fieldName + "_1",
			Fields: []IndexField{{Name: fieldName, Order: 1}},
			Unique: unique,
		},
		Unique: unique,
	}
}

// NewMongoCompoundIndex creates a compound index on multiple fields
func NewMongoCompoundIndex(name string, fields []IndexField, unique bool) MongoIndexDefinition {
	return MongoIndexDefinition{
		IndexDefinition: IndexDefinition{
			Name:   name,
			Fields: fields,
			Unique: unique,
		},
		Unique: unique,
	}
}
