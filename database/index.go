package database

// IndexField represents a field in an index
type IndexField struct {
	Name  string // Field name
	Order int    // 1 for ascending, -1 for descending
}

// IndexDefinition is a generic, database-agnostic representation of an index
type IndexDefinition struct {
	Name   string       // Index name
	Fields []IndexField // Fields that compose the index
	Unique bool         // Whether the index is unique
}

// MongoIndexableModel defines models that can specify MongoDB indexes
type MongoIndexableModel interface {
	DefineMongoIndexes() []MongoIndexDefinition
}
