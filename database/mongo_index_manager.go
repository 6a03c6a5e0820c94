package database

import (
	"context"

	"github.com/go-errors/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoIndexManager creates the indexes declared by models on their
// collections.
type MongoIndexManager struct {
	connector *MongoConnector
}

func NewMongoIndexManager(connector *MongoConnector) *MongoIndexManager {
	return &MongoIndexManager{connector: connector}
}

// EnsureIndexes creates the indexes declared by the model, if any. Creating
// an index that already exists with the same options is a no-op on the server
// side.
func (manager *MongoIndexManager) EnsureIndexes(model IModel) error {
	indexable, ok := model.(MongoIndexableModel)
	if !ok {
		return nil
	}

	definitions := indexable.DefineMongoIndexes()
	if len(definitions) == 0 {
		return nil
	}

	client, ok := manager.connector.GetDriver().(*mongo.Client)
	if !ok {
		return errors.New("mongo client not initialized")
	}

	collection := client.Database(manager.connector.GetDatabaseName()).Collection(model.GetTableName())

	indexModels := make([]mongo.IndexModel, 0, len(definitions))
	for _, definition := range definitions {
		keys := bson.D{}
		for _, field := range definition.Fields {
			keys = append(keys, bson.E{Key: field.Name, Value: field.Order})
		}

		opts := options.Index().SetName(definition.Name)
		if definition.Unique {
			opts.SetUnique(true)
		}
		if definition.Sparse {
			opts.SetSparse(true)
		}

		indexModels = append(indexModels, mongo.IndexModel{Keys: keys, Options: opts})
	}

	_, err := collection.Indexes().CreateMany(context.Background(), indexModels)
	if err != nil {
		return errors.Errorf("failed to create indexes for %s: %v", model.GetTableName(), err)
	}

	return nil
}
