package database

import (
	"context"
	"errors"
	"strings"

	"github.com/taskhub/taskhub-rest/http_errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	ID             = "_id"
	SET            = "$set"
	AND            = "$and"
	CREATED        = "created"
	MODIFIED       = "modified"
	DELETED        = "deleted"
	CURRENT_DATE   = "$currentDate"
	COMMAND_PREFIX = "$"
	NO_DOCUMENTS   = "no documents found"
	MIXED_UPDATE   = "the update has a mix between fields and commands"
)

// Error codes for mongo_repository
const (
	MONGO_CONNECTOR_TYPE_MISMATCH = "MONGO_CONNECTOR_TYPE_MISMATCH"
	MONGO_CONNECTOR_NIL           = "MONGO_CONNECTOR_NIL"
	MONGO_CLIENT_NOT_INITIALIZED  = "MONGO_CLIENT_NOT_INITIALIZED"
	MONGO_DATABASE_NAME_REQUIRED  = "MONGO_DATABASE_NAME_REQUIRED"
	MONGO_ID_CANNOT_BE_NIL        = "MONGO_ID_CANNOT_BE_NIL"
	MONGO_UPDATE_CANNOT_BE_NIL    = "MONGO_UPDATE_CANNOT_BE_NIL"
	MONGO_NO_DOCUMENTS_FOUND      = "MONGO_NO_DOCUMENTS_FOUND"
	MONGO_DUPLICATE_KEY           = "MONGO_DUPLICATE_KEY"
	MONGO_OPERATION_FAILED        = "MONGO_OPERATION_FAILED"
	MONGO_CONNECTION_ERROR        = "MONGO_CONNECTION_ERROR"
	MONGO_VALIDATION_ERROR        = "MONGO_VALIDATION_ERROR"
)

// mapMongoError maps MongoDB errors to standardized http_errors
func mapMongoError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return http_errors.NotFoundErrorWithCode(MONGO_NO_DOCUMENTS_FOUND, "document not found")
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, writeError := range writeErr.WriteErrors {
			switch writeError.Code {
			case 11000, 11001: // Duplicate key errors
				return http_errors.ConflictErrorWithCode(MONGO_DUPLICATE_KEY, "duplicate key error: "+writeError.Message)
			case 121: // Document validation failure
				return http_errors.BadRequestErrorWithCode(MONGO_VALIDATION_ERROR, "validation error: "+writeError.Message)
			default:
				return http_errors.BadRequestErrorWithCode(MONGO_OPERATION_FAILED, "write operation failed: "+writeError.Message)
			}
		}
	}

	var commandErr mongo.CommandError
	if errors.As(err, &commandErr) {
		switch commandErr.Code {
		case 11000, 11001:
			return http_errors.ConflictErrorWithCode(MONGO_DUPLICATE_KEY, "duplicate key error: "+commandErr.Message)
		case 121:
			return http_errors.BadRequestErrorWithCode(MONGO_VALIDATION_ERROR, "validation error: "+commandErr.Message)
		default:
			return http_errors.BadRequestErrorWithCode(MONGO_OPERATION_FAILED, "command failed: "+commandErr.Message)
		}
	}

	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return http_errors.InternalServerErrorWithCode(MONGO_CONNECTION_ERROR, "database connection error")
	}

	return http_errors.InternalServerErrorWithCode(MONGO_OPERATION_FAILED, "database operation failed: "+err.Error())
}

type MongoRepository[T IModel] struct {
	Options    RepositoryOptions
	collection *mongo.Collection
	connector  *MongoConnector
	datasource *Datasource
}

func NewMongoRepository[T IModel](ds *Datasource, repositoryOptions RepositoryOptions) (Repository[T], error) {
	var instance T
	collectionName := instance.GetTableName()

	err := ds.RegisterModel(instance)
	if err != nil {
		return nil, err
	}

	tmp, err := ds.GetModelConnector(instance)
	if err != nil {
		return nil, err
	}

	connector, ok := tmp.(*MongoConnector)
	if !ok {
		return nil, http_errors.InternalServerErrorWithCode(MONGO_CONNECTOR_TYPE_MISMATCH, "the connector for model "+instance.GetModelName()+" is not a MongoConnector")
	}

	if connector == nil {
		return nil, http_errors.InternalServerErrorWithCode(MONGO_CONNECTOR_NIL, "connector is nil")
	}

	client, ok := connector.GetDriver().(*mongo.Client)
	if !ok {
		return nil, http_errors.InternalServerErrorWithCode(MONGO_CLIENT_NOT_INITIALIZED, "the MongoDB client is not initialized correctly")
	}

	databaseName := connector.GetDatabaseName()
	if databaseName == "" {
		return nil, http_errors.BadRequestErrorWithCode(MONGO_DATABASE_NAME_REQUIRED, "database name is required")
	}

	repository := &MongoRepository[T]{
		Options:    repositoryOptions,
		collection: client.Database(databaseName).Collection(collectionName),
		connector:  connector,
		datasource: ds,
	}

	if err := RegisterDatasourceRepository(ds, instance, repository); err != nil {
		return nil, err
	}

	return repository, nil
}

func (repository *MongoRepository[T]) GetCollection() *mongo.Collection {
	return repository.collection
}

func (repository *MongoRepository[T]) GetConnector() Connector {
	return repository.connector
}

func (repository *MongoRepository[T]) buildQuery(filterBuilder *FilterBuilder) (bson.M, error) {
	query, err := filterBuilder.Query()
	if err != nil {
		return nil, http_errors.BadRequestError(err.Error())
	}
	if repository.Options.Deleted {
		query = getSoftDeleteQuery(query)
	}
	return query, nil
}

func (repository *MongoRepository[T]) Find(ctx context.Context, filterBuilder *FilterBuilder) ([]T, error) {
	if filterBuilder == nil {
		filterBuilder = NewFilter()
	}

	query, err := repository.buildQuery(filterBuilder)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if filterBuilder.sort != nil {
		findOpts.SetSort(filterBuilder.sort)
	}
	if filterBuilder.limit != nil {
		findOpts.SetLimit(*filterBuilder.limit)
	}
	if filterBuilder.skip != nil {
		findOpts.SetSkip(*filterBuilder.skip)
	}
	if filterBuilder.fields != nil {
		findOpts.SetProjection(filterBuilder.fields)
	}

	cursor, err := repository.collection.Find(ctx, query, findOpts)
	if err != nil {
		return nil, mapMongoError(err)
	}

	var receiver []T
	if err = cursor.All(ctx, &receiver); err != nil {
		return nil, mapMongoError(err)
	}

	if receiver == nil {
		return []T{}, nil
	}
	return receiver, nil
}

func (repository *MongoRepository[T]) FindOne(ctx context.Context, filterBuilder *FilterBuilder) (*T, error) {
	if filterBuilder == nil {
		filterBuilder = NewFilter()
	}

	query, err := repository.buildQuery(filterBuilder)
	if err != nil {
		return nil, err
	}

	findOneOptions := options.FindOne()
	if filterBuilder.sort != nil {
		findOneOptions.SetSort(filterBuilder.sort)
	}
	if filterBuilder.skip != nil {
		findOneOptions.SetSkip(*filterBuilder.skip)
	}
	if filterBuilder.fields != nil {
		findOneOptions.SetProjection(filterBuilder.fields)
	}

	result := repository.collection.FindOne(ctx, query, findOneOptions)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, mapMongoError(result.Err())
	}

	receiver := new(T)
	if err := result.Decode(receiver); err != nil {
		return nil, mapMongoError(err)
	}

	return receiver, nil
}

func (repository *MongoRepository[T]) FindById(ctx context.Context, id any, filterBuilder *FilterBuilder) (*T, error) {
	if id == nil {
		return nil, http_errors.BadRequestErrorWithCode(MONGO_ID_CANNOT_BE_NIL, "id cannot be nil")
	}

	var filterClone *FilterBuilder
	if filterBuilder == nil {
		filterClone = NewFilter()
	} else {
		filterClone = filterBuilder.Clone()
	}

	filterClone.WithWhere(NewWhere().Eq(ID, id))

	return repository.FindOne(ctx, filterClone)
}

func (repository *MongoRepository[T]) Insert(ctx context.Context, doc T) (any, error) {
	if hook, ok := any(&doc).(BeforeCreateHook); ok {
		if err := hook.BeforeCreate(); err != nil {
			return nil, err
		}
	}

	document, err := repository.prepareInsertDocument(doc)
	if err != nil {
		return nil, err
	}

	insertedResult, err := repository.collection.InsertOne(ctx, document)
	if err != nil {
		return nil, mapMongoError(err)
	}

	return insertedResult.InsertedID, nil
}

func (repository *MongoRepository[T]) Create(ctx context.Context, doc T) (*T, error) {
	insertedID, err := repository.Insert(ctx, doc)
	if err != nil {
		return nil, err
	}

	return repository.FindById(ctx, insertedID, NewFilter())
}

func (repository *MongoRepository[T]) UpdateOne(ctx context.Context, filterBuilder *FilterBuilder, update any) error {
	if update == nil {
		return http_errors.BadRequestErrorWithCode(MONGO_UPDATE_CANNOT_BE_NIL, "update cannot be nil")
	}

	if filterBuilder == nil {
		filterBuilder = NewFilter()
	}

	query, err := repository.buildQuery(filterBuilder)
	if err != nil {
		return err
	}

	fixedUpdate, err := repository.prepareUpdateDocument(update)
	if err != nil {
		return err
	}

	_, err = repository.collection.UpdateOne(ctx, query, fixedUpdate)
	if err != nil {
		return mapMongoError(err)
	}

	return nil
}

func (repository *MongoRepository[T]) UpdateById(ctx context.Context, id any, update any) error {
	if id == nil {
		return http_errors.BadRequestErrorWithCode(MONGO_ID_CANNOT_BE_NIL, "id cannot be nil")
	}

	if update == nil {
		return http_errors.BadRequestErrorWithCode(MONGO_UPDATE_CANNOT_BE_NIL, "update cannot be nil")
	}

	filter := NewFilter().WithWhere(NewWhere().Eq(ID, id))
	return repository.UpdateOne(ctx, filter, update)
}

func (repository *MongoRepository[T]) FindOneAndUpdate(ctx context.Context, filterBuilder *FilterBuilder, update any) (*T, error) {
	if update == nil {
		return nil, http_errors.BadRequestErrorWithCode(MONGO_UPDATE_CANNOT_BE_NIL, "update cannot be nil")
	}

	if filterBuilder == nil {
		filterBuilder = NewFilter()
	}

	query, err := repository.buildQuery(filterBuilder)
	if err != nil {
		return nil, err
	}

	fixedUpdate, err := repository.prepareUpdateDocument(update)
	if err != nil {
		return nil, err
	}

	cmdOpts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if filterBuilder.fields != nil {
		cmdOpts.SetProjection(filterBuilder.fields)
	}
	if filterBuilder.sort != nil {
		cmdOpts.SetSort(filterBuilder.sort)
	}

	result := repository.collection.FindOneAndUpdate(ctx, query, fixedUpdate, cmdOpts)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, mapMongoError(err)
	}

	receiver := new(T)
	if err := result.Decode(receiver); err != nil {
		return nil, mapMongoError(err)
	}

	return receiver, nil
}

func (repository *MongoRepository[T]) Count(ctx context.Context, filterBuilder *FilterBuilder) (int64, error) {
	if filterBuilder == nil {
		filterBuilder = NewFilter()
	}

	query, err := repository.buildQuery(filterBuilder)
	if err != nil {
		return 0, err
	}

	count, err := repository.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, mapMongoError(err)
	}
	return count, nil
}

func (repository *MongoRepository[T]) Exists(ctx context.Context, id any) (bool, error) {
	if id == nil {
		return false, http_errors.BadRequestErrorWithCode(MONGO_ID_CANNOT_BE_NIL, "id cannot be nil")
	}

	filter := NewFilter().
		WithWhere(NewWhere().Eq(ID, id)).
		Fields(map[string]bool{ID: true})

	doc, err := repository.FindOne(ctx, filter)
	if err != nil {
		return false, err
	}

	return doc != nil, nil
}

func (repository *MongoRepository[T]) DeleteOne(ctx context.Context, filterBuilder *FilterBuilder) error {
	if filterBuilder == nil {
		filterBuilder = NewFilter()
	}

	query, err := repository.buildQuery(filterBuilder)
	if err != nil {
		return err
	}

	if repository.Options.Deleted {
		result, err := repository.collection.UpdateOne(ctx, query, bson.M{CURRENT_DATE: bson.M{DELETED: true}})
		if err != nil {
			return mapMongoError(err)
		}
		if result.MatchedCount == 0 {
			return http_errors.NotFoundErrorWithCode(MONGO_NO_DOCUMENTS_FOUND, NO_DOCUMENTS)
		}
		return nil
	}

	result, err := repository.collection.DeleteOne(ctx, query)
	if err != nil {
		return mapMongoError(err)
	}
	if result.DeletedCount == 0 {
		return http_errors.NotFoundErrorWithCode(MONGO_NO_DOCUMENTS_FOUND, NO_DOCUMENTS)
	}

	return nil
}

func (repository *MongoRepository[T]) DeleteById(ctx context.Context, id any) error {
	if id == nil {
		return http_errors.BadRequestErrorWithCode(MONGO_ID_CANNOT_BE_NIL, "id cannot be nil")
	}

	filterBuilder := NewFilter().WithWhere(NewWhere().Eq(ID, id))

	return repository.DeleteOne(ctx, filterBuilder)
}

func (repository *MongoRepository[T]) DeleteMany(ctx context.Context, filterBuilder *FilterBuilder) (int64, error) {
	if filterBuilder == nil {
		filterBuilder = NewFilter()
	}

	query, err := repository.buildQuery(filterBuilder)
	if err != nil {
		return 0, err
	}

	if repository.Options.Deleted {
		result, err := repository.collection.UpdateMany(ctx, query, bson.M{CURRENT_DATE: bson.M{DELETED: true}})
		if err != nil {
			return 0, mapMongoError(err)
		}
		return result.ModifiedCount, nil
	}

	result, err := repository.collection.DeleteMany(ctx, query)
	if err != nil {
		return 0, mapMongoError(err)
	}

	return result.DeletedCount, nil
}

// prepareInsertDocument converts the document to a bson map and stamps the
// managed timestamps.
func (repository *MongoRepository[T]) prepareInsertDocument(doc T) (bson.M, error) {
	document, err := toBsonMap(doc)
	if err != nil {
		return nil, err
	}

	if repository.Options.Created || repository.Options.Modified {
		now := bson.NewDateTimeFromTime(nowUTC())
		if repository.Options.Created {
			document[CREATED] = now
		}
		if repository.Options.Modified {
			document[MODIFIED] = now
		}
	}

	return document, nil
}

// prepareUpdateDocument normalizes an update into MongoDB update-operator
// form. Plain field maps become a $set; an update may use either fields or
// operators, never both. Managed timestamp fields are owned by the repository
// and stripped from caller updates.
func (repository *MongoRepository[T]) prepareUpdateDocument(update any) (bson.M, error) {
	document, err := toBsonMap(update)
	if err != nil {
		return nil, err
	}

	hasFields := false
	hasCommands := false
	for key := range document {
		if strings.HasPrefix(key, COMMAND_PREFIX) {
			hasCommands = true
		} else {
			hasFields = true
		}
	}

	if hasFields && hasCommands {
		return nil, http_errors.BadRequestError(MIXED_UPDATE)
	}

	newUpdate := document
	if hasFields {
		newUpdate = bson.M{SET: document}
	}

	if bsonSet, ok := newUpdate[SET].(bson.M); ok {
		if repository.Options.Created {
			delete(bsonSet, CREATED)
		}
		if repository.Options.Modified {
			delete(bsonSet, MODIFIED)
		}
		if repository.Options.Deleted {
			delete(bsonSet, DELETED)
		}
		if len(bsonSet) == 0 {
			delete(newUpdate, SET)
		}
	}

	if repository.Options.Modified {
		currentDate, ok := newUpdate[CURRENT_DATE].(bson.M)
		if !ok {
			currentDate = bson.M{}
		}
		currentDate[MODIFIED] = true
		newUpdate[CURRENT_DATE] = currentDate
	}

	return newUpdate, nil
}
