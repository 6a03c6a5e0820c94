package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFilterBuilder_Query(t *testing.T) {
	t.Run("empty filter yields an empty query", func(t *testing.T) {
		query, err := NewFilter().Query()
		require.NoError(t, err)
		assert.Equal(t, bson.M{}, query)
	})

	t.Run("single where is returned as-is", func(t *testing.T) {
		query, err := NewFilter().
			WithWhere(NewWhere().Eq("username", "alice")).
			Query()
		require.NoError(t, err)
		assert.Equal(t, bson.M{"username": "alice"}, query)
	})

	t.Run("multiple where clauses are combined with and", func(t *testing.T) {
		query, err := NewFilter().
			WithWhere(NewWhere().Eq("status", "PENDING")).
			WithWhere(NewWhere().Gt("created", 0)).
			Query()
		require.NoError(t, err)
		assert.Equal(t, bson.M{"$and": []bson.M{
			{"status": "PENDING"},
			{"created": bson.M{"$gt": 0}},
		}}, query)
	})

	t.Run("conditions in one where share the clause", func(t *testing.T) {
		id := bson.NewObjectID()
		owner := bson.NewObjectID()

		query, err := NewFilter().
			WithWhere(NewWhere().Eq("_id", id).Eq("userId", owner)).
			Query()
		require.NoError(t, err)
		assert.Equal(t, bson.M{"_id": id, "userId": owner}, query)
	})

	t.Run("empty where is an error", func(t *testing.T) {
		_, err := NewFilter().WithWhere(NewWhere()).Query()
		require.Error(t, err)
		assert.Contains(t, err.Error(), FILTER_WHERE_EMPTY)
	})

	t.Run("empty field name is an error", func(t *testing.T) {
		_, err := NewFilter().WithWhere(NewWhere().Eq(" ", "x")).Query()
		require.Error(t, err)
		assert.Contains(t, err.Error(), FILTER_FIELD_EMPTY)
	})
}

func TestWhereBuilder_Operators(t *testing.T) {
	t.Run("comparison operators", func(t *testing.T) {
		where, err := NewWhere().
			Neq("a", 1).
			Gt("b", 2).
			Gte("c", 3).
			Lt("d", 4).
			Lte("e", 5).
			Build()
		require.NoError(t, err)
		assert.Equal(t, bson.M{
			"a": bson.M{"$ne": 1},
			"b": bson.M{"$gt": 2},
			"c": bson.M{"$gte": 3},
			"d": bson.M{"$lt": 4},
			"e": bson.M{"$lte": 5},
		}, where)
	})

	t.Run("in", func(t *testing.T) {
		where, err := NewWhere().In("status", "PENDING", "COMPLETED").Build()
		require.NoError(t, err)
		assert.Equal(t, bson.M{"status": bson.M{"$in": []any{"PENDING", "COMPLETED"}}}, where)
	})

	t.Run("like with options", func(t *testing.T) {
		where, err := NewWhere().Like("title", "report", "i").Build()
		require.NoError(t, err)
		assert.Equal(t, bson.M{"title": bson.M{"$regex": "report", "$options": "i"}}, where)
	})

	t.Run("or", func(t *testing.T) {
		where, err := NewWhere().Or(
			NewWhere().Eq("username", "alice"),
			NewWhere().Eq("email", "alice@example.com"),
		).Build()
		require.NoError(t, err)
		assert.Equal(t, bson.M{"$or": []bson.M{
			{"username": "alice"},
			{"email": "alice@example.com"},
		}}, where)
	})
}

func TestFilterBuilder_Clone(t *testing.T) {
	original := NewFilter().
		WithWhere(NewWhere().Eq("status", "PENDING")).
		Limit(10).
		OrderByDesc("created")

	clone := original.Clone().WithWhere(NewWhere().Eq("userId", "u1"))

	originalQuery, err := original.Query()
	require.NoError(t, err)
	assert.Equal(t, bson.M{"status": "PENDING"}, originalQuery)

	cloneQuery, err := clone.Query()
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$and": []bson.M{
		{"status": "PENDING"},
		{"userId": "u1"},
	}}, cloneQuery)
}
