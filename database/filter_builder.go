package database

import (
	"strings"

	"maps"

	"github.com/go-errors/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	FILTER_FIELD_EMPTY       = "FILTER_FIELD_EMPTY"
	FILTER_INVALID_DIRECTION = "FILTER_INVALID_DIRECTION"
	FILTER_WHERE_EMPTY       = "FILTER_WHERE_EMPTY"
)

// FilterBuilder accumulates query conditions and options for a repository
// call. Builder methods record the first error encountered; Build surfaces it.
type FilterBuilder struct {
	where  []bson.M
	fields bson.M
	limit  *int64
	skip   *int64
	sort   bson.D
	err    error
}

func NewFilter() *FilterBuilder {
	return &FilterBuilder{}
}

func (b *FilterBuilder) Fields(fields map[string]bool) *FilterBuilder {
	if b.fields == nil {
		b.fields = bson.M{}
	}
	for field, include := range fields {
		b.fields[field] = include
	}
	return b
}

func (b *FilterBuilder) Limit(limit int64) *FilterBuilder {
	b.limit = &limit
	return b
}

func (b *FilterBuilder) Skip(skip int64) *FilterBuilder {
	b.skip = &skip
	return b
}

func (b *FilterBuilder) orderBy(field string, direction int) *FilterBuilder {
	if strings.TrimSpace(field) == "" {
		b.err = errors.New(FILTER_FIELD_EMPTY)
		return b
	}
	b.sort = append(b.sort, bson.E{Key: field, Value: direction})
	return b
}

func (b *FilterBuilder) OrderByAsc(field string) *FilterBuilder {
	return b.orderBy(field, 1)
}

func (b *FilterBuilder) OrderByDesc(field string) *FilterBuilder {
	return b.orderBy(field, -1)
}

func (b *FilterBuilder) WithWhere(builder *WhereBuilder) *FilterBuilder {
	where, err := builder.Build()
	if err != nil {
		b.err = err
		return b
	}

	if len(where) == 0 {
		b.err = errors.New(FILTER_WHERE_EMPTY)
		return b
	}

	b.where = append(b.where, where)
	return b
}

func (b *FilterBuilder) Clone() *FilterBuilder {
	clone := &FilterBuilder{
		where: make([]bson.M, len(b.where)),
		limit: b.limit,
		skip:  b.skip,
		sort:  append(bson.D{}, b.sort...),
		err:   b.err,
	}
	copy(clone.where, b.where)
	if b.fields != nil {
		clone.fields = bson.M{}
		maps.Copy(clone.fields, b.fields)
	}
	return clone
}

// Query composes the accumulated where clauses into a single MongoDB query
// document. Multiple WithWhere calls are combined with $and so that ownership
// scoping and id lookups are enforced in one query, never as separate checks.
func (b *FilterBuilder) Query() (bson.M, error) {
	if b.err != nil {
		return nil, b.err
	}

	switch len(b.where) {
	case 0:
		return bson.M{}, nil
	case 1:
		return b.where[0], nil
	default:
		conditions := make([]bson.M, len(b.where))
		copy(conditions, b.where)
		return bson.M{AND: conditions}, nil
	}
}

// WhereBuilder builds a single where clause field by field.
type WhereBuilder struct {
	conditions bson.M
	err        error
}

func NewWhere() *WhereBuilder {
	return &WhereBuilder{conditions: bson.M{}}
}

func (w *WhereBuilder) put(field string, value any) *WhereBuilder {
	if strings.TrimSpace(field) == "" {
		w.err = errors.New(FILTER_FIELD_EMPTY)
		return w
	}
	w.conditions[field] = value
	return w
}

func (w *WhereBuilder) Eq(field string, value any) *WhereBuilder {
	return w.put(field, value)
}

func (w *WhereBuilder) Neq(field string, value any) *WhereBuilder {
	return w.put(field, bson.M{"$ne": value})
}

func (w *WhereBuilder) Gt(field string, value any) *WhereBuilder {
	return w.put(field, bson.M{"$gt": value})
}

func (w *WhereBuilder) Gte(field string, value any) *WhereBuilder {
	return w.put(field, bson.M{"$gte": value})
}

func (w *WhereBuilder) Lt(field string, value any) *WhereBuilder {
	return w.put(field, bson.M{"$lt": value})
}

func (w *WhereBuilder) Lte(field string, value any) *WhereBuilder {
	return w.put(field, bson.M{"$lte": value})
}

func (w *WhereBuilder) In(field string, values ...any) *WhereBuilder {
	return w.put(field, bson.M{"$in": values})
}

// Like matches field against a regular expression. Options follow the MongoDB
// $options syntax ("i" for case-insensitive).
func (w *WhereBuilder) Like(field string, pattern string, options string) *WhereBuilder {
	condition := bson.M{"$regex": pattern}
	if options != "" {
		condition["$options"] = options
	}
	return w.put(field, condition)
}

// Or combines the clauses of the given builders with $or.
func (w *WhereBuilder) Or(builders ...*WhereBuilder) *WhereBuilder {
	clauses := make([]bson.M, 0, len(builders))
	for _, builder := range builders {
		clause, err := builder.Build()
		if err != nil {
			w.err = err
			return w
		}
		clauses = append(clauses, clause)
	}
	w.conditions["$or"] = clauses
	return w
}

func (w *WhereBuilder) Build() (bson.M, error) {
	if w == nil {
		return nil, errors.New("where builder is nil")
	}
	if w.err != nil {
		return nil, w.err
	}
	return w.conditions, nil
}
