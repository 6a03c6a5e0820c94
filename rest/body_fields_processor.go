package rest

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// structFieldsCache caches per-type field metadata so reflection only runs
// once per struct type.
var structFieldsCache sync.Map

type fieldProcessorFunc func(reflect.Value)

type tagProcessors struct {
	funcs []fieldProcessorFunc
	dive  bool
}

type cachedStructField struct {
	index     []int
	normalize *tagProcessors
	sanitize  *tagProcessors
}

var operators = map[string]map[string]fieldProcessorFunc{
	"normalize": {
		"trim":      trimNormalizer,
		"lowercase": lowercaseNormalizer,
		"uppercase": uppercaseNormalizer,
		"unicode":   unicodeNormalizer,
	},
	"sanitize": {
		"html":         htmlSanitizer,
		"alphanumeric": alphanumericSanitizer,
		"numeric":      numericSanitizer,
	},
}

var htmlPolicy = bluemonday.UGCPolicy()

func parseTag(tag string) []string {
	parts := strings.Split(tag, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func buildStructFields(t reflect.Type) ([]cachedStructField, error) {
	var fields []cachedStructField

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}

		normalizeTag := sf.Tag.Get("normalize")
		sanitizeTag := sf.Tag.Get("sanitize")
		if normalizeTag == "" && sanitizeTag == "" {
			continue
		}

		fs := cachedStructField{
			index: []int{i},
		}

		diveable := isDiveable(sf.Type)
		if normalizeTag != "" {
			tp, err := buildTagProcessors("normalize", normalizeTag, diveable, sf.Name)
			if err != nil {
				return nil, err
			}
			fs.normalize = tp
		}

		if sanitizeTag != "" {
			tp, err := buildTagProcessors("sanitize", sanitizeTag, diveable, sf.Name)
			if err != nil {
				return nil, err
			}
			fs.sanitize = tp
		}

		fields = append(fields, fs)
	}

	return fields, nil
}

func buildTagProcessors(operator, tag string, diveable bool, fieldName string) (*tagProcessors, error) {
	tags := parseTag(tag)

	hasDive := slices.Contains(tags, "dive")
	if hasDive && !diveable {
		return nil, fmt.Errorf("field %s is marked with 'dive' but is not diveable", fieldName)
	}

	tp := &tagProcessors{
		dive: hasDive,
	}
	for _, t := range tags {
		if fn, ok := operators[operator][t]; ok {
			tp.funcs = append(tp.funcs, fn)
		}
	}
	return tp, nil
}

// processStruct applies the field processors declared by the given tag key
// ("normalize" or "sanitize") to the struct. The struct must be passed as a
// pointer so the fields can be modified in place. Nested structs and slices
// marked with 'dive' are processed recursively.
func processStruct(v any, operator string) error {
	if v == nil {
		return nil
	}

	if _, ok := operators[operator]; !ok {
		return errors.New("invalid operator: " + operator)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("expected a non-nil pointer to a struct")
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return errors.New("expected a struct, got: " + rv.Kind().String())
	}

	rt := rv.Type()

	var fields []cachedStructField
	if cached, ok := structFieldsCache.Load(rt); ok {
		fields = cached.([]cachedStructField)
	} else {
		built, err := buildStructFields(rt)
		if err != nil {
			return err
		}
		fields = built
		structFieldsCache.Store(rt, fields)
	}

	for _, fs := range fields {
		fv := rv.FieldByIndex(fs.index)
		if !fv.IsValid() || !fv.CanSet() {
			continue
		}

		var tp *tagProcessors
		switch operator {
		case "normalize":
			tp = fs.normalize
		case "sanitize":
			tp = fs.sanitize
		}
		if tp == nil {
			continue
		}

		if tp.dive {
			fieldName := rt.FieldByIndex(fs.index).Name
			switch fv.Kind() {
			case reflect.Slice, reflect.Array:
				for i := 0; i < fv.Len(); i++ {
					elem := fv.Index(i)
					if elem.IsValid() {
						if err := applyProcessors(elem, tp.funcs, operator); err != nil {
							return fmt.Errorf("error processing field '%s' at index %d: %w", fieldName, i, err)
						}
					}
				}
			case reflect.Struct, reflect.Ptr:
				if err := applyProcessors(fv, nil, operator); err != nil {
					return fmt.Errorf("error processing nested struct field '%s': %w", fieldName, err)
				}
			}
		} else {
			if err := applyProcessors(fv, tp.funcs, operator); err != nil {
				return fmt.Errorf("error applying processors to field '%s': %w", rt.FieldByIndex(fs.index).Name, err)
			}
		}
	}

	return nil
}

func applyProcessors(v reflect.Value, funcs []fieldProcessorFunc, operator string) error {
	if !v.IsValid() {
		return nil
	}

	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}

	if v.Kind() == reflect.Struct {
		if v.CanAddr() {
			return processStruct(v.Addr().Interface(), operator)
		}
		return nil
	}

	for _, fn := range funcs {
		if fn != nil {
			fn(v)
		}
	}
	return nil
}

// processStringValue applies a transformation function to string values
func processStringValue(v reflect.Value, transform func(string) string) {
	switch v.Kind() {
	case reflect.String:
		v.SetString(transform(v.String()))
	case reflect.Ptr:
		if !v.IsNil() && v.Elem().Kind() == reflect.String {
			v.Elem().SetString(transform(v.Elem().String()))
		}
	}
}

// htmlSanitizer applies HTML sanitization using bluemonday
func htmlSanitizer(v reflect.Value) {
	processStringValue(v, htmlPolicy.Sanitize)
}

// alphanumericSanitizer removes all non-alphanumeric characters from a string
func alphanumericSanitizer(v reflect.Value) {
	processStringValue(v, func(s string) string {
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		return b.String()
	})
}

// numericSanitizer removes all non-digit characters from a string
func numericSanitizer(v reflect.Value) {
	processStringValue(v, func(s string) string {
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		return b.String()
	})
}

// trimNormalizer removes leading and trailing whitespace from strings
func trimNormalizer(v reflect.Value) {
	processStringValue(v, strings.TrimSpace)
}

// lowercaseNormalizer converts strings to lowercase
func lowercaseNormalizer(v reflect.Value) {
	processStringValue(v, strings.ToLower)
}

// uppercaseNormalizer converts strings to uppercase
func uppercaseNormalizer(v reflect.Value) {
	processStringValue(v, strings.ToUpper)
}

// unicodeNormalizer normalizes Unicode strings to NFC form.
func unicodeNormalizer(v reflect.Value) {
	processStringValue(v, norm.NFC.String)
}

func isStruct(v reflect.Type) bool {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return v.Kind() == reflect.Struct
}

func isDiveable(v reflect.Type) bool {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return isStruct(v) || v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}
