package chromalens

import (
	"fmt"
	"reflect"
	"strings"
)

const tagKey = "chromalens"

var float32SliceType = reflect.TypeOf([]float32(nil))

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ reflect.Type // struct type for reconstruction

	// Field index in the struct for each role.
	idIdx       int
	vectorIdx   int
	documentIdx int // -1 if not present

	// Mapping from struct field index → metadata key.
	metaFields []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
}

// parseSchema reflects on T and extracts chromalens struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("chromalens: type %v is not a struct", t)
	}

	meta := &schemaMeta{typ: t, idIdx: -1, vectorIdx: -1, documentIdx: -1}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f, tag); err != nil {
			return nil, err
		}
	}

	return validateSchema(meta, t)
}

// applyTag processes a single struct field's chromalens tag.
func applyTag(meta *schemaMeta, idx int, f reflect.StructField, tag string) error {
	parts := strings.SplitN(tag, ",", 2)
	name := parts[0]
	modifier := ""
	if len(parts) == 2 {
		modifier = parts[1]
	}
	if name == "" {
		name = f.Name
	}

	switch modifier {
	case "id":
		if meta.idIdx != -1 {
			return fmt.Errorf("chromalens: duplicate id tag on field %s", f.Name)
		}
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("chromalens: id field %s must be a string", f.Name)
		}
		meta.idIdx = idx
	case "vector":
		if meta.vectorIdx != -1 {
			return fmt.Errorf("chromalens: duplicate vector tag on field %s", f.Name)
		}
		if f.Type != float32SliceType {
			return fmt.Errorf("chromalens: vector field %s must be []float32", f.Name)
		}
		meta.vectorIdx = idx
	case "document":
		if meta.documentIdx != -1 {
			return fmt.Errorf("chromalens: duplicate document tag on field %s", f.Name)
		}
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("chromalens: document field %s must be a string", f.Name)
		}
		meta.documentIdx = idx
	case "":
		if !metadataKind(f.Type.Kind()) {
			return fmt.Errorf("chromalens: metadata field %s must be a string, bool or number", f.Name)
		}
		meta.metaFields = append(meta.metaFields, fieldMapping{structIdx: idx, name: name})
	default:
		return fmt.Errorf("chromalens: unknown modifier %q on field %s", modifier, f.Name)
	}
	return nil
}

func metadataKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func validateSchema(meta *schemaMeta, t reflect.Type) (*schemaMeta, error) {
	if meta.idIdx == -1 {
		return nil, fmt.Errorf("chromalens: no field with `chromalens:\"...,id\"` tag in %s", t)
	}
	if meta.vectorIdx == -1 {
		return nil, fmt.Errorf("chromalens: no field with `chromalens:\"...,vector\"` tag in %s", t)
	}
	return meta, nil
}

// toItem converts a typed struct to Item using schema metadata.
func (m *schemaMeta) toItem(v reflect.Value) Item {
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	it := Item{
		ID:     v.Field(m.idIdx).String(),
		Vector: v.Field(m.vectorIdx).Interface().([]float32),
	}
	if m.documentIdx != -1 {
		it.Document = v.Field(m.documentIdx).String()
	}
	if len(m.metaFields) > 0 {
		it.Metadata = make(Metadata, len(m.metaFields))
		for _, mf := range m.metaFields {
			it.Metadata[mf.name] = metadataValue(v.Field(mf.structIdx))
		}
	}
	return it
}

// fromItem converts an Item back to a typed struct using schema metadata.
func (m *schemaMeta) fromItem(it Item) any {
	v := reflect.New(m.typ).Elem()

	v.Field(m.idIdx).SetString(it.ID)
	if len(it.Vector) > 0 {
		v.Field(m.vectorIdx).Set(reflect.ValueOf(it.Vector))
	}
	if m.documentIdx != -1 {
		v.Field(m.documentIdx).SetString(it.Document)
	}
	for _, mf := range m.metaFields {
		if val, ok := it.Metadata[mf.name]; ok {
			setMetadataValue(v.Field(mf.structIdx), val)
		}
	}
	return v.Interface()
}

func metadataValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return nil
	}
}

// setMetadataValue assigns a decoded JSON value (string, bool or float64)
// to the matching struct field.
func setMetadataValue(v reflect.Value, val any) {
	switch v.Kind() {
	case reflect.String:
		if s, ok := val.(string); ok {
			v.SetString(s)
		}
	case reflect.Bool:
		if b, ok := val.(bool); ok {
			v.SetBool(b)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f, ok := asFloat64(val); ok {
			v.SetInt(int64(f))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f, ok := asFloat64(val); ok {
			v.SetUint(uint64(f))
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := asFloat64(val); ok {
			v.SetFloat(f)
		}
	}
}

func asFloat64(val any) (float64, bool) {
	switch n := val.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
