package fieldpath

import "reflect"

// Record is a keyed value that paths can read from.
type Record interface {
	Get(key string) (any, bool)
}

// Container is a Record that paths can also write into.
type Container interface {
	Record
	Put(key string, value any) error
}

// Object adapts a plain map to Container.
type Object map[string]any

func (o Object) Get(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}

func (o Object) Put(key string, value any) error {
	o[key] = value
	return nil
}

// AsRecord returns a readable view of v, or false if v is not a container.
func AsRecord(v any) (Record, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case Record:
		return val, true
	case map[string]any:
		return Object(val), true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return structRecord{rv: rv}, true
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return mapRecord{rv: rv}, true
		}
	}

	return nil, false
}

// AsContainer returns a writable view of v, or false if v cannot be written through.
func AsContainer(v any) (Container, bool) {
	switch val := v.(type) {
	case Container:
		return val, true
	case map[string]any:
		return Object(val), true
	default:
		return nil, false
	}
}

// structRecord reads exported struct fields by name.
type structRecord struct {
	rv reflect.Value
}

func (s structRecord) Get(key string) (any, bool) {
	sf, ok := s.rv.Type().FieldByName(key)
	if !ok || !sf.IsExported() {
		return nil, false
	}

	fv, err := s.rv.FieldByIndexErr(sf.Index)
	if err != nil {
		return nil, false
	}

	return fv.Interface(), true
}

// mapRecord reads string-keyed maps of any element type.
type mapRecord struct {
	rv reflect.Value
}

func (m mapRecord) Get(key string) (any, bool) {
	v := m.rv.MapIndex(reflect.ValueOf(key).Convert(m.rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}

	return v.Interface(), true
}
