package transforms

import (
	"reflect"
)

// TransformDefinition overwrites the Data string fields of every value of Type whose Match fields all equal
// the given values. Type is the qualified Go type name, e.g. ctdf.StopTimetable.
type TransformDefinition struct {
	Type  string
	Match map[string]string
	Data  map[string]string
}

func (t *TransformDefinition) Transform(inputValue reflect.Value) bool {
	if !inputValue.IsValid() || inputValue.Kind() != reflect.Struct || inputValue.Type().String() != t.Type {
		return false
	}

	for key, value := range t.Match {
		field := inputValue.FieldByName(key)
		if !field.IsValid() || field.Kind() != reflect.String || field.String() != value {
			return false
		}
	}

	for key, value := range t.Data {
		field := inputValue.FieldByName(key)
		if field.IsValid() && field.CanSet() && field.Kind() == reflect.String {
			field.SetString(value)
		}
	}

	return true
}

// Transform applies the loaded transforms to a struct pointer or a slice of struct pointers and returns how
// many values were changed
func Transform(input interface{}) int {
	return apply(transforms, input)
}

func apply(definitions []*TransformDefinition, input interface{}) int {
	inputValueOf := reflect.ValueOf(input)

	if inputValueOf.Kind() == reflect.Slice {
		transformed := 0
		for i := 0; i < inputValueOf.Len(); i++ {
			transformed += transformValue(definitions, inputValueOf.Index(i))
		}

		return transformed
	}

	return transformValue(definitions, inputValueOf)
}

func transformValue(definitions []*TransformDefinition, inputValueOf reflect.Value) int {
	if inputValueOf.Kind() != reflect.Pointer || inputValueOf.IsNil() {
		return 0
	}

	inputValue := inputValueOf.Elem()
	transformed := 0

	for _, transformDef := range definitions {
		if transformDef.Transform(inputValue) {
			transformed++
		}
	}

	return transformed
}
