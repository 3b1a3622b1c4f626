package channel

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const (
	keyType     = "type"
	keyElements = "elements"
	keyChannel  = "channel"
)

// Record is a channel rule after shape coercion. Type is nil when no type was declared.
type Record struct {
	Type     *string
	Elements []string
}

// IsEmpty reports whether the record declares neither a type nor any element.
// A record with a type and no elements is not empty.
func (r Record) IsEmpty() bool {
	return r.Type == nil && len(r.Elements) == 0
}

// Coerce converts a raw rule into a Record.
//
// A string becomes a single element list, an indexed list becomes the element list
// and a map is read for its "type" and "elements" keys ("channel" is accepted as an
// alias of "elements"). A map keyed only by integers is an indexed list in key
// order. nil coerces to an empty record.
func Coerce(raw any) (Record, error) {
	switch v := raw.(type) {
	case nil:
		return Record{}, nil
	case string:
		return Record{Elements: []string{v}}, nil
	case []string:
		return Record{Elements: slices.Clone(v)}, nil
	case []any:
		elements, err := toElements(v)
		if err != nil {
			return Record{}, err
		}
		return Record{Elements: elements}, nil
	case map[string]any:
		return fromMap(v)
	case map[any]any:
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return Record{}, &InvalidEntryError{Value: raw}
		}
		return fromMap(m)
	default:
		return Record{}, &InvalidEntryError{Value: raw}
	}
}

func fromMap(m map[string]any) (Record, error) {
	if values, ok := indexedValues(m); ok {
		elements, err := toElements(values)
		if err != nil {
			return Record{}, err
		}
		return Record{Elements: elements}, nil
	}

	var unknown []string
	for key := range m {
		if key != keyType && key != keyElements && key != keyChannel {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Record{}, &UnrecognizedOptionError{Keys: unknown}
	}

	var record Record

	if rawType, ok := m[keyType]; ok && rawType != nil {
		declared, err := cast.ToStringE(rawType)
		if err != nil {
			return Record{}, &InvalidTypeValueError{Value: rawType}
		}
		record.Type = &declared
	}

	for _, key := range []string{keyElements, keyChannel} {
		elements, err := toElements(m[key])
		if err != nil {
			return Record{}, err
		}
		record.Elements = append(record.Elements, elements...)
	}

	return record, nil
}

// indexedValues returns the values of a map whose keys are all integers, ordered
// by key.
func indexedValues(m map[string]any) ([]any, bool) {
	if len(m) == 0 {
		return nil, false
	}
	indexes := make([]int, 0, len(m))
	byIndex := make(map[int]any, len(m))
	for key, value := range m {
		index, err := strconv.Atoi(key)
		if err != nil {
			return nil, false
		}
		indexes = append(indexes, index)
		byIndex[index] = value
	}
	sort.Ints(indexes)

	values := make([]any, len(indexes))
	for i, index := range indexes {
		values[i] = byIndex[index]
	}
	return values, true
}

func toElements(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return slices.Clone(v), nil
	case []any:
		elements := make([]string, 0, len(v))
		for i, item := range v {
			if item == nil {
				return nil, &InvalidElementError{Index: i, Value: item}
			}
			element, err := cast.ToStringE(item)
			if err != nil {
				return nil, &InvalidElementError{Index: i, Value: item}
			}
			elements = append(elements, element)
		}
		return elements, nil
	default:
		return nil, &InvalidElementError{Index: 0, Value: raw}
	}
}

// ValidateType checks that a declared type is inclusive or exclusive.
func ValidateType(r Record) error {
	if r.Type == nil {
		return nil
	}
	if !Type(*r.Type).Valid() {
		return &InvalidTypeValueError{Value: *r.Type}
	}
	return nil
}

// InferAndValidate produces the canonical entry for a non-empty record.
//
// Elements must use one notation: all marked or all bare. A declared inclusive type
// rejects marked elements. A declared exclusive type accepts either notation, bare
// names being the canonical form of an exclusive list. Without a declared type the
// notation decides the type. Elements are stored without their marker.
func InferAndValidate(r Record) (Entry, error) {
	if err := ValidateType(r); err != nil {
		return Entry{}, err
	}

	var seed Type
	if r.Type != nil {
		seed = Type(*r.Type)
	}

	class, elements, err := foldElements(seed, r.Elements)
	if err != nil {
		return Entry{}, err
	}

	if class != Exclusive {
		class = Inclusive
	}
	return Entry{Type: class, Elements: elements}, nil
}

// classify splits an element into its classification and bare name.
func classify(element string) (Type, string) {
	if name, ok := strings.CutPrefix(element, Marker); ok {
		return Exclusive, name
	}
	return Inclusive, element
}

// foldElements walks elements in order and returns the resulting classification
// with the stripped names. seed is the declared type, "" when none was declared.
func foldElements(seed Type, elements []string) (Type, []string, error) {
	var notation Type
	names := make([]string, 0, len(elements))
	for _, element := range elements {
		elementClass, name := classify(element)
		if notation != "" && elementClass != notation {
			return "", nil, &MixedChannelTypeError{Element: element}
		}
		if seed == Inclusive && elementClass == Exclusive {
			return "", nil, &MixedChannelTypeError{Element: element}
		}
		names = append(names, name)
		notation = elementClass
	}

	if seed != "" {
		return seed, names, nil
	}
	return notation, names, nil
}

// Normalize runs one raw rule through coercion, emptiness rejection and validation.
// ok is false when the rule is empty and must be left out of the Map.
func Normalize(raw any) (entry Entry, ok bool, err error) {
	record, err := Coerce(raw)
	if err != nil {
		return Entry{}, false, err
	}
	if record.IsEmpty() {
		return Entry{}, false, nil
	}
	entry, err = InferAndValidate(record)
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// NormalizeMap normalizes every rule of a logger_channel map. The first invalid
// rule, in name order, fails the whole map.
func NormalizeMap(raw map[string]any) (Map, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make(Map, len(raw))
	for _, name := range names {
		entry, ok, err := Normalize(raw[name])
		if err != nil {
			return nil, NewChannelError(name, err)
		}
		if !ok {
			continue
		}
		result[name] = entry
	}
	return result, nil
}
