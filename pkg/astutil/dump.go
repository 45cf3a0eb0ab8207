package astutil

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"gopkg.in/yaml.v3"
)

// Object is an ordered, type-tagged view of one node, suitable for JSON,
// YAML and tree output.
type Object struct {
	Type   string
	Fields []Field
}

// Field is one populated struct field. Value is a scalar, an *Object or a
// []any of those.
type Field struct {
	Name  string
	Value any
}

// Dump converts a node into an Object. Zero-valued strings, false booleans
// and absent children are left out; Stringer enums are written by name.
func Dump(node ast.Node) *Object {
	if isNil(node) {
		return nil
	}
	v, ok := dumpValue(reflect.ValueOf(node))
	if !ok {
		return nil
	}
	obj, _ := v.(*Object)
	return obj
}

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

func dumpValue(v reflect.Value) (any, bool) {
	switch v.Kind() {
	case reflect.Invalid:
		return nil, false
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, false
		}
		return dumpValue(v.Elem())
	case reflect.Struct:
		return dumpStruct(v), true
	case reflect.Slice:
		if v.Len() == 0 {
			return nil, false
		}
		if b, ok := v.Interface().([]byte); ok {
			return "0x" + strings.ToUpper(hex.EncodeToString(b)), true
		}
		items := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if item, ok := dumpValue(v.Index(i)); ok {
				items = append(items, item)
			}
		}
		return items, len(items) > 0
	case reflect.String:
		return v.String(), v.String() != ""
	case reflect.Bool:
		return v.Bool(), v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type().Implements(stringerType) {
			s := v.Interface().(fmt.Stringer).String()
			return s, s != ""
		}
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return fmt.Sprint(v.Interface()), true
}

func dumpStruct(v reflect.Value) *Object {
	t := v.Type()
	obj := &Object{Type: t.Name()}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if val, ok := dumpValue(v.Field(i)); ok {
			obj.Fields = append(obj.Fields, Field{Name: f.Name, Value: val})
		}
	}
	return obj
}

// Get returns the value of the named field, or nil.
func (o *Object) Get(name string) any {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

// ---------- JSON ----------

// MarshalJSON writes {"type": ..., fields...} keeping field order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	typ, _ := marshalJSON(o.Type)
	buf.Write(typ)
	for _, f := range o.Fields {
		buf.WriteByte(',')
		key, _ := marshalJSON(f.Name)
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalJSON(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalJSON is json.Marshal without HTML escaping, so that operators
// such as < and && stay readable.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// JSON renders node as indented JSON.
func JSON(node ast.Node) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Dump(node)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ---------- YAML ----------

// MarshalYAML implements yaml.Marshaler with a mapping that keeps field
// order.
func (o *Object) MarshalYAML() (any, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "type"},
		&yaml.Node{Kind: yaml.ScalarNode, Value: o.Type},
	)
	for _, f := range o.Fields {
		val := &yaml.Node{}
		if err := val.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.Name}, val)
	}
	return m, nil
}

// YAML renders node as a YAML document.
func YAML(node ast.Node) (string, error) {
	obj := Dump(node)
	if obj == nil {
		return "null\n", nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(obj); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ---------- Tree ----------

// Tree renders node as an indented tree. Scalar fields are shown inline
// next to their node's type; child nodes become nested items.
func Tree(node ast.Node) string {
	obj := Dump(node)
	if obj == nil {
		return ""
	}
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)
	appendObject(l, "", obj)
	return l.Render()
}

func appendObject(l list.Writer, label string, obj *Object) {
	var (
		scalars  []string
		children []Field
	)
	for _, f := range obj.Fields {
		switch f.Value.(type) {
		case *Object, []any:
			children = append(children, f)
		default:
			scalars = append(scalars, fmt.Sprintf("%s=%v", f.Name, f.Value))
		}
	}

	item := obj.Type
	if label != "" {
		item = label + ": " + item
	}
	if len(scalars) > 0 {
		item += " (" + strings.Join(scalars, ", ") + ")"
	}
	l.AppendItem(item)

	if len(children) == 0 {
		return
	}
	l.Indent()
	for _, f := range children {
		switch v := f.Value.(type) {
		case *Object:
			appendObject(l, f.Name, v)
		case []any:
			for i, elem := range v {
				name := fmt.Sprintf("%s[%d]", f.Name, i)
				if o, ok := elem.(*Object); ok {
					appendObject(l, name, o)
				} else {
					l.AppendItem(fmt.Sprintf("%s: %v", name, elem))
				}
			}
		}
	}
	l.UnIndent()
}
