package cms

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidPayload indica que el CMS respondió 2xx con algo que no es JSON.
var ErrInvalidPayload = errors.New("cms: upstream payload is not valid JSON")

// Flatten quita el sobre de una respuesta del CMS:
//
//	{data: [...], meta: {...}}        -> [...]
//	{data: {...}}                     -> {...}
//	{id, attributes: {a, b}}          -> {id, a, b}
//
// Una respuesta sin sobre (lista o objeto plano) se devuelve igual.
func Flatten(raw []byte) (any, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidPayload
	}
	root := gjson.ParseBytes(raw)
	if root.IsObject() {
		if data := root.Get("data"); data.Exists() {
			root = data
		}
	}
	return flattenValue(root), nil
}

func flattenValue(v gjson.Result) any {
	switch {
	case v.IsArray():
		out := make([]any, 0)
		v.ForEach(func(_, item gjson.Result) bool {
			out = append(out, flattenEntity(item))
			return true
		})
		return out
	case v.IsObject():
		return flattenEntity(v)
	default:
		return v.Value()
	}
}

func flattenEntity(item gjson.Result) any {
	if !item.IsObject() {
		return item.Value()
	}
	attrs := item.Get("attributes")
	if !attrs.IsObject() {
		return item.Value()
	}
	out := map[string]any{}
	if id := item.Get("id"); id.Exists() {
		out["id"] = id.Value()
	}
	attrs.ForEach(func(k, v gjson.Result) bool {
		out[k.String()] = flattenRelation(v)
		return true
	})
	return out
}

// flattenRelation aplana relaciones anidadas del tipo {data: ...}.
func flattenRelation(v gjson.Result) any {
	if !v.IsObject() {
		return v.Value()
	}
	data := v.Get("data")
	if !data.Exists() || len(v.Map()) != 1 {
		return v.Value()
	}
	if data.Type == gjson.Null {
		return nil
	}
	return flattenValue(data)
}
