package signaliz

import (
	"math"
	"reflect"

	"github.com/Jeffail/gabs/v2"
)

// PresenceRule decides whether an optional field's value is copied into a
// request body.
type PresenceRule int

const (
	// NonEmpty keeps strings and lists with at least one element.
	NonEmpty PresenceRule = iota
	// Defined keeps any supplied value, including false and 0.
	Defined
	// Truthy keeps values that are not zero, false or blank. A supplied 0
	// is dropped.
	Truthy
)

func (r PresenceRule) String() string {
	switch r {
	case NonEmpty:
		return "non-empty"
	case Defined:
		return "defined"
	case Truthy:
		return "truthy"
	default:
		return "unknown"
	}
}

// Present applies the rule to v. A nil v is never present.
func (r PresenceRule) Present(v any) bool {
	if v == nil {
		return false
	}
	switch r {
	case Defined:
		return true
	case Truthy:
		return truthy(v)
	case NonEmpty:
		if !truthy(v) {
			return false
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len() > 0
		}
		return true
	default:
		return false
	}
}

func truthy(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String() != ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		// Lists and objects are truthy even when empty.
		return true
	}
}

// optionalField maps one source field to its remote key.
type optionalField[T any] struct {
	remote string
	rule   PresenceRule
	value  func(*T) any
}

// fieldTable is the optional-field mapping of one operation.
type fieldTable[T any] []optionalField[T]

// apply copies every present field of src into body.
func (t fieldTable[T]) apply(body Body, src *T) {
	for _, f := range t {
		if v := f.value(src); f.rule.Present(v) {
			body[f.remote] = v
		}
	}
}

// deref returns the pointed-to value, or nil for an absent field.
func deref[V any](p *V) any {
	if p == nil {
		return nil
	}
	return *p
}

// FileReference is a document the remote side fetches before researching.
type FileReference struct {
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// FileReferences is an ordered list of documents. As a task parameter it
// accepts a plain list or the repeated sub-form shape {"files": [...]}.
type FileReferences []FileReference

// DecodeInput implements the runtime's input decoder hook.
func (r *FileReferences) DecodeInput(raw any) error {
	*r = nil
	if raw == nil {
		return nil
	}

	// Normalise Go-typed input ([]map, []FileReference, yaml maps) to plain JSON values.
	parsed, err := gabs.ParseJSON(gabs.Wrap(raw).Bytes())
	if err != nil {
		return err
	}

	list := parsed
	if _, isObject := parsed.Data().(map[string]any); isObject {
		if !parsed.Exists("files") {
			return nil
		}
		list = parsed.S("files")
	}
	if list.Data() == nil {
		return nil
	}

	entries, ok := list.Data().([]any)
	if !ok {
		return &invalidFileReferencesError{got: reflect.TypeOf(list.Data())}
	}

	refs := make(FileReferences, 0, len(entries))
	for _, e := range entries {
		entry := gabs.Wrap(e)
		url, _ := entry.S("url").Data().(string)
		filename, _ := entry.S("filename").Data().(string)
		refs = append(refs, FileReference{URL: url, Filename: filename})
	}
	*r = refs
	return nil
}

// wire is the body form: one {url?, filename?} object per entry, in order.
// Blank fields are left out.
func (r FileReferences) wire() []map[string]any {
	out := make([]map[string]any, 0, len(r))
	for _, ref := range r {
		entry := map[string]any{}
		if ref.URL != "" {
			entry["url"] = ref.URL
		}
		if ref.Filename != "" {
			entry["filename"] = ref.Filename
		}
		out = append(out, entry)
	}
	return out
}

type invalidFileReferencesError struct {
	got reflect.Type
}

func (e *invalidFileReferencesError) Error() string {
	return "file references must be a list or an object with a files list, got " + typeName(e.got)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "null"
	}
	return t.String()
}
