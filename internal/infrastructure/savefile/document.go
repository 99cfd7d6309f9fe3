package savefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"Unhoster/internal/domain"
)

// ObjectListField is the top-level field holding the object records of a save.
const ObjectListField = "ObjectStates"

// fields is the untyped shape shared by documents, objects and sections.
type fields map[string]json.RawMessage

// Document is a decoded save file. Only the fields that are asked for are
// decoded further.
type Document struct {
	Name   string
	fields fields
}

// Object is one record of the object list.
type Object struct {
	fields fields
}

// Section is a nested record of an object, e.g. CustomMesh.
type Section struct {
	fields fields
}

// Load reads and decodes the save file at path.
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: open %s: %v", domain.ErrInput, path, err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	doc.Name = path
	return doc, nil
}

// Decode parses a save document from r. The top-level value must be a JSON object.
func Decode(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("%w: read document: %v", domain.ErrInput, err)
	}

	var top fields
	if err := json.Unmarshal(raw, &top); err != nil {
		return Document{}, fmt.Errorf("%w: decode document: %v", domain.ErrInput, err)
	}
	if top == nil {
		return Document{}, fmt.Errorf("%w: document is null", domain.ErrMalformedInput)
	}
	return Document{fields: top}, nil
}

// Objects returns the object records, failing when the list is absent or not a
// list. Elements that are not objects are skipped.
func (d Document) Objects() ([]Object, error) {
	raw, ok := d.fields[ObjectListField]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrMalformedInput, ObjectListField)
	}
	objects, ok := decodeObjects(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a list of objects", domain.ErrMalformedInput, ObjectListField)
	}
	return objects, nil
}

// Section returns the nested record stored under name.
func (o Object) Section(name string) (Section, bool) {
	raw, ok := o.fields[name]
	if !ok {
		return Section{}, false
	}
	var sec fields
	if err := json.Unmarshal(raw, &sec); err != nil || sec == nil {
		return Section{}, false
	}
	return Section{fields: sec}, true
}

// Children returns the object records nested under field, e.g. ContainedObjects.
// Lists and maps of objects (States) are both accepted; anything else yields nil.
func (o Object) Children(field string) []Object {
	raw, ok := o.fields[field]
	if !ok {
		return nil
	}
	if objects, ok := decodeObjects(raw); ok {
		return objects
	}

	var byKey map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil
	}
	keys := slices.Sorted(maps.Keys(byKey))
	out := make([]Object, 0, len(keys))
	for _, k := range keys {
		if f, ok := decodeObject(byKey[k]); ok {
			out = append(out, Object{fields: f})
		}
	}
	return out
}

// String returns the field value if it is present and a JSON string.
func (s Section) String(field string) (string, bool) {
	raw, ok := s.fields[field]
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

// decodeObjects decodes a JSON list, keeping only the elements that are objects.
func decodeObjects(raw json.RawMessage) ([]Object, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	out := make([]Object, 0, len(list))
	for _, item := range list {
		if f, ok := decodeObject(item); ok {
			out = append(out, Object{fields: f})
		}
	}
	return out, true
}

func decodeObject(raw json.RawMessage) (fields, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, false
	}
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, false
	}
	return f, true
}
