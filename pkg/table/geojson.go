package table

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&GeoJSONCodec{})
}

// GeoJSONCodec maps FeatureCollection properties to table rows. Geometry and
// the original property values are carried as an opaque per-row payload, so
// attribute operations never see or disturb the geometry, and untouched
// cells keep their original JSON type on save.
type GeoJSONCodec struct{}

type geoFeature struct {
	Type       string                     `json:"type"`
	Geometry   json.RawMessage            `json:"geometry"`
	Properties map[string]json.RawMessage `json:"properties"`
}

type geoCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

// geoPayload is the per-row payload: the untouched geometry plus the raw
// property values as loaded.
type geoPayload struct {
	Geometry   json.RawMessage            `json:"geometry"`
	Properties map[string]json.RawMessage `json:"properties"`
}

func (c *GeoJSONCodec) Name() string {
	return "geojson"
}

func (c *GeoJSONCodec) Extensions() []string {
	return []string{".geojson", ".json"}
}

func (c *GeoJSONCodec) Load(r io.Reader, name string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	var coll geoCollection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, errors.Errorf("parsing GeoJSON: %w", err)
	}
	if coll.Type != "FeatureCollection" {
		return nil, errors.Errorf("expected FeatureCollection, got %q", coll.Type)
	}

	fields := stableFieldOrder(coll.Features)

	t := New(name, fields)
	for i, f := range coll.Features {
		row := make([]string, len(fields))
		for j, field := range fields {
			if raw, ok := f.Properties[field]; ok {
				row[j] = rawPropertyString(raw)
			}
		}
		if err := t.AppendRow(row); err != nil {
			return nil, err
		}

		payload, err := json.Marshal(geoPayload{
			Geometry:   f.Geometry,
			Properties: f.Properties,
		})
		if err != nil {
			return nil, errors.Errorf("encoding row payload: %w", err)
		}
		if err := t.SetRowPayload(i, payload); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (c *GeoJSONCodec) Save(w io.Writer, t *Table) error {
	coll := geoCollection{
		Type:     "FeatureCollection",
		Features: make([]geoFeature, 0, t.NumRows()),
	}
	fields := t.Fields()
	for i, row := range t.Rows() {
		var orig geoPayload
		if payload := t.RowPayload(i); payload != nil {
			if err := json.Unmarshal(payload, &orig); err != nil {
				return errors.Errorf("decoding row payload: %w", err)
			}
		}

		props := make(map[string]json.RawMessage, len(fields))
		for j, field := range fields {
			cell := row[j]
			raw, ok := orig.Properties[field]
			switch {
			case ok && rawPropertyString(raw) == cell:
				// Cells the operations never rewrote keep their original
				// JSON value, so numbers stay numbers and nulls stay nulls.
				props[field] = raw
			case !ok && cell == "":
				// The feature never had this property and nothing wrote it.
			default:
				data, err := json.Marshal(cell)
				if err != nil {
					return errors.Errorf("encoding property %q: %w", field, err)
				}
				props[field] = data
			}
		}

		coll.Features = append(coll.Features, geoFeature{
			Type:       "Feature",
			Geometry:   orig.Geometry,
			Properties: props,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(coll); err != nil {
		return errors.Errorf("encoding GeoJSON: %w", err)
	}
	return nil
}

// stableFieldOrder derives a deterministic field order: keys of each feature
// sorted, merged in feature order, first occurrence wins.
func stableFieldOrder(features []geoFeature) []string {
	var fields []string
	seen := map[string]bool{}
	for _, f := range features {
		keys := make([]string, 0, len(f.Properties))
		for k := range f.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				fields = append(fields, k)
			}
		}
	}
	return fields
}

// rawPropertyString renders a raw GeoJSON property as a cell.
func rawPropertyString(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return propertyString(v)
}

// propertyString renders a GeoJSON property as a cell. Numbers keep their
// shortest representation, null becomes the empty cell.
func propertyString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
