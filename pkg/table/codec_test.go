package table

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVCodec_RoundTrip(t *testing.T) {
	in := "id,name,zone\n1,alpha,north\n2,\"beta, the second\",\n"

	codec := &CSVCodec{}
	tbl, err := codec.Load(strings.NewReader(in), "test.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "zone"}, tbl.Fields())
	require.Equal(t, 2, tbl.NumRows())

	v, err := tbl.Cell(1, "name")
	require.NoError(t, err)
	assert.Equal(t, "beta, the second", v)

	var buf bytes.Buffer
	require.NoError(t, codec.Save(&buf, tbl))

	again, err := codec.Load(&buf, "again.csv")
	require.NoError(t, err)
	assert.Equal(t, tbl.Fields(), again.Fields())
	assert.Equal(t, tbl.NumRows(), again.NumRows())
}

func TestCSVCodec_RaggedRows(t *testing.T) {
	in := "a,b,c\n1\n1,2,3,4\n"

	tbl, err := (&CSVCodec{}).Load(strings.NewReader(in), "ragged.csv")
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NumRows())

	v, err := tbl.Cell(0, "c")
	require.NoError(t, err)
	assert.Empty(t, v)

	v, err = tbl.Cell(1, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestCSVCodec_EmptyFile(t *testing.T) {
	_, err := (&CSVCodec{}).Load(strings.NewReader(""), "empty.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty CSV file")
}

func TestGeoJSONCodec_RoundTrip(t *testing.T) {
	in := `{
	  "type": "FeatureCollection",
	  "features": [
	    {
	      "type": "Feature",
	      "geometry": {"type": "Point", "coordinates": [1.5, 2.5]},
	      "properties": {"id": 7, "name": "alpha", "active": true}
	    },
	    {
	      "type": "Feature",
	      "geometry": null,
	      "properties": {"id": 8, "name": null, "extra": "x"}
	    }
	  ]
	}`

	codec := &GeoJSONCodec{}
	tbl, err := codec.Load(strings.NewReader(in), "test.geojson")
	require.NoError(t, err)

	assert.Equal(t, []string{"active", "id", "name", "extra"}, tbl.Fields())
	require.Equal(t, 2, tbl.NumRows())

	v, err := tbl.Cell(0, "id")
	require.NoError(t, err)
	assert.Equal(t, "7", v)

	v, err = tbl.Cell(0, "active")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	v, err = tbl.Cell(1, "name")
	require.NoError(t, err)
	assert.Empty(t, v)

	assert.Contains(t, string(tbl.RowPayload(0)), `"Point"`)

	var buf bytes.Buffer
	require.NoError(t, codec.Save(&buf, tbl))

	again, err := codec.Load(&buf, "again.geojson")
	require.NoError(t, err)
	assert.Equal(t, tbl.NumRows(), again.NumRows())

	// Geometry survives the attribute round trip untouched.
	assert.JSONEq(t, string(tbl.RowPayload(0)), string(again.RowPayload(0)))
}

func TestGeoJSONCodec_PreservesPropertyTypes(t *testing.T) {
	in := `{
	  "type": "FeatureCollection",
	  "features": [
	    {
	      "type": "Feature",
	      "geometry": {"type": "Point", "coordinates": [1.5, 2.5]},
	      "properties": {"id": 7, "score": 1.5, "active": true, "name": "alpha", "note": null}
	    }
	  ]
	}`

	codec := &GeoJSONCodec{}
	tbl, err := codec.Load(strings.NewReader(in), "typed.geojson")
	require.NoError(t, err)

	require.NoError(t, tbl.SetCell(0, "name", "beta"))

	var buf bytes.Buffer
	require.NoError(t, codec.Save(&buf, tbl))

	var coll struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &coll))
	require.Len(t, coll.Features, 1)

	props := coll.Features[0].Properties
	assert.Equal(t, float64(7), props["id"])
	assert.Equal(t, 1.5, props["score"])
	assert.Equal(t, true, props["active"])

	// Null stays null rather than turning into an empty string.
	v, ok := props["note"]
	require.True(t, ok)
	assert.Nil(t, v)

	// The rewritten cell is emitted as a string.
	assert.Equal(t, "beta", props["name"])
}

func TestGeoJSONCodec_RejectsNonCollection(t *testing.T) {
	_, err := (&GeoJSONCodec{}).Load(strings.NewReader(`{"type":"Feature"}`), "f.geojson")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FeatureCollection")
}

func TestLoadSave_ByExtension(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,alpha\n"), 0644))

	tbl, err := Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.NumRows())

	require.NoError(t, tbl.SetCell(0, "name", "beta"))
	require.NoError(t, Save(ctx, path, tbl))

	again, err := Load(ctx, path)
	require.NoError(t, err)
	v, err := again.Cell(0, "name")
	require.NoError(t, err)
	assert.Equal(t, "beta", v)

	_, err = Load(ctx, filepath.Join(dir, "data.xyz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no codec")
}

func TestGetCodec(t *testing.T) {
	c, err := GetCodec("csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", c.Name())

	_, err = GetCodec("shapefile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "options:")
}
