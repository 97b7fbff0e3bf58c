package userdata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_PreservesKeyOrder(t *testing.T) {
	src := []byte(`{
  "zip_code": "94103",
  "family_name": "Doe",
  "attorney": {"name": "Jane", "bar_number": 12345},
  "consent": false
}`)

	rec, err := ParseJSON(src)
	require.NoError(t, err)

	assert.Equal(t,
		`{"zip_code":"94103","family_name":"Doe","attorney":{"name":"Jane","bar_number":12345},"consent":false}`,
		string(rec.JSON()))
	assert.Equal(t, 4, rec.Len())
	assert.Equal(t, []string{"attorney", "consent", "family_name", "zip_code"}, rec.Keys())

	consent, ok := rec.Value("consent")
	require.True(t, ok)
	assert.Equal(t, false, consent)

	attorney, ok := rec.Value("attorney")
	require.True(t, ok)
	nested, ok := attorney.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("12345"), nested["bar_number"])
}

func TestParseJSON_RejectsNonMapping(t *testing.T) {
	for _, src := range []string{`[1, 2]`, `"text"`, `null`, `42`} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseJSON([]byte(src))
			assert.ErrorIs(t, err, ErrNotMapping)
		})
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := ParseJSON([]byte(`{"email": `))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotMapping)
}

func TestParseTOML(t *testing.T) {
	rec, err := ParseTOML([]byte(`
email = "a@b.com"
consent = true

[client]
family_name = "Doe"
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"client", "consent", "email"}, rec.Keys())
	assert.JSONEq(t, `{"email":"a@b.com","consent":true,"client":{"family_name":"Doe"}}`, string(rec.JSON()))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("json by default", func(t *testing.T) {
		path := filepath.Join(dir, "mock_data.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"email":"a@b.com"}`), 0o600))

		rec, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, `{"email":"a@b.com"}`, string(rec.JSON()))
	})

	t.Run("toml by extension", func(t *testing.T) {
		path := filepath.Join(dir, "people.TOML")
		require.NoError(t, os.WriteFile(path, []byte(`email = "a@b.com"`), 0o600))

		rec, err := Load(path)
		require.NoError(t, err)
		v, ok := rec.Value("email")
		require.True(t, ok)
		assert.Equal(t, "a@b.com", v)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid content names the file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotMapping)
		assert.Contains(t, err.Error(), "bad.json")
	})
}

func TestZeroRecordJSON(t *testing.T) {
	var rec Record
	assert.Equal(t, "{}", string(rec.JSON()))
	assert.Empty(t, rec.Keys())
}
