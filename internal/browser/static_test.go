package browser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staticForm = `<!doctype html>
<html><body>
<form>
  <label for="first">First   name</label>
  <input id="first" name="first_name" type="text">
  <textarea id="notes"></textarea>
  <label>Country
    <select id="country" name="country">
      <option value="">--</option>
      <option value="US">United States</option>
      <option value="TR" selected>Turkey</option>
    </select>
  </label>
  <input id="consent" type="checkbox">
  <input id="odd:id.x" type="text">
</form>
</body></html>`

func newStaticForm(t *testing.T) *StaticPage {
	t.Helper()
	page, err := NewStaticPage(strings.NewReader(staticForm))
	require.NoError(t, err)
	return page
}

func TestStaticPage_QueryAllKeepsDocumentOrder(t *testing.T) {
	page := newStaticForm(t)

	els, err := page.QueryAll(context.Background(), "textarea, select, input")
	require.NoError(t, err)
	require.Len(t, els, 5)

	var ids []string
	for _, el := range els {
		id, ok, err := el.Attribute("id")
		require.NoError(t, err)
		require.True(t, ok)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"first", "notes", "country", "consent", "odd:id.x"}, ids)
}

func TestStaticPage_ElementAccessors(t *testing.T) {
	page := newStaticForm(t)
	ctx := context.Background()

	label, err := page.Query(ctx, AttrSelector("label", "for", "first"))
	require.NoError(t, err)
	require.NotNil(t, label)
	text, err := label.InnerText()
	require.NoError(t, err)
	assert.Equal(t, "First name", text)

	sel, err := page.Query(ctx, IDSelector("country"))
	require.NoError(t, err)
	require.NotNil(t, sel)

	tag, err := sel.TagName()
	require.NoError(t, err)
	assert.Equal(t, "SELECT", tag)

	_, ok, err := sel.Attribute("placeholder")
	require.NoError(t, err)
	assert.False(t, ok)

	wrapped, ok, err := sel.ClosestLabelText()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(wrapped, "Country"))

	first, err := page.Query(ctx, IDSelector("first"))
	require.NoError(t, err)
	_, ok, err = first.ClosestLabelText()
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := page.Query(ctx, IDSelector("nope"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStaticPage_Actions(t *testing.T) {
	page := newStaticForm(t)
	ctx := context.Background()

	require.NoError(t, page.Fill(ctx, IDSelector("first"), "Ada"))
	require.NoError(t, page.Fill(ctx, IDSelector("notes"), "hello"))
	require.NoError(t, page.Fill(ctx, IDSelector("odd:id.x"), "meta"))
	require.NoError(t, page.Check(ctx, IDSelector("consent")))
	require.NoError(t, page.SelectOption(ctx, IDSelector("country"), "United States"))

	v, ok := page.Value(IDSelector("first"))
	require.True(t, ok)
	assert.Equal(t, "Ada", v)

	v, ok = page.Value(IDSelector("notes"))
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	v, ok = page.Value(IDSelector("odd:id.x"))
	require.True(t, ok)
	assert.Equal(t, "meta", v)

	sel, err := page.find(`#country option[selected]`)
	require.NoError(t, err)
	require.Equal(t, 1, sel.Length())
	assert.Equal(t, "US", sel.AttrOr("value", ""))

	assert.Equal(t, []AppliedAction{
		{Verb: "fill", Selector: IDSelector("first"), Value: "Ada"},
		{Verb: "fill", Selector: IDSelector("notes"), Value: "hello"},
		{Verb: "fill", Selector: IDSelector("odd:id.x"), Value: "meta"},
		{Verb: "check", Selector: IDSelector("consent")},
		{Verb: "select_option", Selector: IDSelector("country"), Value: "United States"},
	}, page.Applied())
}

func TestStaticPage_ActionMismatches(t *testing.T) {
	page := newStaticForm(t)
	ctx := context.Background()

	err := page.Fill(ctx, IDSelector("missing"), "x")
	assert.ErrorIs(t, err, ErrNoElement)

	assert.Error(t, page.Fill(ctx, IDSelector("consent"), "yes"))
	assert.Error(t, page.Fill(ctx, IDSelector("country"), "US"))
	assert.Error(t, page.Check(ctx, IDSelector("first")))
	assert.Error(t, page.SelectOption(ctx, IDSelector("first"), "US"))
	assert.Error(t, page.SelectOption(ctx, IDSelector("country"), "Atlantis"))

	assert.Empty(t, page.Applied())
}

func TestStaticPage_InvalidSelector(t *testing.T) {
	page := newStaticForm(t)
	ctx := context.Background()
	const bad = `input[`

	_, err := page.QueryAll(ctx, bad)
	assert.ErrorContains(t, err, "invalid selector")
	_, err = page.Query(ctx, bad)
	assert.ErrorContains(t, err, "invalid selector")

	err = page.Fill(ctx, bad, "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoElement)

	_, ok := page.Value(bad)
	assert.False(t, ok)
	assert.Empty(t, page.Applied())
}

func TestStaticPage_CanceledContext(t *testing.T) {
	page := newStaticForm(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := page.QueryAll(ctx, "input")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, page.Navigate(ctx, "http://example.com"), context.Canceled)
	assert.ErrorIs(t, page.Fill(ctx, IDSelector("first"), "x"), context.Canceled)
}

func TestLoadStaticPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.html")
	require.NoError(t, os.WriteFile(path, []byte(staticForm), 0o644))

	page, err := LoadStaticPage(path)
	require.NoError(t, err)
	els, err := page.QueryAll(context.Background(), "input")
	require.NoError(t, err)
	assert.Len(t, els, 3)

	_, err = LoadStaticPage(filepath.Join(t.TempDir(), "absent.html"))
	assert.Error(t, err)
}
