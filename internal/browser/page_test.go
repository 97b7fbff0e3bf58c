package browser

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/config"
)

func TestAttrSelector(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		attr string
		val  string
		want string
	}{
		{"plain id", "", "id", "email1", `[id="email1"]`},
		{"metacharacters", "", "id", "a:b.c[0]", `[id="a:b.c[0]"]`},
		{"quote", "", "id", `say"hi`, `[id="say\"hi"]`},
		{"backslash", "", "id", `a\b`, `[id="a\\b"]`},
		{"label for", "label", "for", "zip", `label[for="zip"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AttrSelector(tt.tag, tt.attr, tt.val))
		})
	}
}

func TestIDSelector_ResolvesAwkwardIDs(t *testing.T) {
	page, err := NewStaticPage(strings.NewReader(
		`<input id="q&quot;1"><input id="a\b"><input id="x:y">`))
	require.NoError(t, err)

	for _, id := range []string{`q"1`, `a\b`, "x:y"} {
		el, err := page.Query(context.Background(), IDSelector(id))
		require.NoError(t, err)
		require.NotNil(t, el, id)
		got, _, _ := el.Attribute("id")
		assert.Equal(t, id, got)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.BrowserConfig{Driver: "lynx"}, zap.NewNop())
	assert.ErrorContains(t, err, "unknown browser driver")
}

func TestParseFlag(t *testing.T) {
	name, value := parseFlag("--disable-blink-features=AutomationControlled")
	assert.Equal(t, "disable-blink-features", name)
	assert.Equal(t, "AutomationControlled", value)

	name, value = parseFlag("--no-sandbox")
	assert.Equal(t, "no-sandbox", name)
	assert.Equal(t, true, value)

	name, _ = parseFlag("  ")
	assert.Empty(t, name)
}

func TestChromeElement_ReadsStopWithQueryContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	el := &chromeElement{
		s:    &ChromeSession{timeout: time.Second},
		node: &cdp.Node{NodeName: "input", Attributes: []string{"id", "x"}},
		ctx:  ctx,
	}

	_, err := el.InnerText()
	assert.ErrorIs(t, err, context.Canceled)
	_, ok, err := el.ClosestLabelText()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)

	tag, err := el.TagName()
	require.NoError(t, err)
	assert.Equal(t, "INPUT", tag)
	id, ok, err := el.Attribute("id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", id)
}
