package assets

import (
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetResolver_VersionsByContent(t *testing.T) {
	fsys := fstest.MapFS{
		"css/app.css": {Data: []byte("body{color:#111}")},
		"js/app.js":   {Data: []byte("console.log('ok')")},
	}
	r := NewAssetResolver(fsys, Options{})

	css := r.Resolve("css/app.css")
	js := r.Resolve("/js/app.js")

	assert.True(t, strings.HasPrefix(css, "/static/css/app.css?v="), css)
	assert.True(t, strings.HasPrefix(js, "/static/js/app.js?v="), js)
	assert.NotEqual(t, strings.TrimPrefix(css, "/static/css/app.css"), strings.TrimPrefix(js, "/static/js/app.js"))

	u, err := url.Parse(css)
	require.NoError(t, err)
	assert.True(t, IsVersioned(u.Query()))
}

func TestAssetResolver_MissingAssetFallsBack(t *testing.T) {
	r := NewAssetResolver(fstest.MapFS{}, Options{})
	assert.Equal(t, "/static/img/logo.svg", r.Resolve("img/logo.svg"))
}

func TestAssetResolver_ProdCachesDevRehashes(t *testing.T) {
	fsys := fstest.MapFS{"css/app.css": {Data: []byte("a")}}

	prod := NewAssetResolver(fsys, Options{})
	dev := NewAssetResolver(fsys, Options{DevMode: true})
	prodFirst, devFirst := prod.Resolve("css/app.css"), dev.Resolve("css/app.css")

	fsys["css/app.css"] = &fstest.MapFile{Data: []byte("b")}

	assert.Equal(t, prodFirst, prod.Resolve("css/app.css"))
	assert.NotEqual(t, devFirst, dev.Resolve("css/app.css"))
}

func TestAssetResolver_CleansTraversal(t *testing.T) {
	r := NewAssetResolver(fstest.MapFS{}, Options{})
	assert.Equal(t, "/static/etc/passwd", r.Resolve("../../etc/passwd"))
}

func TestResolveAsset_NilResolver(t *testing.T) {
	assert.Equal(t, "/static/css/app.css", ResolveAsset(nil, "/css/app.css"))
}

func TestIsVersioned(t *testing.T) {
	assert.True(t, IsVersioned(url.Values{"v": {"0a1b2c3d"}}))
	assert.False(t, IsVersioned(url.Values{"v": {"nothex!!"}}))
	assert.False(t, IsVersioned(url.Values{"v": {"abc"}}))
	assert.False(t, IsVersioned(url.Values{}))
}
