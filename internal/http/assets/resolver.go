package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync"
)

// VersionParam is the query parameter carrying an asset's content hash.
const VersionParam = "v"

// hashLen is the number of hex characters kept from the sha256 digest.
const hashLen = 8

// Options configures an AssetResolver.
type Options struct {
	// DevMode disables caching so edited files get a fresh version on the next render.
	DevMode bool
	Logger  *slog.Logger
}

// AssetResolver turns logical asset names ("css/app.css") into cache-busted
// URLs ("/static/css/app.css?v=1a2b3c4d") using a hash of the file content.
type AssetResolver struct {
	fsys    fs.FS
	devMode bool
	logger  *slog.Logger

	mu     sync.RWMutex
	hashes map[string]string
}

// NewAssetResolver creates a resolver over the static filesystem rooted at /static.
func NewAssetResolver(fsys fs.FS, opts Options) *AssetResolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetResolver{
		fsys:    fsys,
		devMode: opts.DevMode,
		logger:  logger,
		hashes:  make(map[string]string),
	}
}

// Resolve returns the public URL for a logical asset name. Missing assets
// resolve to their unversioned path so a broken reference is visible in the browser.
func (ar *AssetResolver) Resolve(logicalName string) string {
	name := strings.TrimPrefix(path.Clean("/"+logicalName), "/")
	plain := "/static/" + name

	hash, err := ar.hash(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			ar.logger.Error("failed to hash asset", slog.String("asset", name), slog.Any("error", err))
		}
		return plain
	}
	return plain + "?" + url.Values{VersionParam: {hash}}.Encode()
}

func (ar *AssetResolver) hash(name string) (string, error) {
	if !ar.devMode {
		ar.mu.RLock()
		h, ok := ar.hashes[name]
		ar.mu.RUnlock()
		if ok {
			return h, nil
		}
	}

	if ar.fsys == nil {
		return "", fs.ErrNotExist
	}
	data, err := fs.ReadFile(ar.fsys, name)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	h := hex.EncodeToString(sum[:])[:hashLen]

	if !ar.devMode {
		ar.mu.Lock()
		ar.hashes[name] = h
		ar.mu.Unlock()
	}
	return h, nil
}

// ResolveAsset resolves a logical asset name, tolerating a nil resolver.
func ResolveAsset(resolver *AssetResolver, logicalName string) string {
	if resolver == nil {
		return "/static/" + strings.TrimPrefix(logicalName, "/")
	}
	return resolver.Resolve(logicalName)
}

// IsVersioned reports whether a query string carries a content hash.
func IsVersioned(q url.Values) bool {
	v := q.Get(VersionParam)
	if len(v) != hashLen {
		return false
	}
	_, err := hex.DecodeString(v)
	return err == nil
}
