package frontend

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// assetFiles holds the admin page, its stylesheet and the HTML fragments.
// The final binary includes every file under assets/.
//
//go:embed assets
var assetFiles embed.FS

// Registry names of the compiled-in assets.
const (
	AdminPageName = "ADMINPAGE_HTML"
	IndexCSSName  = "CSS_INDEX_CSS"
	StateName     = "STATE_HTML"
)

// routeOverrides maps asset paths to routes that differ from "/" + path.
var routeOverrides = map[string]string{
	"adminpage.html": "/admin",
	"state.html":     "/state",
}

// Registry groups the assets of one asset tree by name and by route.
type Registry struct {
	byName  map[string]Asset
	byRoute map[string]Asset
}

// Load builds a registry from every regular file in fsys.
// Names are derived from the file path (see AssetName).
func Load(fsys fs.FS) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]Asset),
		byRoute: make(map[string]Asset),
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", p, err)
		}
		a, err := newAsset(p, routeFor(p), string(data))
		if err != nil {
			return err
		}
		if prev, dup := r.byName[a.name]; dup {
			return fmt.Errorf("asset %s: duplicate name %s (already used by %s)", p, a.name, prev.Path())
		}
		if prev, dup := r.byRoute[a.route]; dup {
			return fmt.Errorf("asset %s: duplicate route %s (already used by %s)", p, a.route, prev.Path())
		}
		r.byName[a.name] = a
		r.byRoute[a.route] = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	return r, nil
}

func routeFor(p string) string {
	if route, ok := routeOverrides[p]; ok {
		return route
	}
	return "/" + p
}

// Names returns the sorted names of all registered assets.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the asset registered under name.
func (r *Registry) Lookup(name string) (Asset, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// ByRoute returns the asset served at route.
func (r *Registry) ByRoute(route string) (Asset, bool) {
	a, ok := r.byRoute[route]
	return a, ok
}

var defaultRegistry = mustLoadEmbedded()

func mustLoadEmbedded() *Registry {
	sub, err := fs.Sub(assetFiles, "assets")
	if err != nil {
		panic(fmt.Sprintf("frontend: sub assets fs: %v", err))
	}
	r, err := Load(sub)
	if err != nil {
		panic(fmt.Sprintf("frontend: %v", err))
	}
	for _, name := range []string{AdminPageName, IndexCSSName, StateName} {
		if _, ok := r.Lookup(name); !ok {
			panic("frontend: missing embedded asset " + name)
		}
	}
	return r
}

// Default returns the registry of the compiled-in assets.
func Default() *Registry {
	return defaultRegistry
}

// Names returns the sorted names of the compiled-in assets.
func Names() []string { return defaultRegistry.Names() }

// Lookup returns the compiled-in asset registered under name.
func Lookup(name string) (Asset, bool) { return defaultRegistry.Lookup(name) }

// ByRoute returns the compiled-in asset served at route.
func ByRoute(route string) (Asset, bool) { return defaultRegistry.ByRoute(route) }

// AdminPageHTML returns the LED control page.
func AdminPageHTML() string {
	return defaultRegistry.byName[AdminPageName].text
}

// IndexCSS returns the stylesheet linked from the admin page.
func IndexCSS() string {
	return defaultRegistry.byName[IndexCSSName].text
}
