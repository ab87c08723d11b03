// Package route implements the immutable public-path to filesystem-path
// mapping seeded once at startup. Routing is a plain map rather than a
// generic hash table — there is only ever a handful of entries, all known
// before the first worker goroutine starts.
package route

// MaxKeyLen bounds a route's public path, matching the route table's
// documented key size.
const MaxKeyLen = 1024

// Table is a read-only string-to-string map once Seed has populated it.
// There is no locking: all writes happen during startup before any worker
// goroutine is spawned.
type Table struct {
	routes map[string]string
}

// New returns an empty route table.
func New() *Table {
	return &Table{routes: make(map[string]string)}
}

// Add inserts or overwrites the mapping from publicPath to fsPath.
// Paths longer than MaxKeyLen are rejected silently, matching the bounded
// key contract.
func (t *Table) Add(publicPath, fsPath string) {
	if len(publicPath) > MaxKeyLen {
		return
	}
	t.routes[publicPath] = fsPath
}

// Lookup returns the filesystem path mapped to publicPath, if any.
func (t *Table) Lookup(publicPath string) (string, bool) {
	fsPath, ok := t.routes[publicPath]
	return fsPath, ok
}

// Seed populates t with the server's fixed route set.
func Seed(t *Table) {
	for _, r := range DefaultRoutes {
		t.Add(r.PublicPath, r.FSPath)
	}
}

// Route is one (public path, filesystem path) pair.
type Route struct {
	PublicPath string
	FSPath     string
}

// DefaultRoutes is the route set loaded at startup.
var DefaultRoutes = []Route{
	{"/", "html/index.html"},
	{"/apple-touch-icon.png", "html/apple-touch-icon.png"},
	{"/favicon.png", "html/favicon.png"},
	{"/common.css", "html/common.css"},
	{"/test/test.html", "html/test/test.html"},
}
