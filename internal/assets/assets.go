// Package assets handles WAD mounting and lump caching.
package assets

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Faultbox/wadgfx/pkg/gfx"
	"github.com/Faultbox/wadgfx/pkg/wad"
)

// ErrTextureNotFound reports a texture name absent from every
// mounted directory.
var ErrTextureNotFound = errors.New("assets: texture not found")

// Manager mounts one or more WAD archives and serves lump reads and
// parsed tables from them. Later mounts override earlier ones, the
// usual IWAD-plus-patches model. Safe for concurrent use; the HTTP
// server reads through one shared manager.
type Manager struct {
	mu     sync.RWMutex
	mounts []*wad.Archive
	cache  *Cache

	parseMu  sync.Mutex
	playpal  *gfx.Playpal
	colormap *gfx.Colormap
	pnames   *gfx.PNames
	texdirs  []*gfx.TextureDir
}

// NewManager creates an empty asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// Mount opens a WAD file and appends it to the search list.
func (m *Manager) Mount(path string) error {
	archive, err := wad.Open(path)
	if err != nil {
		return fmt.Errorf("mounting %s: %w", path, err)
	}
	m.MountArchive(archive)
	return nil
}

// MountArchive appends an already-open archive to the search list.
func (m *Manager) MountArchive(archive *wad.Archive) {
	m.mu.Lock()
	m.mounts = append(m.mounts, archive)
	m.mu.Unlock()
}

// Close closes all mounted archives and drops the caches.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, archive := range m.mounts {
		archive.Close()
	}
	m.mounts = nil
	m.cache.Clear()
}

// Read reads a lump by name, searching mounts in reverse order so the
// latest mount wins. Satisfies gfx.LumpSource.
func (m *Manager) Read(name string) ([]byte, error) {
	key := wad.NormalizeName(name)
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.mounts) - 1; i >= 0; i-- {
		if !m.mounts[i].Contains(key) {
			continue
		}
		data, err := m.mounts[i].Read(key)
		if err != nil {
			return nil, err
		}
		m.cache.Set(key, data)
		return data, nil
	}

	return nil, fmt.Errorf("%w: %s", wad.ErrLumpNotFound, name)
}

// Contains reports whether any mount carries the lump.
func (m *Manager) Contains(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, archive := range m.mounts {
		if archive.Contains(name) {
			return true
		}
	}
	return false
}

// List returns the directory entries of every mount, in mount order.
func (m *Manager) List() []wad.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []wad.Entry
	for _, archive := range m.mounts {
		entries = append(entries, archive.List()...)
	}
	return entries
}

// Playpal returns the parsed PLAYPAL lump, parsing it once.
func (m *Manager) Playpal() (*gfx.Playpal, error) {
	m.parseMu.Lock()
	defer m.parseMu.Unlock()

	if m.playpal != nil {
		return m.playpal, nil
	}
	data, err := m.Read("PLAYPAL")
	if err != nil {
		return nil, err
	}
	p, err := gfx.ParsePlaypal(data)
	if err != nil {
		return nil, err
	}
	m.playpal = p
	return p, nil
}

// Colormap returns the parsed COLORMAP lump, parsing it once.
func (m *Manager) Colormap() (*gfx.Colormap, error) {
	m.parseMu.Lock()
	defer m.parseMu.Unlock()

	if m.colormap != nil {
		return m.colormap, nil
	}
	data, err := m.Read("COLORMAP")
	if err != nil {
		return nil, err
	}
	c, err := gfx.ParseColormap(data)
	if err != nil {
		return nil, err
	}
	m.colormap = c
	return c, nil
}

// PNames returns the parsed PNAMES lump, parsing it once.
func (m *Manager) PNames() (*gfx.PNames, error) {
	m.parseMu.Lock()
	defer m.parseMu.Unlock()

	if m.pnames != nil {
		return m.pnames, nil
	}
	data, err := m.Read("PNAMES")
	if err != nil {
		return nil, err
	}
	p, err := gfx.ParsePNames(data)
	if err != nil {
		return nil, err
	}
	m.pnames = p
	return p, nil
}

// TextureDirs returns the parsed TEXTURE1 and, when present, TEXTURE2
// directories, parsing them once. TEXTURE1 is required.
func (m *Manager) TextureDirs() ([]*gfx.TextureDir, error) {
	m.parseMu.Lock()
	defer m.parseMu.Unlock()

	if m.texdirs != nil {
		return m.texdirs, nil
	}

	var dirs []*gfx.TextureDir
	for _, name := range []string{"TEXTURE1", "TEXTURE2"} {
		data, err := m.Read(name)
		if err != nil {
			if name == "TEXTURE2" && errors.Is(err, wad.ErrLumpNotFound) {
				continue
			}
			return nil, err
		}
		dir, err := gfx.ParseTextureDir(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		dirs = append(dirs, dir)
	}
	m.texdirs = dirs
	return dirs, nil
}

// FindTexture looks a texture up across both directories.
func (m *Manager) FindTexture(name string) (*gfx.Texture, error) {
	dirs, err := m.TextureDirs()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if tex, ok := dir.Find(name); ok {
			return tex, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTextureNotFound, name)
}

// Resolver builds a patch resolver over the mounted archives. The
// eager flavor decodes every named patch up front.
func (m *Manager) Resolver(eager bool) (gfx.PatchResolver, error) {
	names, err := m.PNames()
	if err != nil {
		return nil, err
	}
	if eager {
		return gfx.NewEagerResolver(names, m), nil
	}
	return gfx.NewLazyResolver(names, m), nil
}

// Cache is a simple in-memory cache for lump bytes.
type Cache struct {
	mu   sync.RWMutex
	data map[string][]byte

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear drops all cached entries and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
