// Package registry provides the catalog of playable cartridges.
// Bundled cartridges are embedded in the binary and registered in init();
// any directory holding the script sources can be opened as well.
package registry

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the optional metadata file inside a cartridge.
const ManifestFile = "cart.yaml"

//go:embed carts
var bundled embed.FS

// Manifest holds cartridge metadata.
type Manifest struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
}

// Cart is a loadable cartridge: a file tree with its script sources.
type Cart struct {
	ID       string
	Manifest Manifest
	FS       fs.FS
	Bundled  bool
	Path     string // Directory on disk, empty for bundled carts
}

// Title returns the display name, falling back to the ID.
func (c Cart) Title() string {
	if c.Manifest.Title != "" {
		return c.Manifest.Title
	}
	return c.ID
}

// CartInfo contains metadata about a registered cartridge.
type CartInfo struct {
	ID          string
	Title       string
	Description string
}

var (
	carts = make(map[string]Cart)
	mu    sync.RWMutex
)

func init() {
	entries, err := fs.ReadDir(bundled, "carts")
	if err != nil {
		panic(fmt.Sprintf("registry: bundled carts: %v", err))
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub, err := fs.Sub(bundled, "carts/"+e.Name())
		if err != nil {
			panic(fmt.Sprintf("registry: bundled cart %q: %v", e.Name(), err))
		}
		cart, err := newCart(e.Name(), sub)
		if err != nil {
			panic(err.Error())
		}
		cart.Bundled = true
		Register(cart)
	}
}

// Register adds a cartridge to the catalog.
// Panics if a cartridge with the same ID is already registered.
func Register(c Cart) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := carts[c.ID]; exists {
		panic(fmt.Sprintf("registry: cart %q already registered", c.ID))
	}
	carts[c.ID] = c
}

// List returns information about all registered cartridges, sorted by ID.
func List() []CartInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]CartInfo, 0, len(carts))
	for id, c := range carts {
		result = append(result, CartInfo{
			ID:          id,
			Title:       c.Title(),
			Description: c.Manifest.Description,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns a registered cartridge by its ID.
func Get(id string) (Cart, error) {
	mu.RLock()
	defer mu.RUnlock()

	c, ok := carts[id]
	if !ok {
		return Cart{}, fmt.Errorf("registry: unknown cart %q", id)
	}
	return c, nil
}

// Exists checks if a cartridge with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := carts[id]
	return ok
}

// OpenDir opens a cartridge from a directory on disk.
func OpenDir(dir string) (Cart, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Cart{}, fmt.Errorf("registry: %w", err)
	}
	if !info.IsDir() {
		return Cart{}, fmt.Errorf("registry: %s is not a directory", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Cart{}, fmt.Errorf("registry: %w", err)
	}
	cart, err := newCart(filepath.Base(abs), os.DirFS(abs))
	if err != nil {
		return Cart{}, err
	}
	cart.Path = abs
	return cart, nil
}

// Resolve finds a cartridge by bundled ID first, then as a directory path.
func Resolve(ref string) (Cart, error) {
	if c, err := Get(ref); err == nil {
		return c, nil
	}
	c, err := OpenDir(ref)
	if err != nil {
		return Cart{}, fmt.Errorf("registry: %q is neither a bundled cart nor a cart directory", ref)
	}
	return c, nil
}

func newCart(id string, fsys fs.FS) (Cart, error) {
	cart := Cart{ID: id, FS: fsys}

	data, err := fs.ReadFile(fsys, ManifestFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cart, nil
	case err != nil:
		return Cart{}, fmt.Errorf("registry: cart %q: %w", id, err)
	}
	if err := yaml.Unmarshal(data, &cart.Manifest); err != nil {
		return Cart{}, fmt.Errorf("registry: cart %q: %s: %w", id, ManifestFile, err)
	}
	return cart, nil
}
