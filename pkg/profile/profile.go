// Package profile loads provider attribute profiles and hint documents
// written in YAML.
//
// A profile declares one provider:
//
//	provider: verbs
//	version: "1.0"
//	infos:
//	  - caps: [MSG, RMA]
//	    domain: {name: mlx5_0, threading: SAFE}
//
// Layered providers add a layer section describing how requests are
// rewritten for the base provider. Hint documents use the info schema on
// its own. Flag and enum names may be written with or without their "FI_"
// and family prefixes.
package profile

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/layer"
	"github.com/layerfab/layerfab-go/pkg/version"
)

//go:embed profiles/*.yaml
var profileFS embed.FS

// Profile errors.
var (
	ErrNoProvider = errors.New("profile has no provider name")
	ErrNoInfos    = errors.New("profile declares no infos")
)

// Profile is the YAML form of a provider declaration.
type Profile struct {
	Provider    string     `yaml:"provider"`
	Version     string     `yaml:"version"`
	Description string     `yaml:"description,omitempty"`
	Layer       *LayerSpec `yaml:"layer,omitempty"`
	Infos       []InfoSpec `yaml:"infos"`
}

// LayerSpec describes how a layered provider rewrites requests.
type LayerSpec struct {
	Mode       []string `yaml:"mode,omitempty"`
	BaseCaps   []string `yaml:"base_caps,omitempty"`
	BaseEPType string   `yaml:"base_ep_type,omitempty"`
}

// IsLayer reports whether the profile declares a layered provider.
func (p *Profile) IsLayer() bool {
	return p.Layer != nil
}

// PackedVersion returns the provider version in its packed form.
// An empty version packs to zero.
func (p *Profile) PackedVersion() (uint32, error) {
	if p.Version == "" {
		return 0, nil
	}
	v, err := version.Parse(p.Version)
	if err != nil {
		return 0, err
	}
	return v.Uint32(), nil
}

// FabricInfos converts every declared info.
func (p *Profile) FabricInfos() ([]*fabric.Info, error) {
	out := make([]*fabric.Info, 0, len(p.Infos))
	for i := range p.Infos {
		info, err := p.Infos[i].Info()
		if err != nil {
			return nil, fmt.Errorf("%s: info %d: %w", p.Provider, i, err)
		}
		out = append(out, info)
	}
	return out, nil
}

// Translator builds the name translator for a layered profile. The layer's
// presented endpoint is taken from its first info.
func (p *Profile) Translator() (*layer.NameTranslator, error) {
	ver, err := p.PackedVersion()
	if err != nil {
		return nil, err
	}
	tr := &layer.NameTranslator{Prefix: p.Provider, Version: ver}
	if p.Layer == nil {
		return tr, nil
	}

	if tr.Mode, err = fabric.ParseMode(p.Layer.Mode); err != nil {
		return nil, err
	}
	if tr.BaseCaps, err = fabric.ParseCaps(p.Layer.BaseCaps); err != nil {
		return nil, err
	}
	if tr.BaseEndpointType, err = fabric.ParseEndpointType(p.Layer.BaseEPType); err != nil {
		return nil, err
	}
	if len(p.Infos) > 0 && p.Infos[0].Endpoint != nil {
		ep, err := p.Infos[0].Endpoint.attr()
		if err != nil {
			return nil, err
		}
		tr.EndpointType = ep.Type
		tr.Protocol = ep.Protocol
	}
	return tr, nil
}

// Validate checks that the profile is complete and that every info
// converts.
func (p *Profile) Validate() error {
	if p.Provider == "" {
		return ErrNoProvider
	}
	if len(p.Infos) == 0 {
		return fmt.Errorf("%s: %w", p.Provider, ErrNoInfos)
	}
	if _, err := p.PackedVersion(); err != nil {
		return fmt.Errorf("%s: %w", p.Provider, err)
	}
	if _, err := p.FabricInfos(); err != nil {
		return err
	}
	if _, err := p.Translator(); err != nil {
		return fmt.Errorf("%s: layer: %w", p.Provider, err)
	}
	return nil
}

// Parse decodes and validates a profile document.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ---------------------------------------------------------------------------
// Built-in profiles
// ---------------------------------------------------------------------------

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Profile)
)

// Load returns the built-in profile for a provider name (e.g. "verbs").
// Profiles are parsed once and shared; callers must not modify them.
func Load(name string) (*Profile, error) {
	cacheMu.RLock()
	if p, ok := cache[name]; ok {
		cacheMu.RUnlock()
		return p, nil
	}
	cacheMu.RUnlock()

	data, err := profileFS.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("profile %q not found: %w", name, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	cacheMu.Lock()
	cache[name] = p
	cacheMu.Unlock()

	return p, nil
}

// Available returns the names of all built-in profiles, sorted.
func Available() ([]string, error) {
	entries, err := profileFS.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading profiles directory: %w", err)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") {
			out = append(out, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(out)
	return out, nil
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

// LoadFile reads and validates a profile from disk.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadDir reads every *.yaml and *.yml profile in dir, sorted by file name.
func LoadDir(dir string) ([]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []*Profile
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		p, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Resolve looks name up in dir first, when dir is set, and then among the
// built-in profiles.
func Resolve(name, dir string) (*Profile, error) {
	if dir != "" {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return LoadFile(path)
			}
		}
	}
	return Load(name)
}
