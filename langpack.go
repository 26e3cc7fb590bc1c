package bplus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// LanguagePack adds alternative keyword spellings and error message
// templates on top of the built-in Banglish set. Packs are TOML files in
// the extensions directory.
type LanguagePack struct {
	Language string `toml:"language"`
	Version  string `toml:"version"`
	Author   string `toml:"author"`

	// KeywordMappings maps new spellings to built-in canonical spellings,
	// e.g. "likho" = "dekhao".
	KeywordMappings map[string]string `toml:"keywords"`

	// ErrorTemplates override diagnostics by kind, with {0}, {1}, ...
	// placeholders.
	ErrorTemplates map[string]string `toml:"errors"`
}

// LoadLanguagePack reads and decodes a single pack file.
func LoadLanguagePack(path string) (*LanguagePack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read language pack: %w", err)
	}
	var pack LanguagePack
	if err := toml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("decode language pack %s: %w", filepath.Base(path), err)
	}
	if pack.Language == "" {
		return nil, fmt.Errorf("language pack %s has no language field", filepath.Base(path))
	}
	return &pack, nil
}

// Apply installs the pack's keyword spellings into kt and its error
// templates into em. Either target may be nil.
func (p *LanguagePack) Apply(kt *KeywordTable, em *ErrorManager) {
	if kt != nil {
		for spelling, canonical := range p.KeywordMappings {
			kt.AddSynonym(spelling, canonical)
		}
	}
	if em != nil {
		em.SetLanguagePack(p)
	}
}

type extensionsConfig struct {
	ActiveLanguagePack string   `toml:"active_language_pack"`
	Enabled            []string `toml:"enabled"`
}

const (
	configFileName = "extensions.config"
	packsDirName   = "language-packs"
)

// ExtensionManager owns the extensions directory: the extensions.config
// file plus the language-packs subdirectory of *.toml packs.
type ExtensionManager struct {
	BaseDir string

	config extensionsConfig
	packs  map[string]*LanguagePack
}

func NewExtensionManager(baseDir string) *ExtensionManager {
	return &ExtensionManager{
		BaseDir: baseDir,
		packs:   map[string]*LanguagePack{},
	}
}

// Initialize creates the directory layout and a default config file when
// missing, then loads the config and every pack it can find. Unreadable
// packs are skipped, not fatal.
func (m *ExtensionManager) Initialize() error {
	if err := os.MkdirAll(m.packsDir(), 0o755); err != nil {
		return fmt.Errorf("create extensions dir: %w", err)
	}
	cfgPath := filepath.Join(m.BaseDir, configFileName)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := m.writeDefaultConfig(cfgPath); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return fmt.Errorf("read extensions config: %w", err)
	}
	if err := toml.Unmarshal(data, &m.config); err != nil {
		return fmt.Errorf("decode extensions config: %w", err)
	}

	return m.loadPacks()
}

func (m *ExtensionManager) packsDir() string {
	return filepath.Join(m.BaseDir, packsDirName)
}

func (m *ExtensionManager) writeDefaultConfig(path string) error {
	data, err := toml.Marshal(extensionsConfig{})
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

func (m *ExtensionManager) loadPacks() error {
	entries, err := os.ReadDir(m.packsDir())
	if err != nil {
		return fmt.Errorf("list language packs: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		pack, err := LoadLanguagePack(filepath.Join(m.packsDir(), entry.Name()))
		if err != nil {
			continue
		}
		m.packs[pack.Language] = pack
	}
	return nil
}

// Packs lists the loaded pack languages, sorted.
func (m *ExtensionManager) Packs() []string {
	names := make([]string, 0, len(m.packs))
	for name := range m.packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pack returns the loaded pack for language, if any.
func (m *ExtensionManager) Pack(language string) (*LanguagePack, bool) {
	p, ok := m.packs[language]
	return p, ok
}

// ActivePack returns the pack named in the config, or nil when the config
// names none or the pack is missing.
func (m *ExtensionManager) ActivePack() *LanguagePack {
	if m.config.ActiveLanguagePack == "" {
		return nil
	}
	return m.packs[m.config.ActiveLanguagePack]
}

// SetActivePack records language as the active pack and rewrites the
// config file.
func (m *ExtensionManager) SetActivePack(language string) error {
	if _, ok := m.packs[language]; !ok {
		return fmt.Errorf("unknown language pack %q", language)
	}
	m.config.ActiveLanguagePack = language
	data, err := toml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("encode extensions config: %w", err)
	}
	cfgPath := filepath.Join(m.BaseDir, configFileName)
	if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
		return fmt.Errorf("write extensions config: %w", err)
	}
	return nil
}
