// Package config loads the listener's ambient settings: a TOML file for
// connection/world parameters, and a JSONC template for the status-phase
// response document spec.md §6 names, rendered fresh per status_request
// with a live online-player count spliced in.
package config

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"os"

	"github.com/muhammadmuzzammil1998/jsonc"
	"github.com/pelletier/go-toml"

	"github.com/brinewood/hollow/server/protocol"
)

// Config is the listener's TOML-authored settings.
type Config struct {
	ListenAddress string `toml:"listen_address"`
	MaxPlayers    int    `toml:"max_players"`
	ViewDistance  int    `toml:"view_distance"`
	OfflineMode   bool   `toml:"offline_mode"`
	LogLevel      string `toml:"log_level"`
	StatusPath    string `toml:"status_path"`
	FaviconPath   string `toml:"favicon_path"`
	// RegionFile, if set, is an Anvil .mca region file the spawn chunk
	// (column 0,0) is bootstrapped from at startup. Left empty, the
	// world manager falls back to a synthesized empty chunk.
	RegionFile string `toml:"region_file"`
	// PlayerDBPath, if set, is the directory a leveldb continuity store
	// persists each player's last position and hotbar under.
	PlayerDBPath string `toml:"player_db_path"`
}

// Default returns the settings a freshly unpacked server starts with.
func Default() Config {
	return Config{
		ListenAddress: "0.0.0.0:25565",
		MaxPlayers:    20,
		ViewDistance:  10,
		OfflineMode:   true,
		LogLevel:      "info",
		StatusPath:    "status.jsonc",
		PlayerDBPath:  "playerdata",
	}
}

// Load reads and parses a TOML config file, overlaying it onto Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Provider renders the status-phase document from a loaded Config,
// implementing server/session's StatusProvider.
type Provider struct {
	offline  bool
	template protocol.StatusJSON
}

// NewProvider builds a Provider from cfg, reading its status template and
// (if set) favicon from disk.
func NewProvider(cfg Config) (*Provider, error) {
	doc, err := loadStatusTemplate(cfg.StatusPath)
	if err != nil {
		return nil, err
	}
	doc.Players.Max = cfg.MaxPlayers

	if cfg.FaviconPath != "" {
		favicon, err := loadFavicon(cfg.FaviconPath)
		if err != nil {
			return nil, err
		}
		doc.Favicon = favicon
	}

	return &Provider{offline: cfg.OfflineMode, template: doc}, nil
}

// Status renders the current status document with online spliced in.
func (p *Provider) Status(online int) protocol.StatusJSON {
	doc := p.template
	doc.Players.Online = online
	return doc
}

// OfflineMode reports whether login should skip UUID verification and
// assign the all-zero offline UUID.
func (p *Provider) OfflineMode() bool { return p.offline }

// loadStatusTemplate reads a JSONC-authored status document (version name/
// protocol and description text; players and favicon are filled in by
// NewProvider and Status) and strips its comments before parsing, the
// same comments-in-JSON affordance the teacher's own tooling uses.
func loadStatusTemplate(path string) (protocol.StatusJSON, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return protocol.StatusJSON{}, fmt.Errorf("config: read status template %s: %w", path, err)
	}
	var doc protocol.StatusJSON
	if err := json.Unmarshal(jsonc.ToJSON(raw), &doc); err != nil {
		return protocol.StatusJSON{}, fmt.Errorf("config: parse status template %s: %w", path, err)
	}
	return doc, nil
}

// loadFavicon reads, validates (64×64 PNG per spec.md §6), and base64-
// encodes a favicon into the data URL the status JSON's favicon field
// expects.
func loadFavicon(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("config: read favicon %s: %w", path, err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("config: decode favicon %s: %w", path, err)
	}
	if cfg.Width != 64 || cfg.Height != 64 {
		return "", fmt.Errorf("config: favicon %s must be 64x64, got %dx%d", path, cfg.Width, cfg.Height)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw), nil
}
