// Command hollowd runs a Hollow game server core: it accepts TCP
// connections, speaks the Java-edition wire protocol against each one,
// and drives a single shared world tick loop, per spec.md §5's
// concurrency model (one goroutine per connection, one per connection's
// keep-alive timer, one for the world tick).
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/brinewood/hollow/server/block"
	"github.com/brinewood/hollow/server/config"
	"github.com/brinewood/hollow/server/session"
	"github.com/brinewood/hollow/server/world"
	"github.com/brinewood/hollow/server/world/playerdb"
	"github.com/brinewood/hollow/server/world/region"
)

// version is overridable at link time (-ldflags "-X main.version=...").
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "hollow.toml", "path to the server's TOML config file")
	showVersion := flag.Bool("version", false, "print the server version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("hollowd " + version)
		return 0
	}

	log := logrus.New()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("hollowd: load config: %v", err)
		return 1
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	status, err := config.NewProvider(cfg)
	if err != nil {
		log.Errorf("hollowd: load status template: %v", err)
		return 1
	}

	catalog := block.Build(defaultCatalog, defaultItemBlocks)
	manager := world.NewManager(log, catalog)

	if cfg.RegionFile != "" {
		loadSpawnChunk(log, manager, catalog, cfg.RegionFile)
	}

	if cfg.PlayerDBPath != "" {
		store, err := playerdb.Open(cfg.PlayerDBPath)
		if err != nil {
			log.Errorf("hollowd: open player database: %v", err)
			return 1
		}
		defer store.Close()
		manager.SetPlayerStore(store)
	}

	go manager.Run()
	defer manager.Stop()

	ln, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		log.Errorf("hollowd: listen on %s: %v", cfg.ListenAddress, err)
		return 1
	}
	defer ln.Close()
	log.Infof("hollowd: listening on %s", cfg.ListenAddress)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Errorf("hollowd: accept: %v", err)
			return 1
		}
		s := session.New(conn, log, manager, catalog, status)
		go s.Run()
	}
}

// loadSpawnChunk bootstraps the (0,0) overworld column from an Anvil
// region file, per spec.md §4.5. A missing region file or an absent
// spawn-chunk entry is logged and left to the manager's lazy empty-chunk
// fallback rather than treated as a startup failure — the region loader
// is a bootstrap convenience, not a hard dependency of admission.
func loadSpawnChunk(log logrus.FieldLogger, manager *world.Manager, catalog *block.Registry, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Warnf("hollowd: open region file %s: %v", path, err)
		return
	}
	defer f.Close()

	ch, err := region.Load(f, 0, 0, catalog, log)
	if err != nil {
		log.Warnf("hollowd: load spawn chunk from %s: %v", path, err)
		return
	}
	manager.LoadChunk(world.Overworld, ch)
}

// defaultCatalog and defaultItemBlocks stand in for the offline
// vendor-JSON-derived catalog spec.md §6 describes as a link-time
// constant; a real build substitutes the generated tables here.
var defaultCatalog = []block.KindSpec{
	{Tag: "air"},
	{Tag: "stone"},
	{Tag: "dirt"},
	{Tag: "grass_block"},
}

var defaultItemBlocks = []string{
	"", // item id 0 is unused
	"stone",
	"dirt",
	"grass_block",
}
