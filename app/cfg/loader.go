package cfg

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

var Commands = []string{CommandBuild, CommandServe, CommandBrowse, CommandSync}

const (
	CommandBuild  = "build"
	CommandServe  = "serve"
	CommandBrowse = "browse"
	CommandSync   = "sync"
)

type rawCfg struct {
	// Content and output
	ContentDir string `long:"content-dir" env:"CONTENT_DIR" default:"./content" description:"Directory containing markdown collections"`
	OutputDir  string `long:"output-dir" env:"OUTPUT_DIR" default:"./public" description:"Directory the static site is written to"`
	StaticDir  string `long:"static-dir" env:"STATIC_DIR" default:"./static" description:"Directory of assets copied into the output as-is"`
	SiteConfig string `long:"site-config" env:"SITE_CONFIG" default:"./site.yml" description:"Site configuration file"`
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./folio.db" description:"SQLite content snapshot path"`

	// Preview server
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL of the site (e.g., https://jane.dev)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the rebuild endpoints (optional)"`

	// Hosted CMS
	CMSURL     string `long:"cms-url" env:"CMS_URL" description:"Base URL of the hosted CMS objects API"`
	CMSBucket  string `long:"cms-bucket" env:"CMS_BUCKET" description:"CMS bucket slug"`
	CMSReadKey string `long:"cms-read-key" env:"CMS_READ_KEY" description:"CMS read key"`

	// Background work
	CacheTTL        int `long:"cache-ttl" env:"CACHE_TTL" default:"300" description:"Remote content cache TTL in seconds"`
	RefreshInterval int `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"600" description:"Remote source refresh interval in seconds while serving"`
	WorkerCount     int `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Folio/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Args struct {
		Command    string `positional-arg-name:"command" description:"build, serve, browse or sync"`
		Collection string `positional-arg-name:"collection" description:"Collection to browse"`
	} `positional-args:"yes"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	command := cmp.Or(raw.Args.Command, CommandBuild)
	if !slices.Contains(Commands, command) {
		return nil, fmt.Errorf("unknown command %q (expected one of %v)", command, Commands)
	}

	cfg := &Cfg{
		ContentDir:      raw.ContentDir,
		OutputDir:       raw.OutputDir,
		StaticDir:       raw.StaticDir,
		SiteConfig:      raw.SiteConfig,
		DBPath:          raw.DBPath,
		Port:            raw.Port,
		BaseUrl:         raw.BaseUrl,
		APIAccessKey:    raw.APIAccessKey,
		CMSURL:          raw.CMSURL,
		CMSBucket:       raw.CMSBucket,
		CMSReadKey:      raw.CMSReadKey,
		CacheTTL:        raw.CacheTTL,
		RefreshInterval: raw.RefreshInterval,
		WorkerCount:     raw.WorkerCount,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
		Command:         command,
		Collection:      raw.Args.Collection,
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
