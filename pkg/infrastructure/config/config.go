package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

// Input formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Environment variables overriding the file
const (
	EnvConfig   = "SHORTAGE_CONFIG"
	EnvDB       = "SHORTAGE_DB"
	EnvLogLevel = "SHORTAGE_LOG_LEVEL"
	EnvHTTPAddr = "SHORTAGE_HTTP_ADDR"
	EnvWorkers  = "SHORTAGE_WORKERS"
)

// Config represents the full application configuration surface.
type Config struct {
	Format      string           `yaml:"format"`
	Identifiers IdentifierConfig `yaml:"identifiers"`
	CSV         CSVConfig        `yaml:"csv"`
	XLSX        XLSXConfig       `yaml:"xlsx"`
	Sites       []SiteConfig     `yaml:"sites"`
	Columns     ColumnConfig     `yaml:"columns"`
	Store       StoreConfig      `yaml:"store"`
	Engine      EngineConfig     `yaml:"engine"`
	Server      ServerConfig     `yaml:"server"`
	Refresh     RefreshConfig    `yaml:"refresh"`
	Log         LogConfig        `yaml:"log"`
}

// IdentifierConfig controls part number normalization.
type IdentifierConfig struct {
	SiteTag   string `yaml:"site_tag"`
	Separator string `yaml:"separator"`
}

// CSVConfig points at a directory holding bom.csv, stock.csv, schedule.csv
// and deliveries.csv.
type CSVConfig struct {
	Dir string `yaml:"dir"`
}

// XLSXConfig lists the spreadsheet inputs. Stock workbooks are configured
// per site.
type XLSXConfig struct {
	BOM           string   `yaml:"bom"`
	SupplierDir   string   `yaml:"supplier_dir"`
	SupplierFiles []string `yaml:"supplier_files"`
}

// SiteConfig describes one stock site.
type SiteConfig struct {
	Name      string `yaml:"name"`
	File      string `yaml:"file"`
	Warehouse string `yaml:"warehouse"`
}

// ColumnConfig holds the header keywords used to locate spreadsheet columns.
// A column matches when its header contains any keyword of the list.
type ColumnConfig struct {
	Model     []string `yaml:"model"`
	Part      []string `yaml:"part"`
	ItemCode  []string `yaml:"item_code"`
	Name      []string `yaml:"name"`
	Spec      []string `yaml:"spec"`
	Usage     []string `yaml:"usage"`
	Quantity  []string `yaml:"quantity"`
	OnHand    []string `yaml:"on_hand"`
	Warehouse []string `yaml:"warehouse"`
	Subtotal  []string `yaml:"subtotal"`
}

// StoreConfig holds the production plan store settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// EngineConfig holds engine tuning.
type EngineConfig struct {
	Workers int `yaml:"workers"`
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RefreshConfig holds the optional periodic recompute schedule.
type RefreshConfig struct {
	Cron string `yaml:"cron"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format: FormatCSV,
		Identifiers: IdentifierConfig{
			SiteTag:   entities.DefaultSiteTag,
			Separator: entities.DefaultSeparator,
		},
		CSV:     CSVConfig{Dir: "data"},
		Columns: DefaultColumns(),
		Store:   StoreConfig{Path: "shortage.db"},
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info"},
	}
}

// DefaultColumns returns the header keywords of the usual ERP exports.
func DefaultColumns() ColumnConfig {
	return ColumnConfig{
		Model:     []string{"型號", "Model"},
		Part:      []string{"品號", "Part"},
		ItemCode:  []string{"項目", "代號", "Item"},
		Name:      []string{"品名", "Name"},
		Spec:      []string{"規格", "Spec"},
		Usage:     []string{"用量", "Usage"},
		Quantity:  []string{"數量", "Qty", "Quantity"},
		OnHand:    []string{"庫存", "On Hand", "Stock"},
		Warehouse: []string{"庫別", "Warehouse"},
		Subtotal:  []string{"小計", "合計", "總計", "Subtotal"},
	}
}

// Load reads environment variables (optionally from envFile), then the YAML
// file at path, then applies environment overrides. An empty path falls back
// to SHORTAGE_CONFIG; with neither set the defaults are used.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine; the environment may be set directly.
		_ = godotenv.Load()
	}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Columns = cfg.Columns.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDB); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvWorkers, err)
		}
		c.Engine.Workers = workers
	}
	return nil
}

// WithDefaults returns the keyword lists with every empty list replaced by
// the default one
func (c ColumnConfig) WithDefaults() ColumnConfig {
	d := DefaultColumns()
	pick := func(v, def []string) []string {
		if len(v) == 0 {
			return def
		}
		return v
	}
	return ColumnConfig{
		Model:     pick(c.Model, d.Model),
		Part:      pick(c.Part, d.Part),
		ItemCode:  pick(c.ItemCode, d.ItemCode),
		Name:      pick(c.Name, d.Name),
		Spec:      pick(c.Spec, d.Spec),
		Usage:     pick(c.Usage, d.Usage),
		Quantity:  pick(c.Quantity, d.Quantity),
		OnHand:    pick(c.OnHand, d.OnHand),
		Warehouse: pick(c.Warehouse, d.Warehouse),
		Subtotal:  pick(c.Subtotal, d.Subtotal),
	}
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Identifiers.SiteTag == "" {
		return errors.New("identifiers.site_tag must not be empty")
	}
	if c.Identifiers.Separator == "" {
		return errors.New("identifiers.separator must not be empty")
	}

	switch c.Format {
	case FormatCSV:
		if c.CSV.Dir == "" {
			return errors.New("csv.dir must be provided")
		}
	case FormatXLSX:
		if c.XLSX.BOM == "" {
			return errors.New("xlsx.bom must be provided")
		}
		if len(c.Sites) == 0 {
			return errors.New("at least one site must be configured for xlsx input")
		}
	default:
		return fmt.Errorf("unknown input format %q", c.Format)
	}

	seen := make(map[string]bool, len(c.Sites))
	for i, site := range c.Sites {
		name := strings.TrimSpace(site.Name)
		if name == "" {
			return fmt.Errorf("sites[%d].name must be provided", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate site %q", name)
		}
		seen[name] = true
		if c.Format == FormatXLSX && site.File == "" {
			return fmt.Errorf("sites[%d].file must be provided for xlsx input", i)
		}
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store.path must be provided (or set %s)", EnvDB)
	}
	if c.Engine.Workers < 0 {
		return errors.New("engine.workers cannot be negative")
	}

	return nil
}

// Normalizer returns the part number normalizer described by the config.
func (c *Config) Normalizer() entities.Normalizer {
	return entities.Normalizer{SiteTag: c.Identifiers.SiteTag, Separator: c.Identifiers.Separator}
}

// EntitySites returns the configured sites as domain sites.
func (c *Config) EntitySites() []entities.Site {
	sites := make([]entities.Site, len(c.Sites))
	for i, s := range c.Sites {
		sites[i] = entities.Site{Name: strings.TrimSpace(s.Name), Warehouse: strings.TrimSpace(s.Warehouse)}
	}
	return sites
}
