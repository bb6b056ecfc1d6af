package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DefaultURL       = "https://pt.tradingeconomics.com/country-list/minimum-wages?continent=europe"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	DefaultContainer = "div.col-xl-8.col-lg-8"
)

// Fetch modes.
const (
	ModeHTTP    = "http"
	ModeBrowser = "browser"
)

// Columns holds the cell index of each field inside a data row.
type Columns struct {
	OldWage  int `yaml:"oldWage"`
	NewWage  int `yaml:"newWage"`
	Period   int `yaml:"period"`
	Currency int `yaml:"currency"`
}

// MinCells is the smallest cell count a row needs to fill every field.
func (c Columns) MinCells() int {
	max := c.OldWage
	for _, idx := range []int{c.NewWage, c.Period, c.Currency} {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

type BrowserConfig struct {
	Headless  bool   `yaml:"headless"`
	Debug     bool   `yaml:"debug"`
	NoSandbox bool   `yaml:"noSandbox"`
	ExecPath  string `yaml:"execPath"`
}

type Config struct {
	Scraper struct {
		URL                string            `yaml:"url"`
		Mode               string            `yaml:"mode"`
		Timeout            int               `yaml:"timeout"`
		InsecureSkipVerify bool              `yaml:"insecureSkipVerify"`
		Headers            map[string]string `yaml:"headers"`
		Container          string            `yaml:"container"`
		Columns            Columns           `yaml:"columns"`
		Browser            BrowserConfig     `yaml:"browser"`
	} `yaml:"scraper"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Cache struct {
		TTL int `yaml:"ttl"`
	} `yaml:"cache"`
	Export struct {
		PDF struct {
			Enabled bool `yaml:"enabled"`
			Timeout int  `yaml:"timeout"`
		} `yaml:"pdf"`
	} `yaml:"export"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Logging struct {
		Dir   string `yaml:"dir"`
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration used when a field is not set.
func DefaultConfig() *Config {
	c := &Config{}
	c.Scraper.URL = DefaultURL
	c.Scraper.Mode = ModeHTTP
	c.Scraper.Timeout = 30
	c.Scraper.Headers = map[string]string{"User-Agent": DefaultUserAgent}
	c.Scraper.Container = DefaultContainer
	c.Scraper.Columns = Columns{OldWage: 1, NewWage: 2, Period: 3, Currency: 4}
	c.Scraper.Browser.Headless = true
	c.Server.Addr = ":8080"
	c.Cache.TTL = 600
	c.Export.PDF.Timeout = 30
	c.Output.Dir = "output"
	c.Logging.Dir = "logs"
	c.Logging.Level = "info"
	return c
}

// LoadConfig reads the YAML file at path on top of the defaults, then
// applies environment overrides. A .env file in the working directory is
// loaded first when present. A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("WAGESCRAPER_URL"); v != "" {
		c.Scraper.URL = v
	}
	if v := os.Getenv("WAGESCRAPER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("WAGESCRAPER_INSECURE_SKIP_VERIFY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WAGESCRAPER_INSECURE_SKIP_VERIFY: %w", err)
		}
		c.Scraper.InsecureSkipVerify = b
	}
	if v := os.Getenv("WAGESCRAPER_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WAGESCRAPER_CACHE_TTL: %w", err)
		}
		c.Cache.TTL = int(d / time.Second)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration is nil")
	}
	if c.Scraper.URL == "" {
		return fmt.Errorf("scraper url is empty")
	}
	if c.Scraper.Mode != ModeHTTP && c.Scraper.Mode != ModeBrowser {
		return fmt.Errorf("invalid scraper mode %q", c.Scraper.Mode)
	}
	if c.Scraper.Timeout <= 0 {
		return fmt.Errorf("invalid timeout value")
	}
	if c.Scraper.Container == "" {
		return fmt.Errorf("scraper container selector is empty")
	}
	cols := c.Scraper.Columns
	for _, idx := range []int{cols.OldWage, cols.NewWage, cols.Period, cols.Currency} {
		if idx < 0 {
			return fmt.Errorf("invalid column index %d", idx)
		}
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache ttl")
	}
	if c.Export.PDF.Timeout <= 0 {
		return fmt.Errorf("invalid pdf timeout")
	}
	return nil
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Scraper.Timeout) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

func (c *Config) PDFTimeout() time.Duration {
	return time.Duration(c.Export.PDF.Timeout) * time.Second
}
