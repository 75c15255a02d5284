package app

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/order-reports/internal/render"
)

// Config holds the complete application configuration, loadable from
// environment variables (REPORTS_ prefix), flags, or YAML config files.
type Config struct {
	Dataset           string   `default:"" usage:"Path to a YAML dataset, optionally gzip-compressed (.gz). Built-in dataset when empty" flag:"dataset"`
	Format            string   `default:"text" usage:"Output format: text or json" flag:"format"`
	CheckCode         string   `default:"xxx" usage:"Redemption code whose used status is reported" flag:"check-code"`
	AverageAgeProduct string   `default:"b" usage:"Dataset ID of the product for the average buyer age report" flag:"average-age-product"`
	Redeem            []string `usage:"Dataset IDs of virtual products to redeem before reporting" flag:"redeem"`
	Workers           int      `default:"4" usage:"Maximum number of reports computed concurrently" flag:"workers"`
	Registry          RegistryConfig
}

// RegistryConfig sizes the used-code registry.
type RegistryConfig struct {
	Capacity          uint    `default:"1024" usage:"Expected number of used redemption codes"`
	FalsePositiveRate float64 `default:"0.001" usage:"Target false positive rate of the used-code filter"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files and the given command-line arguments.
func LoadConfig(args []string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "REPORTS",
		Args:      args,
		Files:     []string{"config.yaml", "/etc/order-reports/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch render.Format(c.Format) {
	case render.FormatText, render.FormatJSON:
	default:
		return errors.Errorf("unsupported format %q: use text or json", c.Format)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.AverageAgeProduct == "" {
		return errors.New("average age product is required")
	}
	if c.Registry.FalsePositiveRate <= 0 || c.Registry.FalsePositiveRate >= 1 {
		return errors.Errorf("registry false positive rate must be in (0, 1), got %v", c.Registry.FalsePositiveRate)
	}
	return nil
}
