// Package runconfig loads and saves the experiment configuration
// record and appends per-run rows to a CSV log, grounded in
// _examples/original_source/src/ui/config.rs, generalized from the
// original's TOML-adjacent serde derive to gopkg.in/yaml.v3, the way
// the teacher's internal/config package loads providers.yaml.
package runconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const csvHeader = "Run,Note,Gas,Beam,Energy(MeV/U),Pressure(Torr),V_THGEM(V),V_MM(V),V_Cathode(kV),E-Drift(V/m),E-Trans(V/m)\n"

// Config is the (de)serializable experiment record: identity fields
// plus the extended detector parameters the original tracked for a
// run's CSV log.
type Config struct {
	Path string `yaml:"-"`

	Experiment  string `yaml:"experiment"`
	RunNumber   int    `yaml:"run_number"`
	Description string `yaml:"description"`

	Gas      string  `yaml:"gas"`
	Beam     string  `yaml:"beam"`
	Energy   float64 `yaml:"energy"`
	Pressure float64 `yaml:"pressure"`
	VTHGEM   float64 `yaml:"v_thgem"`
	VMM      float64 `yaml:"v_mm"`
	VCathode float64 `yaml:"v_cathode"`
	EDrift   float64 `yaml:"e_drift"`
	ETrans   float64 `yaml:"e_trans"`
}

// Default returns a Config matching the original's Config::new()
// placeholder defaults.
func Default(path string) Config {
	return Config{
		Path:        path,
		Experiment:  "Exp",
		Description: "Write here",
		Gas:         "H2",
		Beam:        "16C",
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Save serializes the config back to its Path.
func (c Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(c.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", c.Path, err)
	}
	return nil
}

// tablePath returns (creating it if necessary) the per-experiment CSV
// log path under tableDir, writing the header row if the file is new.
func tablePath(tableDir, experiment string) (string, error) {
	if err := os.MkdirAll(tableDir, 0o755); err != nil {
		return "", fmt.Errorf("creating table directory %s: %w", tableDir, err)
	}

	path := filepath.Join(tableDir, experiment+".csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(csvHeader), 0o644); err != nil {
			return "", fmt.Errorf("writing CSV header to %s: %w", path, err)
		}
	}
	return path, nil
}

// WriteCSVRow appends one row reflecting the current configuration to
// the experiment's CSV log under tableDir, creating the file (with
// header) on first use.
func (c Config) WriteCSVRow(tableDir string) error {
	path, err := tablePath(tableDir, c.Experiment)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening CSV log %s: %w", path, err)
	}
	defer f.Close()

	row := fmt.Sprintf("%d,%s,%s,%s,%g,%g,%g,%g,%g,%g,%g\n",
		c.RunNumber, c.Description, c.Gas, c.Beam, c.Energy, c.Pressure,
		c.VTHGEM, c.VMM, c.VCathode, c.EDrift, c.ETrans)

	if _, err := f.WriteString(row); err != nil {
		return fmt.Errorf("writing CSV row to %s: %w", path, err)
	}
	return nil
}
