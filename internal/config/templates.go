package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# findata configuration

[generator]
# Seed for every random stream; identical seeds give identical tables
seed = 42
# Days of history before the end date (the window holds window_days + 1 dates)
window_days = 180
# Last day of the window as YYYY-MM-DD; empty means today
end_date = ""
# Directory receiving transactions.csv, stock_data.csv and weather_data.csv
output_dir = "data"
# Create output_dir when it does not exist
create_output_dir = true
# Optional TOML file overriding the built-in merchant, ticker and weather tables
catalog_file = ""

[warehouse]
# Also stage every table into a SQLite file for dashboards
enabled = false
path = "data/finance.db"

[logging]
# debug, info, warn, error
level = "info"
console = true
# Rotating log file, written to ~/.config/findata/logs/findata.log
# unless file_path is set
file = false
# file_path = "/var/log/findata.log"
max_size = 20
max_backups = 5
max_age = 30

[ui]
# Enable colored output
color_enabled = true
`

// WriteTemplate writes a commented findata.toml into configDir and returns
// its path. An existing file is left alone.
func WriteTemplate(configDir string) (string, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, FileName+".toml")
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return "", fmt.Errorf("writing config template: %w", err)
	}
	return path, nil
}
