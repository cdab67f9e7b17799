package config

import (
	"errors"
	"fmt"
	"garage-spot-service/internal/domain"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file if present. A missing file is not an error.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Duration parses key as a Go duration, falling back on absence.
func Duration(key string, fallback time.Duration) (time.Duration, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	return d, nil
}

type siteFile struct {
	Garages []domain.GarageConfig `toml:"garages"`
	Yard    *domain.YardConfig    `toml:"yard"`
}

// LoadSite reads garage geometry from a TOML file. An empty path yields the
// built-in site. Sections missing from the file keep their defaults.
func LoadSite(path string) (domain.SiteConfig, error) {
	site := domain.DefaultSite()
	if strings.TrimSpace(path) == "" {
		return site, nil
	}

	var file siteFile
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return domain.SiteConfig{}, fmt.Errorf("load site %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return domain.SiteConfig{}, fmt.Errorf("load site %q: unknown keys %v", path, undecoded)
	}

	if len(file.Garages) > 0 {
		site.Garages = file.Garages
	}
	if file.Yard != nil {
		site.Yard = *file.Yard
	}

	if err := site.Validate(); err != nil {
		return domain.SiteConfig{}, fmt.Errorf("load site %q: %w", path, err)
	}
	return site, nil
}
