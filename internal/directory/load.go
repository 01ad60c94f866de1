package directory

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/jonathan/accreditrack/internal/config"
	"github.com/jonathan/accreditrack/internal/schemas"
	"github.com/jonathan/accreditrack/internal/types"
)

//go:embed default_directory.yaml
var defaultDirectory []byte

// document mirrors the directory file layout.
type document struct {
	Users  []userEntry  `koanf:"users"`
	Cycles []cycleEntry `koanf:"cycles"`
}

type userEntry struct {
	ID           string `koanf:"id"`
	Name         string `koanf:"name"`
	Role         string `koanf:"role"`
	Password     string `koanf:"password"`
	PasswordHash string `koanf:"password_hash"`
}

type cycleEntry struct {
	ID        int    `koanf:"id"`
	Name      string `koanf:"name"`
	StartDate string `koanf:"start_date"`
	EndDate   string `koanf:"end_date"`
	Status    string `koanf:"status"`
}

// Load reads a directory from a YAML file. An empty path loads the
// built-in demo directory.
func Load(path string, passwords *config.PasswordConfig) (*Directory, error) {
	if path == "" {
		return LoadDefault(passwords)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("directory file %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to read directory file %s: %w", path, err)
	}
	return fromKoanf(path, k, passwords)
}

// LoadDefault loads the built-in demo directory.
func LoadDefault(passwords *config.PasswordConfig) (*Directory, error) {
	return Parse("default directory", defaultDirectory, passwords)
}

// Parse builds a directory from YAML bytes.
func Parse(name string, data []byte, passwords *config.PasswordConfig) (*Directory, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return fromKoanf(name, k, passwords)
}

func fromKoanf(name string, k *koanf.Koanf, passwords *config.PasswordConfig) (*Directory, error) {
	// YAML reads unquoted dates as timestamps
	raw := k.Raw()
	for key, v := range raw {
		raw[key] = normalizeDates(v)
		if err := k.Set(key, raw[key]); err != nil {
			return nil, fmt.Errorf("failed to normalize %s: %w", name, err)
		}
	}

	if err := schemas.ValidateDocument(name, schemas.DirectorySchema, raw); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}

	var doc document
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	users := make([]UserRecord, 0, len(doc.Users))
	for _, u := range doc.Users {
		hash := u.PasswordHash
		if hash == "" {
			h, err := passwords.HashPassword(u.Password)
			if err != nil {
				return nil, fmt.Errorf("failed to hash credential for %s: %w", u.ID, err)
			}
			hash = h
		}
		users = append(users, UserRecord{
			User: types.User{
				ID:   u.ID,
				Name: u.Name,
				Role: types.Role(u.Role),
			},
			PasswordHash: hash,
		})
	}

	cycles := make([]types.Cycle, 0, len(doc.Cycles))
	for _, c := range doc.Cycles {
		cycles = append(cycles, types.Cycle{
			ID:        c.ID,
			Name:      c.Name,
			StartDate: c.StartDate,
			EndDate:   c.EndDate,
			Status:    types.CycleStatus(c.Status),
		})
	}

	return New(users, cycles)
}

// normalizeDates rewrites time.Time values as YYYY-MM-DD strings.
func normalizeDates(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(types.DateLayout)
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeDates(e)
		}
	case []any:
		for i, e := range t {
			t[i] = normalizeDates(e)
		}
	}
	return v
}
