// Package config loads notecheck settings from a project file, a .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eykd/notecheck-go/internal/domain"
)

// FileName is the project configuration file.
const FileName = ".notecheck.yaml"

// EnvFileName is the optional dotenv file read next to FileName.
const EnvFileName = ".env"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NOTECHECK_"

// Config holds every setting a check run needs.
type Config struct {
	Language            string `yaml:"language" validate:"required,min=2,max=16"`
	AnnotationType      string `yaml:"annotation_type" validate:"required,oneof=TN TQ SN SQ"`
	ExtractLength       int    `yaml:"extract_length" validate:"gte=0,lte=200"`
	DisableLinkFetching bool   `yaml:"disable_link_fetching"`
	MinPriority         int    `yaml:"min_priority" validate:"gte=0,lte=999"`
	TARoot              string `yaml:"ta_root,omitempty"`
	TWRoot              string `yaml:"tw_root,omitempty"`
	SourceRoot          string `yaml:"source_root,omitempty"`
	TARepo              string `yaml:"ta_repo" validate:"required,excludesall=/"`
	TWRepo              string `yaml:"tw_repo" validate:"required,excludesall=/"`
	Workers             int    `yaml:"workers" validate:"gte=1,lte=64"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Language:       "en",
		AnnotationType: string(domain.TranslationNotes),
		ExtractLength:  domain.DefaultExtractLength,
		TARepo:         "en_ta",
		TWRepo:         "en_tw",
		Workers:        4,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func (c *Config) normalize() {
	c.AnnotationType = strings.ToUpper(strings.TrimSpace(c.AnnotationType))
	c.Language = strings.TrimSpace(c.Language)
}

// LookupFunc finds an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ReadEnvFile returns a LookupFunc that consults lookup first and then the
// dotenv file at path. A missing file leaves lookup unchanged.
func ReadEnvFile(path string, lookup LookupFunc) (LookupFunc, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return lookup, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides fields from NOTECHECK_* variables. The variable for a
// field is EnvPrefix plus its upper-cased YAML key.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := EnvPrefix + strings.ToUpper(yamlName(t.Field(i)))
		raw, ok := lookup(key)
		if !ok {
			continue
		}
		f := v.Field(i)
		switch f.Kind() {
		case reflect.String:
			f.SetString(raw)
		case reflect.Int:
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			f.SetInt(int64(n))
		case reflect.Bool:
			b, err := strconv.ParseBool(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			f.SetBool(b)
		}
	}
	c.normalize()
	return nil
}

// Resolve loads the config file and dotenv file in dir, then applies the
// environment.
func Resolve(dir string, lookup LookupFunc) (Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		return Config{}, err
	}
	lookup, err = ReadEnvFile(filepath.Join(dir, EnvFileName), lookup)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func yamlName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(yamlName)
	return v
}

// Validate checks every field against its constraints and reports all
// violations at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		constraint := fe.Tag()
		if fe.Param() != "" {
			constraint += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s: got %v, want %s", fe.Field(), fe.Value(), constraint))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Options returns the per-check options cfg describes.
func (c Config) Options() domain.Options {
	return domain.Options{
		ExtractLength:       c.ExtractLength,
		DisableLinkFetching: c.DisableLinkFetching,
	}.Normalized()
}

// Type returns the configured annotation type.
func (c Config) Type() (domain.AnnotationType, error) {
	return domain.ParseAnnotationType(c.AnnotationType)
}
