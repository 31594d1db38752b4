package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/haivivi/beatsmith/pkg/rhythm"
	"github.com/haivivi/beatsmith/pkg/storage"
)

// Config is the beatsmith configuration file.
type Config struct {
	// CurrentContext is the name of the active context.
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts maps context names to settings.
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	configPath string
	libraryDir string
}

// Context is one named set of generation defaults. Unset fields fall back
// to the built-in defaults; command flags override both.
type Context struct {
	Name string `yaml:"name"`

	// SkillLevel in [0, 1].
	SkillLevel *float64 `yaml:"skill_level,omitempty"`

	// Seed fixes note attributes across runs.
	Seed *uint64 `yaml:"seed,omitempty"`

	// Output is a directory or s3://bucket/prefix.
	Output string `yaml:"output,omitempty"`

	Parallel bool `yaml:"parallel,omitempty"`

	// LibraryDir holds the analysis library.
	LibraryDir string `yaml:"library_dir,omitempty"`

	// Environment is written to generated manifests.
	Environment string `yaml:"environment,omitempty"`

	S3 *storage.S3Config `yaml:"s3,omitempty"`
}

// ContextKeys lists the keys accepted by Context.Set.
var ContextKeys = []string{
	"skill_level", "seed", "output", "parallel", "library_dir", "environment",
	"s3.region", "s3.endpoint", "s3.access_key", "s3.secret_key", "s3.path_style",
}

// LoadConfig loads the configuration, creating an empty one on first use.
func LoadConfig() (*Config, error) {
	p, err := NewPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	cfg, err := LoadConfigWithPath(p.ConfigFile())
	if err != nil {
		return nil, err
	}
	cfg.libraryDir = p.LibraryDir()
	return cfg, nil
}

// LoadConfigWithPath loads configuration from a custom path.
func LoadConfigWithPath(configPath string) (*Config, error) {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		Contexts:   make(map[string]*Context),
		configPath: configPath,
		libraryDir: filepath.Join(dir, "library"),
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	for name, ctx := range cfg.Contexts {
		if ctx == nil {
			cfg.Contexts[name] = &Context{Name: name}
		}
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// The file may hold S3 secrets.
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path.
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// AddContext adds or replaces a context.
func (c *Config) AddContext(name string, ctx *Context) error {
	if name == "" {
		return fmt.Errorf("context name is required")
	}
	ctx.Name = name
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context.
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context.
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context.
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// GetCurrentContext returns the current context.
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the context by name, or the current context if
// name is empty.
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		return c.GetCurrentContext()
	}
	return c.GetContext(name)
}

// Effective returns the settings commands run with. With no name and no
// current context it returns an empty context, so every default applies.
func (c *Config) Effective(name string) (*Context, error) {
	if name == "" && c.CurrentContext == "" {
		return &Context{}, nil
	}
	return c.ResolveContext(name)
}

// ListContexts returns all context names, sorted.
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LibraryPath returns the analysis library directory for ctx.
func (c *Config) LibraryPath(ctx *Context) string {
	if ctx != nil && ctx.LibraryDir != "" {
		return ctx.LibraryDir
	}
	return c.libraryDir
}

// Set assigns one setting by key. See ContextKeys.
func (ctx *Context) Set(key, value string) error {
	switch key {
	case "skill_level":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || rhythm.ValidateSkillLevel(v) != nil {
			return fmt.Errorf("skill_level must be a number in [0, 1], got %q", value)
		}
		ctx.SkillLevel = &v
	case "seed":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("seed must be an unsigned integer, got %q", value)
		}
		ctx.Seed = &v
	case "output":
		if _, err := storage.ParseTarget(value); err != nil {
			return err
		}
		ctx.Output = value
	case "parallel":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parallel must be true or false, got %q", value)
		}
		ctx.Parallel = v
	case "library_dir":
		ctx.LibraryDir = value
	case "environment":
		ctx.Environment = value
	default:
		field, ok := strings.CutPrefix(key, "s3.")
		if !ok {
			return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(ContextKeys, ", "))
		}
		return ctx.setS3(field, value)
	}
	return nil
}

func (ctx *Context) setS3(field, value string) error {
	if ctx.S3 == nil {
		ctx.S3 = &storage.S3Config{}
	}
	switch field {
	case "region":
		ctx.S3.Region = value
	case "endpoint":
		ctx.S3.Endpoint = value
	case "access_key":
		ctx.S3.AccessKey = value
	case "secret_key":
		ctx.S3.SecretKey = value
	case "path_style":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("s3.path_style must be true or false, got %q", value)
		}
		ctx.S3.PathStyle = v
	default:
		return fmt.Errorf("unknown key %q (valid: %s)", "s3."+field, strings.Join(ContextKeys, ", "))
	}
	return nil
}

// S3Config returns the context's S3 settings, or the zero config.
func (ctx *Context) S3Config() storage.S3Config {
	if ctx == nil || ctx.S3 == nil {
		return storage.S3Config{}
	}
	return *ctx.S3
}

// Masked returns a copy of ctx with secrets masked for display.
func (ctx *Context) Masked() *Context {
	cp := *ctx
	if ctx.S3 != nil {
		s3 := *ctx.S3
		s3.AccessKey = MaskSecret(s3.AccessKey)
		s3.SecretKey = MaskSecret(s3.SecretKey)
		cp.S3 = &s3
	}
	return &cp
}

// MaskSecret masks a credential for display.
func MaskSecret(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
