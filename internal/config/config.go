package config

import (
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/djjrip/ggloop-bots/internal/boterr"
	"github.com/djjrip/ggloop-bots/internal/meta"
	"gopkg.in/yaml.v3"
)

// ProductionConfig is where the running platform lives.
type ProductionConfig struct {
	BaseURL        string        `yaml:"base_url"`
	HealthEndpoint string        `yaml:"health_endpoint"`
	UserAgent      string        `yaml:"user_agent"`
	Timeout        time.Duration `yaml:"timeout"`
}

// HealthURL returns the URL of the backend health endpoint.
func (p ProductionConfig) HealthURL() string {
	return p.BaseURL + p.HealthEndpoint
}

// ThresholdsConfig holds the numbers the classifiers compare against.
type ThresholdsConfig struct {
	StaleDeployMinutes         int     `yaml:"stale_deploy_minutes"`
	StalenessCriticalDays      int     `yaml:"staleness_critical_days"`
	StaleUptimeHours           float64 `yaml:"stale_uptime_hours"`
	StalledDays                int     `yaml:"stalled_days"`
	MisalignedProductThreshold int     `yaml:"misaligned_product_threshold"`
	MaxConsecutiveFailures     int     `yaml:"max_consecutive_failures"`
}

// IndicatorsConfig holds the substring lists used to classify files, commits, and pages.
type IndicatorsConfig struct {
	// Product and Content are matched against changed file paths.
	Product []string `yaml:"product"`
	Content []string `yaml:"content"`

	// Growth and Business are matched against lower-cased commit messages.
	Growth   []string `yaml:"growth"`
	Business []string `yaml:"business"`

	// MaintenanceMarkers are strings that only appear on the maintenance page.
	MaintenanceMarkers []string `yaml:"maintenance_markers"`

	// AppRootMarkers and ContentMarkers detect a page whose JS never rendered.
	// All of ContentMarkers have to be in the page to treat it as rendered.
	AppRootMarkers []string `yaml:"app_root_markers"`
	ContentMarkers []string `yaml:"content_markers"`

	// ContentPaths and SocialPaths are git pathspecs.
	ContentPaths []string `yaml:"content_paths"`
	SocialPaths  []string `yaml:"social_paths"`
}

// OutputConfig is where the bots write their artifacts.
type OutputConfig struct {
	Dir            string `yaml:"dir"`
	BusinessStatus string `yaml:"business_status"`
	BusinessReport string `yaml:"business_report"`
	OutputStatus   string `yaml:"output_status"`
	OutputReport   string `yaml:"output_report"`
	Memory         string `yaml:"memory"`
}

// Path resolves a file name in the output directory.
func (o OutputConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.Dir, name)
}

// ScheduleConfig configures the serve command.
type ScheduleConfig struct {
	Interval     string        `yaml:"interval"`
	StartupDelay time.Duration `yaml:"startup_delay"`
	Listen       string        `yaml:"listen"`
}

// NotifyConfig holds notification targets.
// Nothing sends to them yet; escalation only logs.
type NotifyConfig struct {
	DiscordWebhook string `yaml:"discord_webhook"`
	Email          string `yaml:"email"`
}

// Config is the whole configuration of ggbot.
type Config struct {
	// Repository is the git working copy to inspect.
	Repository string `yaml:"repository"`

	Production ProductionConfig `yaml:"production"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Indicators IndicatorsConfig `yaml:"indicators"`
	Output     OutputConfig     `yaml:"output"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Notify     NotifyConfig     `yaml:"notify"`
}

// newConfig returns a Config with the defaults where zero is a meaningful value.
// The YAML decoder overwrites only the keys the file has, so an explicit 0 is kept.
func newConfig() Config {
	return Config{
		Thresholds: ThresholdsConfig{
			StaleDeployMinutes:         30,
			StalenessCriticalDays:      3,
			StaleUptimeHours:           48,
			StalledDays:                7,
			MisalignedProductThreshold: 5,
			MaxConsecutiveFailures:     3,
		},
		Schedule: ScheduleConfig{
			StartupDelay: 5 * time.Second,
		},
	}
}

// Default returns the built-in configuration, with environment overrides.
func Default() *Config {
	cfg := newConfig()
	setDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg
}

// Load loads configuration from a YAML file.
// Empty path means the built-in configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, boterr.New(boterr.ErrConfig, err, "failed to read config file")
	}

	cfg := newConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, boterr.New(boterr.ErrConfig, err, "failed to parse config file")
	}

	setDefaults(&cfg)
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Repository == "" {
		cfg.Repository = "."
	}

	if cfg.Production.BaseURL == "" {
		cfg.Production.BaseURL = "https://ggloop.io"
	}
	if cfg.Production.HealthEndpoint == "" {
		cfg.Production.HealthEndpoint = "/api/health"
	}
	if cfg.Production.UserAgent == "" {
		cfg.Production.UserAgent = meta.UserAgent()
	}
	if cfg.Production.Timeout == 0 {
		cfg.Production.Timeout = 30 * time.Second
	}

	ind := &cfg.Indicators
	if ind.Product == nil {
		ind.Product = []string{"client/src/", "server/", "shared/", "gg-loop-desktop/"}
	}
	if ind.Content == nil {
		ind.Content = []string{"client/src/pages/", "marketing/", "content/", "blog/", "README"}
	}
	if ind.Growth == nil {
		ind.Growth = []string{"twitter", "tweet", "social", "marketing", "seo", "launch", "outreach", "newsletter", "discord", "tiktok", "blog", "referral"}
	}
	if ind.Business == nil {
		ind.Business = []string{"subscription", "payment", "paypal", "stripe", "pricing", "revenue", "sponsor", "investor", "monetiz", "checkout", "billing", "partner"}
	}
	if ind.MaintenanceMarkers == nil {
		ind.MaintenanceMarkers = []string{"temporarily unavailable", "GG LOOP - Maintenance"}
	}
	if ind.AppRootMarkers == nil {
		ind.AppRootMarkers = []string{`id="root"`, `id="app"`}
	}
	if ind.ContentMarkers == nil {
		ind.ContentMarkers = []string{"Play", "Earn", "Loop"}
	}
	if ind.ContentPaths == nil {
		ind.ContentPaths = []string{"client/src/pages/*.tsx", "client/src/components/*.tsx"}
	}
	if ind.SocialPaths == nil {
		ind.SocialPaths = []string{"scripts/*twitter*", ".github/workflows/twitter*"}
	}

	out := &cfg.Output
	if out.Dir == "" {
		out.Dir = "."
	}
	if out.BusinessStatus == "" {
		out.BusinessStatus = "business-bot/status.json"
	}
	if out.BusinessReport == "" {
		out.BusinessReport = "business-bot/STATUS.md"
	}
	if out.OutputStatus == "" {
		out.OutputStatus = "autonomous-output-engine/output-status.json"
	}
	if out.OutputReport == "" {
		out.OutputReport = "autonomous-output-engine/AUTONOMOUS_OUTPUT_STATUS.md"
	}
	if out.Memory == "" {
		out.Memory = "autonomous-output-engine/memory.json"
	}

	if cfg.Schedule.Interval == "" {
		cfg.Schedule.Interval = "15m"
	}
	if cfg.Schedule.Listen == "" {
		cfg.Schedule.Listen = "127.0.0.1:9100"
	}
}

// applyEnv overrides values by environment variables.
func applyEnv(cfg *Config) {
	if u := os.Getenv("PRODUCTION_URL"); u != "" {
		cfg.Production.BaseURL = u
	}
	if u := os.Getenv("GGLOOP_BASE_URL"); u != "" {
		cfg.Production.BaseURL = u
	}
	if u := os.Getenv("DISCORD_WEBHOOK_URL"); u != "" {
		cfg.Notify.DiscordWebhook = u
	}
	if e := os.Getenv("ALERT_EMAIL"); e != "" {
		cfg.Notify.Email = e
	}
}

// Validate checks the configuration and reports every problem at once.
func (cfg *Config) Validate() error {
	errs := &boterr.ListBuilder{What: boterr.ErrConfig}

	if u, err := url.Parse(cfg.Production.BaseURL); err != nil {
		errs.Pushf("production.base_url: %s", err)
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.Pushf("production.base_url: must be an http or https URL: %q", cfg.Production.BaseURL)
	}

	if cfg.Production.Timeout < 0 {
		errs.Pushf("production.timeout: must be positive: %s", cfg.Production.Timeout)
	}

	for _, x := range []struct {
		Name  string
		Value int
	}{
		{"thresholds.stale_deploy_minutes", cfg.Thresholds.StaleDeployMinutes},
		{"thresholds.staleness_critical_days", cfg.Thresholds.StalenessCriticalDays},
		{"thresholds.stalled_days", cfg.Thresholds.StalledDays},
		{"thresholds.misaligned_product_threshold", cfg.Thresholds.MisalignedProductThreshold},
		{"thresholds.max_consecutive_failures", cfg.Thresholds.MaxConsecutiveFailures},
	} {
		if x.Value < 0 {
			errs.Pushf("%s: must not be negative: %d", x.Name, x.Value)
		}
	}
	if cfg.Thresholds.StaleUptimeHours < 0 {
		errs.Pushf("thresholds.stale_uptime_hours: must not be negative: %g", cfg.Thresholds.StaleUptimeHours)
	}

	if cfg.Schedule.StartupDelay < 0 {
		errs.Pushf("schedule.startup_delay: must not be negative: %s", cfg.Schedule.StartupDelay)
	}

	return errs.Build()
}
