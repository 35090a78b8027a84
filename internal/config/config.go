package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// SiteConfig locates the static site this tool maintains.
type SiteConfig struct {
	Dir       string `mapstructure:"dir"`       // directory served by preview
	Index     string `mapstructure:"index"`     // index document path
	Container string `mapstructure:"container"` // element receiving new posts
}

// RecoveryConfig controls the crash-recovery file.
type RecoveryConfig struct {
	Path string `mapstructure:"path"`
}

// LanguagesConfig names the two post languages.
type LanguagesConfig struct {
	Primary   string `mapstructure:"primary"`   // section 1 language code
	Secondary string `mapstructure:"secondary"` // section 2 language code; source of the post id
}

// PostConfig controls heading decoration.
type PostConfig struct {
	SelfLink     bool   `mapstructure:"selflink"` // default true, set through viper
	SelfLinkText string `mapstructure:"selflink_text"`
}

// HighlightConfig controls code rendering.
type HighlightConfig struct {
	Style string `mapstructure:"style"` // chroma style name
}

// PreviewConfig controls the local preview server.
type PreviewConfig struct {
	Addr string `mapstructure:"addr"` // listen address; port 0 picks an ephemeral port
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Site      SiteConfig      `mapstructure:"site"`
	Recovery  RecoveryConfig  `mapstructure:"recovery"`
	Languages LanguagesConfig `mapstructure:"languages"`
	Post      PostConfig      `mapstructure:"post"`
	Highlight HighlightConfig `mapstructure:"highlight"`
	Preview   PreviewConfig   `mapstructure:"preview"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Site.Dir == "" {
		c.Site.Dir = "."
	}
	if c.Site.Index == "" {
		c.Site.Index = "index.html"
	}
	if c.Site.Container == "" {
		c.Site.Container = "main"
	}
	if c.Recovery.Path == "" {
		c.Recovery.Path = "backup.md"
	}
	if c.Languages.Primary == "" {
		c.Languages.Primary = "fr"
	}
	if c.Languages.Secondary == "" {
		c.Languages.Secondary = "en"
	}
	if c.Post.SelfLinkText == "" {
		c.Post.SelfLinkText = "Λ"
	}
	if c.Highlight.Style == "" {
		c.Highlight.Style = "github"
	}
	if c.Preview.Addr == "" {
		c.Preview.Addr = "127.0.0.1:0"
	}
}
