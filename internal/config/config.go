// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	Blog       BlogConfig       `yaml:"blog"`
	Server     ServerConfig     `yaml:"server"`
	Highlight  HighlightConfig  `yaml:"highlight"`
	Queue      QueueConfig      `yaml:"queue"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	History    HistoryConfig    `yaml:"history"`
}

// RepositoryConfig identifies the Git repository holding the site sources.
type RepositoryConfig struct {
	URL       string `yaml:"url"`
	Branch    string `yaml:"branch,omitempty"`
	Directory string `yaml:"directory"`
}

// BlogConfig describes where sources live inside the repository and how
// listings are paginated.
type BlogConfig struct {
	Posts     string          `yaml:"posts"`  // glob relative to the repository root
	Pages     string          `yaml:"pages"`  // glob relative to the repository root
	Static    []string        `yaml:"static"` // directories copied verbatim, relative to the repository root
	Step      int             `yaml:"step"`   // posts per pagination chunk
	Templates TemplatesConfig `yaml:"templates"`
}

// TemplatesConfig names the templates used for each document kind. The
// template files themselves live in the repository.
type TemplatesConfig struct {
	Page  string `yaml:"page"`
	Post  string `yaml:"post"`
	Index string `yaml:"index"`
}

// ServerConfig configures the webhook trigger endpoint and the output tree.
type ServerConfig struct {
	Listen    string `yaml:"listen"`
	Secret    string `yaml:"secret,omitempty"` // HMAC shared secret; empty enables the debug endpoint
	Directory string `yaml:"directory"`        // output directory the site is rendered into
}

// HighlightConfig configures syntax highlighting for code-block directives.
type HighlightConfig struct {
	Style      string `yaml:"style"`
	Stylesheet string `yaml:"stylesheet"` // written inside the output directory
}

// QueueConfig configures the NATS task queue.
type QueueConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// ScheduleConfig optionally enqueues periodic rebuilds in addition to
// webhook triggers.
type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval,omitempty"` // zero disables scheduling
}

// HistoryConfig configures the sqlite build-history store.
type HistoryConfig struct {
	Database string `yaml:"database"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Best effort; the environment may already be populated.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content so secrets can stay
	// out of the file.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Repository.Branch == "" {
		c.Repository.Branch = "main"
	}
	if c.Blog.Posts == "" {
		c.Blog.Posts = "posts/**/*.md"
	}
	if c.Blog.Pages == "" {
		c.Blog.Pages = "pages/**/*.md"
	}
	if c.Blog.Step == 0 {
		c.Blog.Step = 10
	}
	if c.Blog.Templates.Page == "" {
		c.Blog.Templates.Page = "page.html"
	}
	if c.Blog.Templates.Post == "" {
		c.Blog.Templates.Post = "post.html"
	}
	if c.Blog.Templates.Index == "" {
		c.Blog.Templates.Index = "index.html"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":5000"
	}
	if c.Highlight.Style == "" {
		c.Highlight.Style = "github"
	}
	if c.Highlight.Stylesheet == "" {
		c.Highlight.Stylesheet = "static/highlight.css"
	}
	if c.Queue.URL == "" {
		c.Queue.URL = "nats://127.0.0.1:4222"
	}
	if c.Queue.SubjectPrefix == "" {
		c.Queue.SubjectPrefix = "rstblog"
	}
	if c.History.Database == "" {
		c.History.Database = "rstblog-history.db"
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.Repository.URL == "" {
		return fmt.Errorf("repository.url is required")
	}
	if c.Repository.Directory == "" {
		return fmt.Errorf("repository.directory is required")
	}
	if c.Server.Directory == "" {
		return fmt.Errorf("server.directory is required")
	}
	if c.Blog.Step < 1 {
		return fmt.Errorf("blog.step must be at least 1")
	}
	return nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	return os.WriteFile(configPath, []byte(exampleConfig), 0o644)
}

const exampleConfig = `repository:
  url: https://example.com/blog.git
  branch: main
  directory: ./repo

blog:
  posts: posts/**/*.md
  pages: pages/**/*.md
  static:
    - static
  step: 10
  templates:
    page: page.html
    post: post.html
    index: index.html

server:
  listen: ":5000"
  secret: ${RSTBLOG_SECRET}
  directory: ./site

highlight:
  style: github
  stylesheet: static/highlight.css

queue:
  url: nats://127.0.0.1:4222
  subject_prefix: rstblog

history:
  database: rstblog-history.db
`
