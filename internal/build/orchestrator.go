// Package build orchestrates a full site rebuild: repository update, path
// validation, output cleaning, static copy, assembly, and generated assets.
package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kcuzner/rstblog/internal/config"
	"github.com/kcuzner/rstblog/internal/errors"
	"github.com/kcuzner/rstblog/internal/git"
	"github.com/kcuzner/rstblog/internal/highlight"
	"github.com/kcuzner/rstblog/internal/logfields"
	"github.com/kcuzner/rstblog/internal/markup"
	"github.com/kcuzner/rstblog/internal/site"
	"github.com/kcuzner/rstblog/internal/templates"
)

// Report summarizes a completed build.
type Report struct {
	Pages    int
	Posts    int
	Duration time.Duration
}

// Runner executes full builds. Builds are synchronous and single-threaded;
// the queue consumer serializes task execution, so at most one build is in
// flight.
type Runner struct {
	cfg *config.Config
	git *git.Client
}

// NewRunner creates a Runner for the configured repository.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg: cfg,
		git: git.NewClient(cfg.Repository.URL, cfg.Repository.Branch, cfg.Repository.Directory),
	}
}

// Clone performs the idempotent initial repository clone.
func (r *Runner) Clone(ctx context.Context) error {
	return r.git.Clone(ctx)
}

// Run executes a full rebuild. Any failure aborts the build; there is no
// partial-publish mode. The output directory has already been cleared by
// the time assembly runs, so a failed rebuild can leave the previous site
// removed until the task is re-triggered.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	if err := r.git.Update(ctx); err != nil {
		return nil, err
	}

	repoRoot, err := filepath.Abs(r.cfg.Repository.Directory)
	if err != nil {
		return nil, errors.FileSystemError("resolve repository root", err)
	}
	outDir, err := filepath.Abs(r.cfg.Server.Directory)
	if err != nil {
		return nil, errors.FileSystemError("resolve output directory", err)
	}

	// Path safety comes before any filesystem mutation.
	if err := r.cfg.ValidatePaths(repoRoot); err != nil {
		return nil, err
	}
	stylesheetPath, err := config.ResolveInside(outDir, r.cfg.Highlight.Stylesheet)
	if err != nil {
		return nil, err
	}

	slog.Debug("Build stage", logfields.Stage("clean"))
	if err := cleanDir(outDir); err != nil {
		return nil, err
	}
	slog.Debug("Build stage", logfields.Stage("static"))
	if err := r.copyStatic(repoRoot, outDir); err != nil {
		return nil, err
	}

	// Build-scoped configuration: the highlighter style is active only for
	// this build, passed into construction rather than held globally.
	highlighter := highlight.New(highlight.Options{Style: r.cfg.Highlight.Style})
	parser := markup.NewParser(markup.NewRegistry(highlighter), highlighter)
	translator := markup.NewTranslator(parser, slog.Default())

	engine, err := templates.Load(repoRoot)
	if err != nil {
		return nil, err
	}

	names := site.TemplateNames{
		Page:  r.cfg.Blog.Templates.Page,
		Post:  r.cfg.Blog.Templates.Post,
		Index: r.cfg.Blog.Templates.Index,
	}
	compiler := site.NewCompiler(translator, engine, names, outDir)
	assembler := site.NewAssembler(compiler, engine, names, r.cfg.Blog.Step, outDir)

	pageSources, err := discover(repoRoot, r.cfg.Blog.Pages)
	if err != nil {
		return nil, err
	}
	postSources, err := discover(repoRoot, r.cfg.Blog.Posts)
	if err != nil {
		return nil, err
	}
	slog.Info("Assembling site",
		logfields.Stage("assemble"),
		slog.Int("pages", len(pageSources)),
		slog.Int("posts", len(postSources)),
		logfields.Path(outDir))

	if err := assembler.Assemble(pageSources, postSources); err != nil {
		return nil, err
	}

	slog.Debug("Build stage", logfields.Stage("stylesheet"))
	if err := writeStylesheet(highlighter, stylesheetPath); err != nil {
		return nil, err
	}

	report := &Report{Pages: len(pageSources), Posts: len(postSources), Duration: time.Since(start)}
	slog.Info("Build complete",
		slog.Int("pages", report.Pages),
		slog.Int("posts", report.Posts),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

// discover lists the sources matching a glob relative to the repository
// root, in sorted order so discovery order is deterministic.
func discover(repoRoot, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(repoRoot), pattern)
	if err != nil {
		return nil, errors.FileSystemError("glob sources", err).WithContext("pattern", pattern)
	}
	sort.Strings(matches)
	sources := make([]string, len(matches))
	for i, m := range matches {
		sources[i] = filepath.Join(repoRoot, filepath.FromSlash(m))
	}
	return sources, nil
}

// cleanDir removes every entry of dir, keeping the directory itself.
func cleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(dir, 0o755)
		}
		return errors.FileSystemError("read output directory", err).WithContext("path", dir)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return errors.FileSystemError("clean output directory", err).WithContext("path", dir)
		}
	}
	return nil
}

// copyStatic copies each configured static tree verbatim into the output
// directory at the same relative path. Missing trees are skipped.
func (r *Runner) copyStatic(repoRoot, outDir string) error {
	return InDir(outDir, func() error {
		for _, rel := range r.cfg.Blog.Static {
			src := filepath.Join(repoRoot, filepath.FromSlash(rel))
			if _, err := os.Stat(src); os.IsNotExist(err) {
				slog.Warn("Static path missing, skipping", logfields.Path(src))
				continue
			}
			if err := os.CopyFS(filepath.FromSlash(rel), os.DirFS(src)); err != nil {
				return errors.FileSystemError("copy static tree", err).WithContext("path", rel)
			}
			slog.Debug("Copied static tree", logfields.Path(rel))
		}
		return nil
	})
}

func writeStylesheet(h *highlight.Highlighter, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.FileSystemError("create stylesheet directory", err).WithContext("path", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.FileSystemError("create stylesheet", err).WithContext("path", path)
	}
	defer f.Close()
	return h.WriteStylesheet(f)
}
