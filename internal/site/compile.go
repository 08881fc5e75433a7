package site

import (
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kcuzner/rstblog/internal/config"
	"github.com/kcuzner/rstblog/internal/errors"
	"github.com/kcuzner/rstblog/internal/logfields"
	"github.com/kcuzner/rstblog/internal/markup"
	"github.com/kcuzner/rstblog/internal/templates"
)

// TemplateNames selects which template renders each document kind.
type TemplateNames struct {
	Page  string
	Post  string
	Index string
}

// Compiler turns source documents into Documents under outDir.
type Compiler struct {
	translator *markup.Translator
	engine     *templates.Engine
	names      TemplateNames
	outDir     string
}

// NewCompiler creates a Compiler writing into outDir.
func NewCompiler(translator *markup.Translator, engine *templates.Engine, names TemplateNames, outDir string) *Compiler {
	return &Compiler{translator: translator, engine: engine, names: names, outDir: outDir}
}

// renderData is what document templates see.
type renderData struct {
	Title   string
	Tags    []string
	Date    time.Time
	HasDate bool
	URL     string
	Body    template.HTML
	Preview template.HTML
	Site    Context
}

// CompilePage compiles a non-dated document placed at its declared
// site-root-relative URL.
func (c *Compiler) CompilePage(src string) (*Document, error) {
	return c.compile(src, false)
}

// CompilePost compiles a dated document. A relative URL is prefixed with
// the post date as YYYY/MM/DD; an absolute URL is used verbatim so imported
// content keeps its fixed location.
func (c *Compiler) CompilePost(src string) (*Document, error) {
	return c.compile(src, true)
}

func (c *Compiler) compile(src string, post bool) (*Document, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.FileSystemError("read source document", err).
			WithContext("document", src)
	}

	result, err := c.translator.Translate(src, raw)
	if err != nil {
		return nil, err
	}
	settings := result.Settings
	if !result.HasSettings || settings.Title == "" {
		return nil, errors.MissingTitle(src)
	}

	var url string
	if post {
		url, err = postURL(src, settings)
	} else {
		url, err = pageURL(src, settings)
	}
	if err != nil {
		return nil, err
	}

	// The URL is author-controlled; it must resolve inside outDir like every
	// other configured path, or a ".." segment would place output outside
	// the site root.
	outputDir, err := config.ResolveInside(c.outDir, filepath.FromSlash(strings.TrimPrefix(url, "/")))
	if err != nil {
		if be, ok := err.(*errors.BlogError); ok {
			return nil, be.WithContext("document", src)
		}
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.FileSystemError("create output directory", err).
			WithContext("path", outputDir)
	}

	if err := copyAssets(src, outputDir, result.Assets); err != nil {
		return nil, err
	}

	doc := &Document{
		Source:    src,
		URL:       url,
		OutputDir: outputDir,
		Title:     settings.Title,
		Tags:      settings.Tags,
		Date:      settings.Date,
		HasDate:   settings.HasDate,
		Preview:   template.HTML(result.Preview),
		Assets:    result.Assets,
	}

	templateName := c.names.Page
	if post {
		templateName = c.names.Post
	}
	body := template.HTML(result.Body)
	// Rendering is deferred: listings and pagination need the full corpus,
	// which is not known until every document has been compiled.
	doc.render = func(ctx Context) (string, error) {
		return c.engine.Render(templateName, renderData{
			Title:   doc.Title,
			Tags:    doc.Tags,
			Date:    doc.Date,
			HasDate: doc.HasDate,
			URL:     doc.URL,
			Body:    body,
			Preview: doc.Preview,
			Site:    ctx,
		})
	}

	slog.Debug("Compiled document",
		logfields.Document(src),
		logfields.URL(url),
		logfields.Template(templateName),
		slog.Int("assets", len(result.Assets)))
	return doc, nil
}

func pageURL(src string, settings markup.Settings) (string, error) {
	if !strings.HasPrefix(settings.URL, "/") {
		return "", errors.RelativePageURL(src, settings.URL)
	}
	return settings.URL, nil
}

func postURL(src string, settings markup.Settings) (string, error) {
	if !settings.HasDate {
		return "", errors.DatelessPost(src)
	}
	if strings.HasPrefix(settings.URL, "/") {
		// Fixed legacy URL, date ignored for path purposes.
		return settings.URL, nil
	}
	datePath := settings.Date.Format("2006/01/02")
	if settings.URL == "" {
		return "/" + datePath, nil
	}
	return "/" + datePath + "/" + settings.URL, nil
}

// copyAssets copies every referenced asset from the source document's
// directory into the output directory, preserving relative sub-paths.
func copyAssets(src, outputDir string, assets []string) error {
	srcDir := filepath.Dir(src)
	for _, asset := range assets {
		from := filepath.Join(srcDir, filepath.FromSlash(asset))
		to := filepath.Join(outputDir, filepath.FromSlash(asset))
		if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
			return errors.FileSystemError("create asset directory", err).
				WithContext("path", filepath.Dir(to))
		}
		if err := copyFile(src, asset, from, to); err != nil {
			return err
		}
		slog.Debug("Copied asset", logfields.Document(src), logfields.Asset(asset))
	}
	return nil
}

func copyFile(doc, asset, from, to string) error {
	in, err := os.Open(from)
	if err != nil {
		return errors.AssetMissing(doc, asset, err)
	}
	defer in.Close()

	out, err := os.Create(to)
	if err != nil {
		return errors.FileSystemError("create asset file", err).WithContext("path", to)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.FileSystemError("copy asset", err).WithContext("path", to)
	}
	return nil
}
