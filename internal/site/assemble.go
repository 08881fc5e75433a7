package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/kcuzner/rstblog/internal/errors"
	"github.com/kcuzner/rstblog/internal/logfields"
	"github.com/kcuzner/rstblog/internal/templates"
)

// Assembler compiles the full corpus and drives final rendering of every
// page, post, and index.
type Assembler struct {
	compiler *Compiler
	engine   *templates.Engine
	names    TemplateNames
	step     int
	outDir   string
}

// NewAssembler creates an Assembler paginating with the given step.
func NewAssembler(compiler *Compiler, engine *templates.Engine, names TemplateNames, step int, outDir string) *Assembler {
	return &Assembler{compiler: compiler, engine: engine, names: names, step: step, outDir: outDir}
}

// indexData is what the shared index template sees for one pagination chunk.
type indexData struct {
	IndexName   string
	IndexPosts  []*Document
	IndexNumber int
	IndexCount  int
	Site        Context
}

// Assemble compiles every source and populates the output directory.
// pageSources and postSources are in discovery order; ties in post dates
// preserve that order.
func (a *Assembler) Assemble(pageSources, postSources []string) error {
	pages := make([]*Document, 0, len(pageSources))
	for _, src := range pageSources {
		doc, err := a.compiler.CompilePage(src)
		if err != nil {
			return err
		}
		pages = append(pages, doc)
	}

	posts := make([]*Document, 0, len(postSources))
	for _, src := range postSources {
		doc, err := a.compiler.CompilePost(src)
		if err != nil {
			return err
		}
		posts = append(posts, doc)
	}

	// Stable: equal dates keep discovery order, so secondary ordering is
	// deterministic.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})

	chunks := paginate(posts, a.step)
	buckets := groupByMonth(posts)

	ctx := Context{
		Pages:          pages,
		Posts:          posts,
		PostsByMonth:   buckets,
		PostsPaginated: chunks,
	}

	for _, doc := range append(append([]*Document{}, pages...), posts...) {
		html, err := doc.Render(ctx)
		if err != nil {
			return err
		}
		if err := writeFile(doc.OutputDir, "index.html", html); err != nil {
			return err
		}
	}

	if err := a.renderMonthIndexes(buckets, ctx); err != nil {
		return err
	}
	return a.renderGlobalIndexes(chunks, ctx)
}

// renderMonthIndexes writes each month bucket's pagination chunks under
// outDir/YYYY/MM. Monthly pagination reports its number and count as
// constants; only the global index carries real pagination metadata.
func (a *Assembler) renderMonthIndexes(buckets []MonthBucket, ctx Context) error {
	for _, bucket := range buckets {
		monthDir := filepath.Join(a.outDir, fmt.Sprintf("%04d", bucket.Year), fmt.Sprintf("%02d", int(bucket.Month)))
		for _, chunk := range paginate(bucket.Posts, a.step) {
			html, err := a.engine.Render(a.names.Index, indexData{
				IndexName:   fmt.Sprintf("Posts %s, Page %d", bucket.Label(), chunk.Number+1),
				IndexPosts:  chunk.Posts,
				IndexNumber: 0,
				IndexCount:  1,
				Site:        ctx,
			})
			if err != nil {
				return err
			}
			if err := writeFile(monthDir, indexFileName(chunk.Number), html); err != nil {
				return err
			}
		}
		slog.Debug("Rendered month archive",
			slog.String("month", bucket.Label()),
			slog.Int("posts", len(bucket.Posts)))
	}
	return nil
}

// renderGlobalIndexes writes the site-root pagination chunks. Zero posts
// still produce one empty index page.
func (a *Assembler) renderGlobalIndexes(chunks []Chunk, ctx Context) error {
	for _, chunk := range chunks {
		html, err := a.engine.Render(a.names.Index, indexData{
			IndexName:   fmt.Sprintf("Page %d", chunk.Number+1),
			IndexPosts:  chunk.Posts,
			IndexNumber: chunk.Number,
			IndexCount:  chunk.Total,
			Site:        ctx,
		})
		if err != nil {
			return err
		}
		if err := writeFile(a.outDir, indexFileName(chunk.Number), html); err != nil {
			return err
		}
	}
	return nil
}

// paginate slices posts into chunks of step; the last chunk may be shorter.
// An empty sequence yields a single empty chunk.
func paginate(posts []*Document, step int) []Chunk {
	if len(posts) == 0 {
		return []Chunk{{Number: 0, Posts: []*Document{}, Total: 1}}
	}
	total := (len(posts) + step - 1) / step
	chunks := make([]Chunk, 0, total)
	for i := 0; i < total; i++ {
		end := (i + 1) * step
		if end > len(posts) {
			end = len(posts)
		}
		chunks = append(chunks, Chunk{Number: i, Posts: posts[i*step : end], Total: total})
	}
	return chunks
}

// groupByMonth groups the already-sorted posts into contiguous same-month
// runs. A month key reappearing after a different month starts a fresh
// bucket rather than merging into the earlier one.
func groupByMonth(posts []*Document) []MonthBucket {
	var buckets []MonthBucket
	for _, post := range posts {
		if len(buckets) > 0 && buckets[len(buckets)-1].sameKey(post.Date) {
			last := &buckets[len(buckets)-1]
			last.Posts = append(last.Posts, post)
			continue
		}
		buckets = append(buckets, MonthBucket{
			Year:  post.Date.Year(),
			Month: post.Date.Month(),
			Posts: []*Document{post},
		})
	}
	return buckets
}

func writeFile(dir, name, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.FileSystemError("create directory", err).WithContext("path", dir)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.FileSystemError("write rendered file", err).WithContext("path", path)
	}
	slog.Debug("Wrote file", logfields.Path(path))
	return nil
}
