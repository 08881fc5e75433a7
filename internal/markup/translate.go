package markup

import (
	"bytes"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	gmast "github.com/yuin/goldmark/ast"

	"github.com/kcuzner/rstblog/internal/errors"
	"github.com/kcuzner/rstblog/internal/logfields"
)

// Result is the output of translating one document: rendered HTML plus the
// metadata collected during the walk.
type Result struct {
	Body        string
	Preview     string
	Settings    Settings
	HasSettings bool
	Assets      []string
}

// Translator walks a parsed node tree and produces HTML fragments plus
// out-of-band metadata. It performs no I/O; side effects are pure data
// collection.
type Translator struct {
	parser *Parser
	logger *slog.Logger
}

// NewTranslator creates a Translator using the given parser.
func NewTranslator(parser *Parser, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{parser: parser, logger: logger}
}

// Translate parses and renders one document. docPath identifies the source
// document in diagnostics.
func (t *Translator) Translate(docPath string, source []byte) (*Result, error) {
	root, err := t.parser.Parse(source)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if err := t.collectAssets(docPath, root, result); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	previewSet := false
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *SettingsNode:
			if result.HasSettings {
				t.logger.Warn("duplicate settings directive ignored", logfields.Document(docPath))
				continue
			}
			result.Settings = node.Settings
			result.HasSettings = true
		case *BreakNode:
			if !previewSet {
				result.Preview = body.String()
				previewSet = true
			}
		default:
			if err := t.parser.Render(&body, source, child); err != nil {
				return nil, errors.InternalError("render document body", err).
					WithContext("document", docPath)
			}
		}
	}
	result.Body = body.String()
	if !previewSet {
		result.Preview = result.Body
	}
	return result, nil
}

// collectAssets gathers referenced local assets in document order, rejecting
// any URI that resolves outside the source document's directory.
func (t *Translator) collectAssets(docPath string, root gmast.Node, result *Result) error {
	var walkErr error
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		var uri string
		switch node := n.(type) {
		case *gmast.Image:
			uri = string(node.Destination)
		case *ImageNode:
			uri = node.URI
		default:
			return gmast.WalkContinue, nil
		}
		if isRemote(uri) {
			return gmast.WalkContinue, nil
		}
		if filepath.IsAbs(uri) || escapesDocumentDir(uri) {
			walkErr = errors.AbsoluteAssetPath(docPath, uri)
			return gmast.WalkStop, nil
		}
		result.Assets = append(result.Assets, uri)
		return gmast.WalkContinue, nil
	})
	return walkErr
}

func isRemote(uri string) bool {
	if strings.HasPrefix(uri, "//") {
		return true
	}
	u, err := url.Parse(uri)
	return err == nil && u.Scheme != ""
}

// escapesDocumentDir reports whether a relative URI climbs out of the
// document's directory. Such references defeat the same guarantee the
// absolute-path check provides.
func escapesDocumentDir(uri string) bool {
	cleaned := path.Clean(uri)
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}
