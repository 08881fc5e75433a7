package markup

import (
	gmast "github.com/yuin/goldmark/ast"
)

// directiveNode is the raw parse of a `.. name:: arg` block before its
// handler resolves it into a typed node.
type directiveNode struct {
	gmast.BaseBlock
	Name string
	Arg  string
}

var kindDirective = gmast.NewNodeKind("Directive")

func (n *directiveNode) Kind() gmast.NodeKind { return kindDirective }
func (n *directiveNode) IsRaw() bool          { return true }
func (n *directiveNode) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{"Name": n.Name, "Arg": n.Arg}, nil)
}

// SettingsNode holds the resolved document settings. It renders nothing.
type SettingsNode struct {
	gmast.BaseBlock
	Settings Settings
}

// KindSettings is the node kind for SettingsNode.
var KindSettings = gmast.NewNodeKind("Settings")

func (n *SettingsNode) Kind() gmast.NodeKind { return KindSettings }
func (n *SettingsNode) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{"Title": n.Settings.Title}, nil)
}

// CodeNode carries a literal code block for syntax highlighting.
type CodeNode struct {
	gmast.BaseBlock
	Code       string
	Language   string
	Scrollable bool
}

// KindCode is the node kind for CodeNode.
var KindCode = gmast.NewNodeKind("Code")

func (n *CodeNode) Kind() gmast.NodeKind { return KindCode }
func (n *CodeNode) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{"Language": n.Language}, nil)
}

// BreakNode marks the preview cutoff. It renders nothing.
type BreakNode struct {
	gmast.BaseBlock
}

// KindBreak is the node kind for BreakNode.
var KindBreak = gmast.NewNodeKind("Break")

func (n *BreakNode) Kind() gmast.NodeKind { return KindBreak }
func (n *BreakNode) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, nil, nil)
}

// ImageNode is a block image with an optional pixel width.
type ImageNode struct {
	gmast.BaseBlock
	URI   string
	Alt   string
	Width int // 0 means unset; px implied, clamped to the container
}

// KindImage is the node kind for ImageNode.
var KindImage = gmast.NewNodeKind("BlockImage")

func (n *ImageNode) Kind() gmast.NodeKind { return KindImage }
func (n *ImageNode) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{"URI": n.URI}, nil)
}
