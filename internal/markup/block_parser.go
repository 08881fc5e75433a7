package markup

import (
	"regexp"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// directiveMarker matches `.. name:: optional-argument`.
var directiveMarker = regexp.MustCompile(`^\.\. ([a-zA-Z][\w-]*)::[ \t]*(.*)$`)

// rawDirectiveNode extends directiveNode with the indent captured from the
// first content line, used to dedent the remaining lines.
type rawDirectiveNode struct {
	directiveNode
	indent int
}

// directiveBlockParser recognizes rst-style directive blocks: a marker line
// followed by indented option/body lines, terminated by the first
// non-indented line.
type directiveBlockParser struct{}

func newDirectiveBlockParser() parser.BlockParser { return &directiveBlockParser{} }

func (p *directiveBlockParser) Trigger() []byte { return []byte{'.'} }

func (p *directiveBlockParser) Open(parent gmast.Node, reader text.Reader, pc parser.Context) (gmast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos > 3 {
		return nil, parser.NoChildren
	}
	m := directiveMarker.FindSubmatch(util.TrimRightSpace(line[pos:]))
	if m == nil {
		return nil, parser.NoChildren
	}
	node := &rawDirectiveNode{indent: -1}
	node.Name = string(m[1])
	node.Arg = string(m[2])
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *directiveBlockParser) Continue(n gmast.Node, reader text.Reader, pc parser.Context) parser.State {
	node := n.(*rawDirectiveNode)
	line, segment := reader.PeekLine()
	if util.IsBlank(line) {
		n.Lines().Append(segment)
		reader.Advance(segment.Len() - 1)
		return parser.Continue | parser.NoChildren
	}

	w, _ := util.IndentWidth(line, reader.LineOffset())
	if w == 0 {
		return parser.Close
	}
	if node.indent < 0 {
		node.indent = w
	}
	childpos, padding := util.IndentPosition(line, reader.LineOffset(), node.indent)
	if childpos < 0 {
		return parser.Close
	}
	seg := text.NewSegmentPadding(segment.Start+childpos, segment.Stop, padding)
	n.Lines().Append(seg)
	reader.AdvanceAndSetPadding(segment.Stop-segment.Start-childpos-1, padding)
	return parser.Continue | parser.NoChildren
}

func (p *directiveBlockParser) Close(n gmast.Node, reader text.Reader, pc parser.Context) {}

func (p *directiveBlockParser) CanInterruptParagraph() bool { return true }

func (p *directiveBlockParser) CanAcceptIndentedLine() bool { return false }
