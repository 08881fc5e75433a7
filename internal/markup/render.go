package markup

import (
	"fmt"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/kcuzner/rstblog/internal/highlight"
)

// nodeRenderer renders the directive node kinds. Content node rendering is
// left to goldmark's default HTML renderer.
type nodeRenderer struct {
	highlighter *highlight.Highlighter
}

func newNodeRenderer(h *highlight.Highlighter) renderer.NodeRenderer {
	return &nodeRenderer{highlighter: h}
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSettings, r.renderNothing)
	reg.Register(KindBreak, r.renderNothing)
	reg.Register(kindDirective, r.renderNothing)
	reg.Register(KindCode, r.renderCode)
	reg.Register(KindImage, r.renderImage)
}

func (r *nodeRenderer) renderNothing(w util.BufWriter, source []byte, n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	return gmast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderCode(w util.BufWriter, source []byte, n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	node := n.(*CodeNode)
	class := "code-block"
	if node.Scrollable {
		class += " code-block-scroll"
	}
	if _, err := fmt.Fprintf(w, "<div class=%q>", class); err != nil {
		return gmast.WalkStop, err
	}
	if r.highlighter != nil {
		if err := r.highlighter.Highlight(w, node.Code, node.Language); err != nil {
			return gmast.WalkStop, err
		}
	} else {
		_, _ = w.WriteString("<pre><code>")
		_, _ = w.Write(util.EscapeHTML([]byte(node.Code)))
		_, _ = w.WriteString("</code></pre>")
	}
	if _, err := w.WriteString("</div>\n"); err != nil {
		return gmast.WalkStop, err
	}
	return gmast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderImage(w util.BufWriter, source []byte, n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	node := n.(*ImageNode)
	_, _ = w.WriteString(`<img src="`)
	_, _ = w.Write(util.EscapeHTML([]byte(node.URI)))
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML([]byte(node.Alt)))
	_, _ = w.WriteString(`"`)
	if node.Width > 0 {
		// px implied; the width never exceeds the container.
		_, _ = fmt.Fprintf(w, ` style="width:%dpx;max-width:100%%"`, node.Width)
	}
	if _, err := w.WriteString(">\n"); err != nil {
		return gmast.WalkStop, err
	}
	return gmast.WalkSkipChildren, nil
}
