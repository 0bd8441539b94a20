package chat

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock is a fenced code block of an answer
type CodeBlock struct {
	Language string
	Code     string
}

// CodeBlocks returns the fenced code blocks of a markdown answer in document order
func CodeBlocks(markdown string) []CodeBlock {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var ret []CodeBlock
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		var sb strings.Builder
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(src))
		}
		ret = append(ret, CodeBlock{
			Language: string(block.Language(src)),
			Code:     sb.String(),
		})
		return ast.WalkSkipChildren, nil
	})
	return ret
}
