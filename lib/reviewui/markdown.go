// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// explanationParserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to
// share; parsing creates per-call state via Parse(reader).
var (
	explanationParserInstance goldmark.Markdown
	explanationParserOnce     sync.Once
)

func getExplanationParser() goldmark.Markdown {
	explanationParserOnce.Do(func() {
		explanationParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return explanationParserInstance
}

// renderExplanation parses an item's explanation as markdown and
// renders it as styled terminal output. Soft line breaks within
// paragraphs become spaces so hard-wrapped source text reflows at any
// terminal width. Fenced code blocks are syntax-highlighted; generated
// explanations for programming subjects routinely contain them.
func renderExplanation(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := getExplanationParser().Parser().Parse(text.NewReader(source))

	// Force ANSI256: this output is always for terminal display, so
	// bypass auto-detection which would produce uncolored output in
	// test environments with no TTY.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &explanationRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)

	return strings.TrimRight(renderer.output.String(), "\n")
}

// explanationRenderer walks a goldmark AST and produces styled
// terminal text. Paragraph inline content collects in a buffer and is
// word-wrapped as a unit when the paragraph closes, which goldmark's
// streaming renderer callbacks don't accommodate.
type explanationRenderer struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder

	// Inline accumulator, flushed with word-wrap when the containing
	// block closes.
	inline strings.Builder

	// Indent prefix for nested blocks (blockquotes, list items).
	prefix      string
	prefixWidth int

	// Pending bullet: replaces the prefix for the very next emitted
	// line, then clears.
	pendingBullet string

	// Inline style counters; counters rather than booleans so nested
	// emphasis unwinds correctly.
	boldCount   int
	italicCount int

	listDepth   int
	listCounter []int // Per-depth ordered list counters; 0 for bullets.
	itemIndent  []int // Per-depth indent width added by the current item.

	lipRenderer *lipgloss.Renderer

	trailingNewlines int
}

func (renderer *explanationRenderer) newStyle() lipgloss.Style {
	return renderer.lipRenderer.NewStyle()
}

func (renderer *explanationRenderer) contentWidth() int {
	width := renderer.width - renderer.prefixWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (renderer *explanationRenderer) write(s string) {
	if s == "" {
		return
	}
	renderer.output.WriteString(s)

	newTrailing := 0
	allNewlines := true
	for index := len(s) - 1; index >= 0; index-- {
		if s[index] == '\n' {
			newTrailing++
		} else {
			allNewlines = false
			break
		}
	}
	if allNewlines {
		renderer.trailingNewlines += newTrailing
	} else {
		renderer.trailingNewlines = newTrailing
	}
}

func (renderer *explanationRenderer) ensureNewline() {
	if renderer.trailingNewlines < 1 {
		renderer.write("\n")
	}
}

func (renderer *explanationRenderer) ensureBlankLine() {
	for renderer.trailingNewlines < 2 {
		renderer.write("\n")
	}
}

// applyPrefixes prepends the line prefix to each line of content. The
// first line consumes the pending bullet if one is set.
func (renderer *explanationRenderer) applyPrefixes(content string) string {
	lines := strings.Split(content, "\n")
	var result strings.Builder
	for index, line := range lines {
		if index == 0 && renderer.pendingBullet != "" {
			result.WriteString(renderer.pendingBullet)
			renderer.pendingBullet = ""
		} else {
			result.WriteString(renderer.prefix)
		}
		result.WriteString(line)
		if index < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// flushInline word-wraps the accumulated inline content and applies
// line prefixes. Resets the inline buffer.
func (renderer *explanationRenderer) flushInline() string {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return ""
	}
	content = ansi.Wrap(content, renderer.contentWidth(), " ,.;-+|")
	return renderer.applyPrefixes(content)
}

func (renderer *explanationRenderer) styledText(content string) string {
	style := renderer.newStyle().Foreground(renderer.theme.NormalText)
	if renderer.boldCount > 0 {
		style = style.Bold(true)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

// highlightCode uses Chroma to syntax-highlight a fenced code block.
// Unknown languages and Chroma errors fall back to faint plain text.
func (renderer *explanationRenderer) highlightCode(code, language string) string {
	if language == "" {
		return renderer.newStyle().Foreground(renderer.theme.FaintText).Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return renderer.newStyle().Foreground(renderer.theme.FaintText).Render(code)
	}
	return buffer.String()
}

func (renderer *explanationRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	case ast.KindDocument:

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			renderer.inline.Reset()
		} else {
			flushed := renderer.flushInline()
			if flushed != "" {
				renderer.write(flushed)
				renderer.ensureNewline()
				if renderer.listDepth == 0 {
					renderer.ensureBlankLine()
				}
			}
		}

	case ast.KindHeading:
		if entering {
			renderer.inline.Reset()
		} else {
			heading := renderer.inline.String()
			renderer.inline.Reset()
			style := renderer.newStyle().
				Bold(true).
				Foreground(renderer.theme.HeaderForeground)
			renderer.ensureBlankLine()
			renderer.write(renderer.prefix + style.Render(ansi.Strip(heading)))
			renderer.ensureBlankLine()
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			renderer.renderFence(block)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			renderer.renderIndentedCode(node.(*ast.CodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			renderer.prefix += "│ "
			renderer.prefixWidth += 2
		} else {
			renderer.prefix = renderer.prefix[:len(renderer.prefix)-len("│ ")]
			renderer.prefixWidth -= 2
			renderer.ensureBlankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			counter := 0
			if list.IsOrdered() {
				counter = list.Start
			}
			renderer.listDepth++
			renderer.listCounter = append(renderer.listCounter, counter)
		} else {
			renderer.listDepth--
			renderer.listCounter = renderer.listCounter[:len(renderer.listCounter)-1]
			if renderer.listDepth == 0 {
				renderer.ensureBlankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			depth := len(renderer.listCounter) - 1
			bullet := "• "
			if renderer.listCounter[depth] > 0 {
				bullet = fmt.Sprintf("%d. ", renderer.listCounter[depth])
				renderer.listCounter[depth]++
			}
			bulletStyle := renderer.newStyle().Foreground(renderer.theme.FaintText)
			renderer.pendingBullet = renderer.prefix + bulletStyle.Render(bullet)
			indent := ansi.StringWidth(bullet)
			renderer.prefix += strings.Repeat(" ", indent)
			renderer.prefixWidth += indent
			renderer.itemIndent = append(renderer.itemIndent, indent)
		} else {
			indent := renderer.itemIndent[len(renderer.itemIndent)-1]
			renderer.itemIndent = renderer.itemIndent[:len(renderer.itemIndent)-1]
			renderer.prefix = renderer.prefix[:len(renderer.prefix)-indent]
			renderer.prefixWidth -= indent
			renderer.ensureNewline()
		}

	case ast.KindThematicBreak:
		if entering {
			rule := renderer.newStyle().
				Foreground(renderer.theme.BorderColor).
				Render(strings.Repeat("─", renderer.contentWidth()))
			renderer.ensureBlankLine()
			renderer.write(renderer.prefix + rule)
			renderer.ensureBlankLine()
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			renderer.inline.WriteString(renderer.styledText(string(textNode.Segment.Value(renderer.source))))
			if textNode.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			str := node.(*ast.String)
			renderer.inline.WriteString(renderer.styledText(string(str.Value)))
		}

	case ast.KindEmphasis:
		emphasis := node.(*ast.Emphasis)
		delta := 1
		if !entering {
			delta = -1
		}
		if emphasis.Level >= 2 {
			renderer.boldCount += delta
		} else {
			renderer.italicCount += delta
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			style := renderer.newStyle().
				Foreground(renderer.theme.DifficultyMedium).
				Background(renderer.theme.ModalBackground)
			renderer.inline.WriteString(style.Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			link := node.(*ast.Link)
			label := renderer.renderChildrenText(node)
			style := renderer.newStyle().
				Foreground(renderer.theme.DifficultyMedium).
				Underline(true)
			renderer.inline.WriteString(style.Render(label))
			if len(link.Destination) > 0 {
				faint := renderer.newStyle().Foreground(renderer.theme.FaintText)
				renderer.inline.WriteString(faint.Render(" (" + string(link.Destination) + ")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			autoLink := node.(*ast.AutoLink)
			style := renderer.newStyle().
				Foreground(renderer.theme.DifficultyMedium).
				Underline(true)
			renderer.inline.WriteString(style.Render(string(autoLink.URL(renderer.source))))
		}
	}

	return ast.WalkContinue, nil
}

// renderChildrenText collects the plain text of a node's children,
// ignoring inline styling.
func (renderer *explanationRenderer) renderChildrenText(node ast.Node) string {
	var result strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			result.Write(textNode.Segment.Value(renderer.source))
		}
	}
	return result.String()
}

func (renderer *explanationRenderer) renderFence(block *ast.FencedCodeBlock) {
	language := string(block.Language(renderer.source))
	code := renderer.blockLines(block)
	highlighted := strings.TrimRight(renderer.highlightCode(code, language), "\n")

	renderer.ensureBlankLine()
	for _, line := range strings.Split(highlighted, "\n") {
		renderer.write(renderer.prefix + "  " + line)
		renderer.ensureNewline()
	}
	renderer.ensureBlankLine()
}

func (renderer *explanationRenderer) renderIndentedCode(block *ast.CodeBlock) {
	code := strings.TrimRight(renderer.blockLines(block), "\n")
	style := renderer.newStyle().Foreground(renderer.theme.FaintText)

	renderer.ensureBlankLine()
	for _, line := range strings.Split(code, "\n") {
		renderer.write(renderer.prefix + "  " + style.Render(line))
		renderer.ensureNewline()
	}
	renderer.ensureBlankLine()
}

// blockLines concatenates the raw source lines of a code block.
func (renderer *explanationRenderer) blockLines(node ast.Node) string {
	var result strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		result.Write(segment.Value(renderer.source))
	}
	return result.String()
}
