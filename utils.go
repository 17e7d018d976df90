package main

import (
	"errors"
	"fmt"
	"html"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"atlas/internal/markers"
)

var errEmptyClipboard = errors.New("clipboard is empty")

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// exportData copies the document the current mode edits to the clipboard.
func (m *model) exportData() {
	var text, what string
	switch m.mode {
	case ModeLabelTool:
		text, what = m.labels.Export(), "label data"
	case ModeLinkTool:
		text, what = m.links.Export(), "link data"
	case ModeMarkTool:
		region := m.region().Key
		var err error
		if text, err = m.drafts.Export(region); err != nil {
			m.errorMessage = err.Error()
			return
		}
		what = fmt.Sprintf("%d drafts", len(m.drafts.Region(region)))
	default:
		text, what = m.actions.Record.Export(), fmt.Sprintf("%d marked points", len(m.actions.Record.Points()))
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.logger.Warn("write clipboard", zap.Error(err))
		m.errorMessage = fmt.Sprintf("Copy failed: %s", err)
		return
	}
	m.successMessage = fmt.Sprintf("Copied %s to clipboard", what)
	m.errorMessage = ""
}

// importData merges clipboard content into the document the current mode
// edits.
func (m *model) importData() {
	raw, err := readClipboardText()
	if err == nil && strings.TrimSpace(raw) == "" {
		err = errEmptyClipboard
	}
	if err != nil {
		m.errorMessage = fmt.Sprintf("Paste failed: %s", err)
		return
	}
	text := cleanClipboardText(raw)

	switch m.mode {
	case ModeLabelTool:
		if !m.labels.ImportMerge(text) {
			m.errorMessage = "Clipboard does not hold label data"
			return
		}
		m.successMessage = "Merged label data"
	case ModeLinkTool:
		if !m.links.ImportMerge(text) {
			m.errorMessage = "Clipboard does not hold link data"
			return
		}
		m.successMessage = "Merged link data"
	case ModeMarkTool:
		m.errorMessage = "Drafts cannot be pasted"
		return
	default:
		ids, err := markers.ParseRecord(text)
		if err != nil {
			m.errorMessage = "Clipboard does not hold marked points"
			return
		}
		n := m.actions.MarkMany(ids, false)
		m.successMessage = fmt.Sprintf("Marked %d imported points", n)
		m.refreshSidebar()
	}
	m.errorMessage = ""
}

// cleanClipboardText turns rich clipboard content into plain text with
// normalized newlines.
func cleanClipboardText(text string) string {
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := strings.ReplaceAll(result.String(), "\r\n", "\n")
	return strings.ReplaceAll(normalized, "\r", "\n")
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") ||
			strings.Contains(text, "<div") || strings.Contains(text, "<pre"))
}

// extractTextFromRTF keeps the text runs of an RTF document. Escaped
// braces and backslashes survive; \par and \line become newlines; \'hh
// escapes are decoded.
func extractTextFromRTF(rtf string) string {
	var result strings.Builder
	result.Grow(len(rtf))
	b := []byte(rtf)

	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '{' || c == '}':
			continue
		case c == '\\' && i+1 < len(b):
			next := b[i+1]
			switch {
			case next == '\'' && i+3 < len(b):
				if val, err := strconv.ParseUint(string(b[i+2:i+4]), 16, 8); err == nil {
					result.WriteByte(byte(val))
				}
				i += 3
			case next == '\\' || next == '{' || next == '}':
				result.WriteByte(next)
				i++
			case next == '~' || next == '_':
				result.WriteByte(' ')
				i++
			case isASCIILetter(next):
				start := i + 1
				i++
				for i+1 < len(b) && isASCIILetter(b[i+1]) {
					i++
				}
				word := string(b[start : i+1])
				for i+1 < len(b) && (b[i+1] == '-' || (b[i+1] >= '0' && b[i+1] <= '9')) {
					i++
				}
				if i+1 < len(b) && b[i+1] == ' ' {
					i++
				}
				switch word {
				case "par", "line":
					result.WriteByte('\n')
				case "tab":
					result.WriteByte('\t')
				}
			default:
				i++
			}
		case c == '\n' || c == '\r':
			// RTF line breaks are not content
		default:
			result.WriteByte(c)
		}
	}
	return result.String()
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// extractTextFromHTML drops tags and decodes entities. Block closers and
// <br> become newlines.
func extractTextFromHTML(doc string) string {
	var result strings.Builder
	result.Grow(len(doc))
	var tag strings.Builder
	inTag := false
	for _, r := range doc {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			fields := strings.Fields(strings.ToLower(tag.String()))
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "br", "br/", "/p", "/div":
				result.WriteByte('\n')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}
	return html.UnescapeString(result.String())
}
