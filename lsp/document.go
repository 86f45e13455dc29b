package lsp

import (
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// URIToPath converts a document URI to a file system path.
func URIToPath(docURI protocol.DocumentURI) string {
	return uri.URI(docURI).Filename()
}

// offsetAt converts an LSP position (0-based line and character) to a byte
// offset into content. Positions past the end of a line or of the document
// clamp to the nearest valid offset.
func offsetAt(content string, pos protocol.Position) int {
	offset := 0
	line := 0

	for line < int(pos.Line) {
		nl := strings.IndexByte(content[offset:], '\n')
		if nl < 0 {
			return len(content)
		}

		offset += nl + 1
		line++
	}

	lineEnd := len(content)
	if nl := strings.IndexByte(content[offset:], '\n'); nl >= 0 {
		lineEnd = offset + nl
	}

	offset += int(pos.Character)
	if offset > lineEnd {
		offset = lineEnd
	}

	return offset
}

// positionAt converts a byte offset into an LSP position.
func positionAt(content string, offset int) protocol.Position {
	if offset > len(content) {
		offset = len(content)
	}

	prefix := content[:offset]
	line := strings.Count(prefix, "\n")

	lineStart := 0
	if nl := strings.LastIndexByte(prefix, '\n'); nl >= 0 {
		lineStart = nl + 1
	}

	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(offset - lineStart),
	}
}
