package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/veridian-labs/corpusit/core"
)

// extractPDF yields one document per page with embedded text.
//
// Heuristics carried by the ingestion contract: files under minPDFBytes are
// treated as corrupt placeholders, and a PDF where every page's stripped text
// is under minPageChars is treated as scanned-image-only. Parser failures of
// any kind surface as ErrExtractionFailed.
func (e *Extractor) extractPDF(path string) (docs []core.RawDocument, err error) {
	// pdfcpu can panic on pathological inputs; a malformed file must not
	// take the batch down with it.
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("%w: parser panic: %v", core.ErrExtractionFailed, r)
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}

	if info.Size() < minPDFBytes {
		return nil, fmt.Errorf("%w: %s below %d byte floor", core.ErrEmptyContent, path, minPDFBytes)
	}

	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}

	hasText := false
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil {
			e.logger.Debug("skipping unreadable page", "path", path, "page", page, "err", err)
			continue
		}
		if r == nil {
			continue
		}

		stream, err := io.ReadAll(r)
		if err != nil {
			e.logger.Debug("skipping unreadable page", "path", path, "page", page, "err", err)
			continue
		}

		text := decodePageText(stream)
		if len(strings.TrimSpace(text)) >= minPageChars {
			hasText = true
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		docs = append(docs, core.RawDocument{Text: text, OriginPath: path})
	}

	// No page reached the floor: embedded text layer is absent or trivial.
	if !hasText {
		return nil, fmt.Errorf("%w: %s has no embedded text layer", core.ErrEmptyContent, path)
	}

	return docs, nil
}

// decodePageText recovers the text shown by a page content stream.
//
// It walks the stream's tokens and collects the operands of the text-showing
// operators (Tj, TJ, ' and "), inserting line breaks at text-positioning
// operators. This is a best-effort reading: text encoded through CID fonts
// or custom encodings may decode imperfectly, which the extraction contract
// tolerates.
func decodePageText(stream []byte) string {
	var out strings.Builder
	var pending []string

	flush := func(sep string) {
		if len(pending) == 0 {
			return
		}
		out.WriteString(strings.Join(pending, ""))
		out.WriteString(sep)
		pending = pending[:0]
	}

	i := 0
	n := len(stream)
	for i < n {
		c := stream[i]
		switch {
		case c == '(':
			s, next := readLiteralString(stream, i)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < n && stream[i+1] != '<':
			s, next := readHexString(stream, i)
			pending = append(pending, s)
			i = next
		case c == '%':
			// Comment runs to end of line.
			for i < n && stream[i] != '\n' && stream[i] != '\r' {
				i++
			}
		case isRegular(c):
			start := i
			for i < n && isRegular(stream[i]) {
				i++
			}
			switch string(stream[start:i]) {
			case "Tj", "TJ":
				flush(" ")
			case "'", "\"":
				flush("\n")
			case "Td", "TD", "T*", "ET":
				// Positioning without a show still breaks the line.
				if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
					out.WriteString("\n")
				}
				pending = pending[:0]
			}
		default:
			i++
		}
	}
	flush(" ")

	return sanitize(out.String())
}

// readLiteralString consumes a (...) string starting at i, handling nested
// parentheses and escape sequences. Returns the decoded text and the index
// just past the closing parenthesis.
func readLiteralString(stream []byte, i int) (string, int) {
	var b strings.Builder
	depth := 0
	n := len(stream)

	for ; i < n; i++ {
		c := stream[i]
		switch c {
		case '(':
			depth++
			if depth > 1 {
				b.WriteByte(c)
			}
		case ')':
			depth--
			if depth == 0 {
				return b.String(), i + 1
			}
			b.WriteByte(c)
		case '\\':
			if i+1 >= n {
				return b.String(), n
			}
			i++
			switch stream[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
				// Discard backspace and form feed.
			case '\n':
				// Line continuation.
			case '\r':
				if i+1 < n && stream[i+1] == '\n' {
					i++
				}
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := int(stream[i] - '0')
				for k := 0; k < 2 && i+1 < n && stream[i+1] >= '0' && stream[i+1] <= '7'; k++ {
					i++
					v = v*8 + int(stream[i]-'0')
				}
				b.WriteByte(byte(v))
			default:
				b.WriteByte(stream[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), n
}

// readHexString consumes a <...> hex string starting at i.
func readHexString(stream []byte, i int) (string, int) {
	var b strings.Builder
	n := len(stream)
	i++ // skip '<'

	var hi byte
	haveHi := false
	for ; i < n; i++ {
		c := stream[i]
		if c == '>' {
			i++
			break
		}
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if !haveHi {
			hi = v
			haveHi = true
		} else {
			b.WriteByte(hi<<4 | v)
			haveHi = false
		}
	}
	if haveHi {
		// PDF treats a trailing odd digit as the high nibble.
		b.WriteByte(hi << 4)
	}
	return b.String(), i
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// isRegular reports whether c can start or continue an operator token.
func isRegular(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', '\x00', '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	default:
		return true
	}
}

// sanitize drops control characters that badly decoded font encodings leave
// behind, keeping whitespace.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == ' ' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
