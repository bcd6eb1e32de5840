// Package llmutils provides cleanup helpers for raw model output.
package llmutils

import (
	"bytes"
	"strings"
)

var backtick = []byte("```")

// TrimBackticks removes a surrounding ``` or ```json fence, models often
// wrap an answer in one even when asked for plain text.
func TrimBackticks(text string) string {
	return string(BytesTrimBackticks([]byte(text)))
}

// BytesTrimBackticks removes a surrounding ``` or ```json fence.
func BytesTrimBackticks(bs []byte) []byte {
	size := len(bs)
	startIndex := bytes.Index(bs, backtick)
	if startIndex == -1 {
		return bs
	}
	startIndex += len(backtick)

	// skip the language tag on the opening fence line
	for i := startIndex; i < size; i++ {
		if bs[i] == '\n' {
			startIndex = i + 1
			break
		}
	}

	contentAfterStart := bs[startIndex:]
	endIndex := bytes.LastIndex(contentAfterStart, backtick)
	if endIndex == -1 {
		return contentAfterStart
	}

	return bytes.TrimSpace(contentAfterStart[:endIndex])
}

// StripComments removes a <!-- --> comment from the model output.
func StripComments(text string) string {
	before, after, ok := strings.Cut(text, "<!--")
	if ok {
		_, after2, ok := strings.Cut(after, "-->")
		if ok {
			if len(after2) > 1 && after2[0] == '\n' {
				after2 = after2[1:]
			}
			return before + after2
		}
	}
	return text
}

// CleanAnswer normalizes a model answer for the caller: fences and comments
// are stripped and surrounding whitespace is trimmed.
func CleanAnswer(text string) string {
	return strings.TrimSpace(StripComments(TrimBackticks(text)))
}
