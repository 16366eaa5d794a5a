package message

import (
	"github.com/dlclark/regexp2"
)

// singleEmoji matches content that is exactly one emoji grapheme: an
// extended-pictographic base with optional variation selector, skin tone,
// and any number of ZWJ-joined continuations (so family and flag sequences
// still count as one).
var singleEmoji = regexp2.MustCompile(
	`^(?:\p{So}|\p{Sk})(?:\x{FE0F}|[\x{1F3FB}-\x{1F3FF}])?(?:\x{200D}(?:\p{So}|\p{Sk})(?:\x{FE0F}|[\x{1F3FB}-\x{1F3FF}])?)*$`,
	regexp2.RE2,
)

// IsSingleEmoji reports whether content is a single emoji grapheme cluster.
func IsSingleEmoji(content string) bool {
	if content == "" {
		return false
	}
	ok, err := singleEmoji.MatchString(content)
	if err != nil {
		return false
	}
	return ok
}
