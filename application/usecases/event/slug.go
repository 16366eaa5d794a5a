package event

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/cheerioo/api/domain/apperrors"
)

const maxSlugAttempts = 50

// Slugify lowercases the name and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

type slugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// UniqueSlug derives a slug from the name and suffixes -1, -2, ... until it
// finds one not yet taken.
func UniqueSlug(ctx context.Context, repo slugChecker, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		return "", apperrors.Validation("invalid_name", "event name yields an empty slug")
	}

	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		taken, err := repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return "", apperrors.New(apperrors.KindConflict, "slug_exhausted", "could not find a free slug for this name")
}
