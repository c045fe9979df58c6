// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roomcode

import (
	"fmt"
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet excludes I, O, 0 and 1 to avoid transcription mistakes when codes
// are shared out loud or by hand.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Length of every room code.
const Length = 6

var codePattern = regexp.MustCompile(`^[` + Alphabet + `]{` + fmt.Sprint(Length) + `}$`)

// Generate returns a fresh random room code.
func Generate() (string, error) {
	code, err := gonanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("failed to generate room code: %w", err)
	}
	return code, nil
}

// Normalize upper-cases a user-supplied code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code is a well-formed room code after normalization.
func Valid(code string) bool {
	return codePattern.MatchString(Normalize(code))
}
