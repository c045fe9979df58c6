// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import "regexp"

// Field limits mirror what the clients already enforce.
const (
	maxNameLen     = 50
	maxGroupLen    = 20
	maxLocationLen = 100
	maxMemoLen     = 500
)

var (
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern  = regexp.MustCompile(`^([01][0-9]|2[0-4]):00$`)
)

func validName(name string) bool {
	return name != "" && len(name) <= maxNameLen
}

func validGroupName(name string) bool {
	return name != "" && len(name) <= maxGroupLen
}

func validColor(color string) bool {
	return colorPattern.MatchString(color)
}

func validDate(date string) bool {
	return datePattern.MatchString(date)
}

// validSlotTime accepts "HH:00" only; selections are made on hour boundaries.
func validSlotTime(t string) bool {
	return timePattern.MatchString(t)
}
