// Package page slices the greeting list into fixed-size pages for
// most-recent-first display. Display logic only: out-of-range pages are the
// caller's job to avoid (disable prev/next instead of requesting them).
package page

import (
	"github.com/emiliodom/greetings-wall/internal/domain"
)

// Slice returns page pageNumber (1-based) of list in reverse-append order,
// so the newest record lands at position 0 of page 1. The input is not
// modified.
func Slice(list []domain.GreetingRecord, pageNumber, pageSize int) []domain.GreetingRecord {
	if pageSize <= 0 {
		return nil
	}
	reversed := make([]domain.GreetingRecord, len(list))
	for i, r := range list {
		reversed[len(list)-1-i] = r
	}
	start := (pageNumber - 1) * pageSize
	if start < 0 || start >= len(reversed) {
		return nil
	}
	end := start + pageSize
	if end > len(reversed) {
		end = len(reversed)
	}
	return reversed[start:end]
}

// TotalPages is ceil(n/pageSize), but never less than 1: an empty wall is
// still one (empty) page.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}
