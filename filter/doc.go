// Package filter provides the per-handler record predicate.
//
// A Rule is a plain value combining up to four optional criteria
// (include pattern, exclude pattern, file pattern, exact level) that
// are ANDed together. Patterns are regular expressions matched as
// substring searches. Two matching modes are exposed explicitly:
// NewRegex for case-sensitive regex filters and NewKeyword for
// case-insensitive literal keyword filters.
package filter
