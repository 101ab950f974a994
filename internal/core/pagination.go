package core

import "strings"

// maxPageSize is enforced here independently of whatever cap the HTTP edge
// applies, so the core is safe to call directly.
const maxPageSize = 100

// normalizePage clamps a page number to at least 1
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// normalizeSize clamps a page size to [1, maxPageSize]
func normalizeSize(size int) int {
	if size < 1 {
		return 1
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

// totalPages is ceil(totalItems / pageSize); 0 when there are no items
func totalPages(totalItems int64, pageSize int) int {
	if totalItems == 0 {
		return 0
	}
	return int((totalItems + int64(pageSize) - 1) / int64(pageSize))
}

// oldestFirst reports whether the sort order asks for ascending createdAt.
// Only the literal "oldest" (case-insensitive) sorts ascending; anything
// else, including empty, is newest first.
func oldestFirst(sortOrder string) bool {
	return strings.EqualFold(sortOrder, "oldest")
}
