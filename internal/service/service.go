// Package service implements the core workflows: identity linking,
// creator onboarding, profile updates, the donation ledger and the
// public directory. HTTP handlers stay thin and call into here.
package service

import (
	"context"
	"time"
)

const (
	defaultPageSize  = 10
	defaultStoreTime = 5 * time.Second

	// maxPage keeps the (page-1)*pageSize offset arithmetic far from
	// int overflow even with the largest permitted page size.
	maxPage = 1 << 20
)

// clampPage normalizes pagination arguments: page is kept within
// [1, maxPage] and the page size is bounded by maxPageSize.
func clampPage(page, pageSize, maxPageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

// storeContext bounds a store call so a stalled database surfaces as
// ErrStorageUnavailable instead of hanging the request.
func storeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultStoreTime
	}
	return context.WithTimeout(ctx, timeout)
}
