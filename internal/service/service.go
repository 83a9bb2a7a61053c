// Package service holds the CRM operations behind every view: validate the
// form, build the record, store it and publish a notification.
package service

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/unclebandit/marketdesk-backend/internal/queue"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is a pagination request as it arrives from the query string.
type Page struct {
	Page     int
	PageSize int
}

// normalize clamps the request and returns the slice offset.
func (p *Page) normalize() int {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return (p.Page - 1) * p.PageSize
}

func (p Page) pagination(total int) map[string]int {
	totalPages := (total + p.PageSize - 1) / p.PageSize
	return map[string]int{
		"page":        p.Page,
		"page_size":   p.PageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func nowFrom(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

// publish sends a notification. The operation has already succeeded by the
// time it runs, so a failed publish is only logged.
func publish(q queue.Queue, logger *zap.Logger, topic string, payload any) {
	if q == nil {
		return
	}
	err := q.Publish(topic, payload)
	if err == nil || errors.Is(err, queue.ErrNoSubscribers) {
		return
	}
	loggerOrNop(logger).Warn("failed to publish notification", zap.String("topic", topic), zap.Error(err))
}

// trimAll trims every pointed-to string in place.
func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
