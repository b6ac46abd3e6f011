// Package handlers contains the HTTP handlers of the catalog API. Handlers
// expect the caller identity to be resolved by the auth middleware; role
// checks happen here, before any lookup or mutation.
package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"ecommerce-catalog/internal/logging"
	"ecommerce-catalog/internal/mykafka"
)

const (
	topicCategoryEvents = "category_events"
	topicProductEvents  = "product_events"
	topicReviewEvents   = "review_events"
)

// publish sends a domain event best-effort. Event delivery never fails the
// request that caused it.
func publish(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "topic", topic, "error", err)
	}
}
