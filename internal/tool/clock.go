package tool

import (
	"context"
	"time"
)

// ClockLayout renders times as "03:04 PM".
const ClockLayout = "03:04 PM"

// ClockTool reports the current local time. It accepts and ignores any arguments.
type ClockTool struct {
	Now func() time.Time
}

// NewClockTool returns a ClockTool reading the system clock.
func NewClockTool() *ClockTool {
	return &ClockTool{Now: time.Now}
}

func (c *ClockTool) Name() string { return "time" }

func (c *ClockTool) Description() string {
	return "Useful for when you need to know the current time"
}

func (c *ClockTool) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (c *ClockTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	return now().Format(ClockLayout), nil
}
