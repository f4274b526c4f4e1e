package cache

import (
	"context"
	"time"
)

// Disabled is a no-op Cache for deployments that run without caching.
// Every lookup is a miss and every write is dropped.
type Disabled struct{}

// NewDisabled creates a no-op cache.
func NewDisabled() Disabled { return Disabled{} }

func (Disabled) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (Disabled) Set(context.Context, string, []byte, time.Duration) bool { return false }

func (Disabled) ClearAll(context.Context) bool { return false }

func (Disabled) Health(context.Context) Health { return Health{Status: "disabled"} }
