//go:build integration

package testutil

import (
	"context"
	"time"
)

// CleanAll empties every table.
func (env *TestEnv) CleanAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := env.Pool.Exec(ctx, "TRUNCATE TABLE event_outbox, video_link, admins RESTART IDENTITY")
	if err != nil {
		env.t.Fatalf("CleanAll: %v", err)
	}
}
