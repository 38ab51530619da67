package middleware

import (
	"context"

	"hotelier/internal/app/commands"
	"hotelier/internal/app/outbox"
)

// OutboxFlush flushes the outbox after a successfully dispatched command.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if box != nil {
				if err := box.Flush(ctx); err != nil {
					return nil, err
				}
			}
			return res, nil
		})
	}
}
