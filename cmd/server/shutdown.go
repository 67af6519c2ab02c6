package main

import "context"

type server interface {
	Shutdown(ctx context.Context) error
}

type sessionCloser interface {
	CloseAll()
}

type flusher interface {
	DispatchOnce() int
}

// shutdown stops accepting requests, tears down open sessions and then flushes
// the outbox, so the events recorded by the teardown are delivered too.
func shutdown(ctx context.Context, srv server, sessions sessionCloser, outbox flusher) error {
	err := srv.Shutdown(ctx)

	sessions.CloseAll()
	outbox.DispatchOnce()

	return err
}
