// Package async runs work off the request path.
//
// Future wraps a single computation started with Async and lets the caller
// collect its result later. It is used where a handler needs two independent
// lookups and wants them to run side by side:
//
//	accounts := async.Async(ctx, email, findAccount)
//	users := async.Async(ctx, email, findUser)
//	account, accErr := accounts.Await()
//	user, userErr := users.Await()
//
// Group runs fire-and-forget tasks such as alert emails. Tasks are detached
// from the caller's cancellation, bounded by a timeout, and recovered from
// panics; failures are logged and never returned to the caller. Wait blocks
// until every task started so far has finished, which tests and graceful
// shutdown rely on.
package async
