// Package ratelimiter implements a token bucket limiter with in-memory and
// Redis stores, an HTTP middleware that enforces it per client, and a
// Charger that consumes extra tokens when a client sends abuse signals such
// as wrong passwords or invalid codes.
//
// Charges and regular requests draw from the same bucket, so a client that
// keeps failing runs out of budget sooner:
//
//	store := ratelimiter.NewRedisStore(rdb)
//	bucket, err := ratelimiter.NewBucket(store, cfg)
//	if err != nil {
//	    return err
//	}
//	r.Use(ratelimiter.Middleware(bucket, ratelimiter.ClientIPKey))
//	charger := ratelimiter.NewCharger(bucket, ratelimiter.WithChargerLogger(log))
//	charger.Charge(ctx, "wrong_credential", 5)
package ratelimiter
