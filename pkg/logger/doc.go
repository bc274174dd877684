// Package logger builds *slog.Logger instances with functional options and
// provides attribute helpers that keep key names consistent across the
// authentication services.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// result in LogHandlerDecorator, which pulls request-scoped values (request
// id, client ip) out of context.Context on every record.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "authd"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "session created",
//	    logger.UserID(user.ID),
//	    logger.SessionID(sess.ID),
//	    logger.Provider("github"),
//	)
package logger
