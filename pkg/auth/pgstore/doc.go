// Package pgstore implements auth.Store on PostgreSQL with pgx. The schema
// ships as embedded goose migrations:
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil {
//	    return err
//	}
//	store := pgstore.New(pool)
package pgstore
