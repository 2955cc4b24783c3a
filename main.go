package main

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spooky-bingo/internal/game"
	"github.com/robalobadob/spooky-bingo/internal/httpserver"
	"github.com/robalobadob/spooky-bingo/internal/persist"
	"github.com/robalobadob/spooky-bingo/internal/store"
	"github.com/robalobadob/spooky-bingo/internal/terms"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	ctx := context.Background()

	catalog, err := terms.LoadCatalog(os.Getenv("TERMS_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load term catalog")
	}

	kv, closeStore := openStore(ctx)
	defer closeStore()

	rng := game.NewRand()
	rec := persist.New(kv, time.Now)
	st := rec.Restore(ctx, catalog)

	var mu sync.Mutex
	ctl := game.New(ctx, game.Options{
		Pool:         terms.NewPool(st.Terms, catalog, rng),
		Session:      st.Session,
		Stats:        st.Stats,
		Rand:         rng,
		Persister:    rec,
		Scheduler:    game.ClockScheduler{Locker: &mu},
		DismissDelay: time.Duration(getEnvInt("DISMISS_DELAY_MS", 500)) * time.Millisecond,
	})

	srv := httpserver.New(httpserver.Options{
		Controller: ctl,
		Lock:       &mu,
		Rand:       rng,
		CallerSalt: getEnv("CALLER_SALT", "local_dev_salt"),
	})
	addr := getEnv("LISTEN_HOST", "127.0.0.1") + ":" + getEnv("PORT", "5176")
	log.Info().Str("addr", addr).Str("status", string(ctl.Status())).Msg("starting spooky-bingo")
	if err := srv.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// openStore picks the key-value substrate: SQLite at DB_PATH unless STORE=memory.
func openStore(ctx context.Context) (store.Store, func()) {
	if getEnv("STORE", "sqlite") == "memory" {
		log.Info().Msg("using in-memory store")
		return store.NewMemoryStore(), func() {}
	}
	path := getEnv("DB_PATH", "./data/bingo.db")
	db, err := store.OpenSQLite(ctx, path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to open database")
	}
	log.Info().Str("path", path).Msg("opened database")
	return db, func() { _ = db.Close() }
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}
