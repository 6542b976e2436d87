package session

import (
	"fmt"
	"go-cms-app/internal/config"
	"net/http"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/jmoiron/sqlx"
)

// Store kinds accepted in SessionConfig.Store.
const (
	StoreDatabase = "database"
	StoreMemory   = "memory"
)

// New builds an scs session manager. The "database" store keeps sessions in
// the application database so they survive restarts; the "memory" store does
// not.
func New(cfg config.SessionConfig, db *sqlx.DB, driverName string, secure bool) (*scs.SessionManager, error) {
	sm := scs.New()

	switch cfg.Store {
	case StoreMemory:
		sm.Store = memstore.New()
	case StoreDatabase, "":
		switch driverName {
		case "sqlite3", "":
			sm.Store = sqlite3store.New(db.DB)
		case "mysql":
			sm.Store = mysqlstore.New(db.DB)
		default:
			return nil, fmt.Errorf("no session store for database driver %q", driverName)
		}
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}

	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.IdleTimeout
	if cfg.CookieName != "" {
		sm.Cookie.Name = cfg.CookieName
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm, nil
}
