package middleware

import (
	"go-cms-app/internal/auth"
	"go-cms-app/internal/logger"
	"go-cms-app/internal/session"
	"net/http"
	"net/url"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// Enforcer decides whether a subject may perform an action on an object.
// *casbin.Enforcer satisfies it.
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

// SessionGate checks every request against the access policy. The subject is
// "admin" for an authenticated session and "anonymous" otherwise. Denied
// anonymous requests are redirected to the login page with the original
// location in redirect_to. It must run inside the session manager's
// LoadAndSave.
func SessionGate(e Enforcer, sessions session.Manager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := &UserInfo{Subject: auth.SubjectAnonymous}
			if sessions.GetBool(r.Context(), session.KeyAuthenticated) {
				userInfo.Subject = auth.SubjectAdmin
				userInfo.Username = sessions.GetString(r.Context(), session.KeyUsername)
			}

			allowed, err := e.Enforce(userInfo.Subject, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "Failed to evaluate access policy")
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				log.Debug("Access denied: " + userInfo.Subject + " " + r.Method + " " + r.URL.Path)
				if !userInfo.IsAuthenticated() {
					q := url.Values{"redirect_to": {r.URL.RequestURI()}}
					http.Redirect(w, r, LoginPath+"?"+q.Encode(), http.StatusFound)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserInfo(r.Context(), userInfo)))
		})
	}
}
