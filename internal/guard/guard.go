// Package guard gates access to view subtrees based on the current session.
// Guards are pure functions of session-store contents evaluated at call time;
// they do not subscribe to store changes themselves.
package guard

import (
	"github.com/renthaven/renthaven/internal/core/domain"
	"github.com/renthaven/renthaven/internal/session"
)

// Decision is the outcome of evaluating a guard: either the subtree may
// render, or the caller should redirect to the fallback route.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Guard evaluates the session store into a Decision.
type Guard func(store *session.Store) Decision

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(target string) Decision {
	return Decision{Redirect: target}
}

// RequireTenant admits an authenticated user/host session whose role is not
// HOST. Hosts are sent to their own area instead.
func RequireTenant(store *session.Store) Decision {
	if !store.IsUserAuthenticated() {
		return redirect("/login")
	}
	if user := store.User(); user != nil && user.RoleName == domain.RoleHost {
		return redirect("/host")
	}
	return allow()
}

// RequireHost admits only an authenticated session with the HOST role.
func RequireHost(store *session.Store) Decision {
	if !store.IsUserAuthenticated() {
		return redirect("/login")
	}
	if user := store.User(); user == nil || user.RoleName != domain.RoleHost {
		return redirect("/")
	}
	return allow()
}

// RequireAdmin admits only an authenticated admin session carrying the ADMIN
// role; the session store enforces both conditions.
func RequireAdmin(store *session.Store) Decision {
	if !store.IsAdminAuthenticated() {
		return redirect("/admin/login")
	}
	return allow()
}
