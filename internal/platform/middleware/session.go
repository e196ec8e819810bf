// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/constants"
	"github.com/taibuivan/innkeep/internal/platform/ctxutil"
	"github.com/taibuivan/innkeep/internal/platform/respond"
)

// SessionResolver turns a raw session token into a principal.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the auth service
// implementation, allowing us to easily inject fakes during unit testing.
type SessionResolver interface {
	ResolvePrincipal(ctx context.Context, token string) *access.Principal
}

// SessionToken extracts the raw session token from the session cookie or,
// failing that, from an 'Authorization: Bearer' header. Returns "" if absent.
func SessionToken(request *http.Request) string {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate resolves the session on every request.
//
// # Flow
//  1. Extract the token via [SessionToken].
//  2. If absent, the request proceeds as anonymous.
//  3. If present, resolve it; an invalid, expired or revoked token also
//     proceeds as anonymous. Route guards decide what anonymous may do.
//  4. Inject [*access.Principal] into the request context for downstream use.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := SessionToken(request)
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			principal := resolver.ResolvePrincipal(request.Context(), token)
			if principal == nil {
				next.ServeHTTP(writer, request)
				return
			}

			recordPrincipal(writer, principal)
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireSession blocks anonymous requests.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. Browser navigations
// are redirected to the login page; API calls receive 401 JSON.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) != nil {
			next.ServeHTTP(writer, request)
			return
		}

		if respond.WantsHTML(request) {
			http.Redirect(writer, request, constants.LoginPath, http.StatusSeeOther)
			return
		}

		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
	})
}

// RedirectAuthenticated sends signed-in browser navigations away from the
// login and registration pages to the dashboard. API calls pass through.
func RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) != nil && respond.WantsHTML(request) {
			http.Redirect(writer, request, constants.DashboardPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(writer, request)
	})
}
