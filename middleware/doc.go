// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /polls", middleware.WithLogging(handler))

Logs request start (method, path, remote, request_id) and completion
(duration_ms). RequestID assigns or propagates X-Request-ID.

# Host Validation

AllowedHosts enforces ALLOWED_HOSTS on every request:

	handler := middleware.AllowedHosts(cfg.AllowedHosts, mux)

"*" allows any host; ".example.com" matches example.com and its
subdomains. Other hosts get 400.

# Authentication

RequireUser and RequireStaff check "Authorization: Bearer <token>" against
the site secret key and attach the claims to the request context:

	mux.HandleFunc("POST /polls/{id}/vote",
		middleware.RequireUser(cfg.SecretKey, votingHandler.Vote))

	claims, ok := middleware.UserFromContext(r.Context())

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	err := middleware.ParseJSONBody(r, &req)

# Client IP Extraction

	ip := middleware.GetClientIP(r) // X-Forwarded-For, X-Real-IP, RemoteAddr
*/
package middleware
