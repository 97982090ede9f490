// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/niichapats/ku-polls/cliparse"
	"github.com/niichapats/ku-polls/db"
	"github.com/niichapats/ku-polls/handlers"
	"github.com/niichapats/ku-polls/middleware"
)

func NewRouter(conn *sql.DB, cfg cliparse.Config, lifecycle handlers.Lifecycle) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(conn, cfg)
	votingHandler := handlers.NewVotingHandler(conn, cfg)
	accountHandler := handlers.NewAccountHandler(conn, cfg)
	adminHandler := handlers.NewAdminHandler(conn, cfg)
	healthHandler := handlers.NewHealthHandler(lifecycle, db.NewProbe("database", conn))

	// Health checks
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)

	// Polls (public)
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.Index))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.Detail))
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(pollHandler.Results))

	// Voting (requires login)
	mux.HandleFunc("POST /polls/{id}/vote", middleware.WithLogging(middleware.RequireUser(cfg.SecretKey, votingHandler.Vote)))
	mux.HandleFunc("GET /polls/{id}/my-vote", middleware.WithLogging(middleware.RequireUser(cfg.SecretKey, votingHandler.MyVote)))

	// Accounts
	mux.HandleFunc("POST /accounts/login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("POST /accounts/logout", middleware.WithLogging(accountHandler.Logout))

	// Admin (requires staff)
	mux.HandleFunc("POST /admin/questions", middleware.WithLogging(middleware.RequireStaff(cfg.SecretKey, adminHandler.CreateQuestion)))
	mux.HandleFunc("POST /admin/questions/{id}/choices", middleware.WithLogging(middleware.RequireStaff(cfg.SecretKey, adminHandler.AddChoice)))

	// Root redirects to the poll index
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/polls", http.StatusFound)
	})

	return middleware.RequestID(middleware.AllowedHosts(cfg.AllowedHosts, mux))
}
