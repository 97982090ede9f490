// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens and ID generation.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err := auth.CheckPassword(hash, password) // ErrInvalidCredentials on mismatch

# Session Tokens

Tokens are HS256 JWTs signed with the site SECRET_KEY:

	token, expiresAt, err := auth.IssueToken(userID, username, isStaff, secret, time.Now())
	claims, err := auth.ParseToken(token, secret)

Tokens expire after TokenTTL. Logging out is client-side: the server keeps
no session state, so rotating SECRET_KEY invalidates every token.

# ID Generation

Random UUIDs for database records:

	id := auth.GenerateID()
*/
package auth
