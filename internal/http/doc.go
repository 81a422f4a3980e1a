// Package httpapp provides the HTTP server for Alarkhabil.
//
//	@title						Alarkhabil API
//	@version					1.0
//	@description				A multi-tenant publishing platform without passwords or sessions.
//	@description
//	@description				## Authentication
//	@description
//	@description				There are no bearer tokens. Every write request body is a signed
//	@description				envelope:
//	@description
//	@description				```json
//	@description				{"algo": "ed25519", "pubk": "BASE64", "sig": "BASE64", "msg": "BASE64"}
//	@description				```
//	@description
//	@description				`msg` is a base64-encoded JSON payload whose `command` field names the
//	@description				operation (for example `post_new`). The envelope's public key identifies
//	@description				the author; accounts are keyed by public key, so there is nothing else
//	@description				to log in with.
//	@description
//	@description				### Registration
//	@description				Registration is invite-only. An operator mints an invite with
//	@description				`GET /api/v1/invite/new?token=...`, and the invitee redeems it:
//	@description				```bash
//	@description				curl -X POST /api/v1/account/new -d '{...envelope over
//	@description				  {"command":"account_new","name":"alice","invite":"..."}...}'
//	@description				```
//	@description				Each invite works exactly once.
//	@description
//	@description				### Operator tokens
//	@description				Admin endpoints take a hex `token` query parameter. Tokens are derived
//	@description				from the server's primary secret and printed at startup.
//
//	@contact.name				Alarkhabil
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@tag.name					Status
//	@tag.description			Service health.
//
//	@tag.name					Authors
//	@tag.description			Public author directory and per-author listings.
//
//	@tag.name					Channels
//	@tag.description			Channels group posts and carry a member list. Handles are unique.
//
//	@tag.name					Posts
//	@tag.description			Posts are append-only revision chains; reads always serve the latest revision.
//
//	@tag.name					Meta
//	@tag.description			Operator-maintained site pages (about, terms, and the like).
//
//	@tag.name					Accounts
//	@tag.description			Invite-based registration, profile updates, and key rotation.
//
//	@tag.name					Admin
//	@tag.description			Moderation endpoints gated by the admin token.
package httpapp
