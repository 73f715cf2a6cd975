// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	loadSession = `
		SELECT
			access_token,
			refresh_token
		FROM auth_session
		WHERE id = 1;`

	saveSession = `
		INSERT INTO auth_session (
			id,
			access_token,
			refresh_token,
			saved_at
		) VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			access_token  = excluded.access_token,
			refresh_token = excluded.refresh_token,
			saved_at      = excluded.saved_at;`

	clearSession = `
		DELETE FROM auth_session;`
)
