package db

import (
	"context"
)

const getUser = `
SELECT id, full_name, avatar_url, role
FROM users
WHERE id = $1
`

func (store *SQLStore) GetUser(ctx context.Context, id string) (User, error) {
	row := store.connPool.QueryRow(ctx, getUser, id)

	var u User
	err := row.Scan(&u.ID, &u.FullName, &u.AvatarURL, &u.Role)
	return u, err
}
