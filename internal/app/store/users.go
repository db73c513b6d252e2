package store

import (
	"context"
	"fmt"

	"skillswap/internal/app/db"
)

// GetUser fetches a single user by id.
func (s *Store) GetUser(ctx context.Context, userID string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, avatar_url, location, last_active_at, created_at
		FROM users
		WHERE id = $1`, userID).
		Scan(&u.ID, &u.Name, &u.AvatarURL, &u.Location, &u.LastActiveAt, &u.CreatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// GetUserWithSkills fetches a user together with the names of their skills of the given kind.
func (s *Store) GetUserWithSkills(ctx context.Context, userID string, kind SkillKind) (*UserWithSkills, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT name FROM skills
		WHERE user_id = $1 AND kind = $2
		ORDER BY created_at`, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("get user skills: %w", err)
	}
	defer rows.Close()

	result := &UserWithSkills{User: *u}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan skill name: %w", err)
		}
		result.SkillNames = append(result.SkillNames, name)
	}

	return result, rows.Err()
}

// ListOthersWithSkills returns every user except excludeID, each with the names
// of their skills of the given kind. Users without skills of that kind are
// included with an empty name list; the match engine drops them itself.
// This is a full scan, acceptable at the target scale.
func (s *Store) ListOthersWithSkills(ctx context.Context, excludeID string, kind SkillKind) ([]UserWithSkills, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.name, u.avatar_url, u.location, u.last_active_at, u.created_at,
		       COALESCE(array_agg(s.name ORDER BY s.created_at) FILTER (WHERE s.id IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN skills s ON s.user_id = u.id AND s.kind = $2
		WHERE u.id <> $1
		GROUP BY u.id
		ORDER BY u.id`, excludeID, kind)
	if err != nil {
		return nil, fmt.Errorf("list users with skills: %w", err)
	}
	defer rows.Close()

	var users []UserWithSkills
	for rows.Next() {
		var u UserWithSkills
		err := rows.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.Location, &u.LastActiveAt, &u.CreatedAt, &u.SkillNames)
		if err != nil {
			return nil, fmt.Errorf("scan user with skills: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// TouchActivity updates the user's last-active timestamp to now.
func (s *Store) TouchActivity(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET last_active_at = now() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("touch activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
