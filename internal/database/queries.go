package database

import (
	"time"
)

func (db *PgChatRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO accounts (username, password_hash, created_at) "+
			"VALUES ($1, $2, $3) RETURNING id, username, created_at",
		params.Username,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.CreatedAt,
	)

	return u, err
}

func (db *PgChatRepository) GetAccountById(accountId int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, created_at FROM accounts "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgChatRepository) GetAccountByUsername(username string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM accounts "+
			"WHERE username = $1 LIMIT 1",
		username,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgChatRepository) ListAccounts() ([]User, error) {
	rows, err := db.conn.Query(
		"SELECT id, username, created_at FROM accounts ORDER BY username",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users = make([]User, 0)
	for rows.Next() {
		var u User
		if err = rows.Scan(&u.Id, &u.Username, &u.CreatedAt); err != nil {
			break
		}

		users = append(users, u)
	}

	return users, err
}

// CreateMessage persists a message and returns it with the
// server-assigned id and timestamp.
func (db *PgChatRepository) CreateMessage(senderId, receiverId int, content string) (Message, error) {
	res := db.conn.QueryRow(
		"INSERT INTO messages (sender_id, receiver_id, content, read, created_at) "+
			"VALUES ($1, $2, $3, FALSE, $4) RETURNING id, created_at",
		senderId,
		receiverId,
		content,
		time.Now().UTC(),
	)

	msg := Message{
		SenderId:   senderId,
		ReceiverId: receiverId,
		Content:    content,
	}
	err := res.Scan(&msg.Id, &msg.CreatedAt)

	return msg, err
}

// GetConversation returns every message exchanged between the two users in
// either direction, ascending by creation time with ties broken by id.
func (db *PgChatRepository) GetConversation(userA, userB int) ([]Message, error) {
	rows, err := db.conn.Query(
		"SELECT id, sender_id, receiver_id, content, read, created_at FROM messages "+
			"WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1) "+
			"ORDER BY created_at, id",
		userA,
		userB,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err = rows.Scan(&msg.Id, &msg.SenderId, &msg.ReceiverId, &msg.Content, &msg.Read, &msg.CreatedAt); err != nil {
			break
		}

		messages = append(messages, msg)
	}

	return messages, err
}

func (db *PgChatRepository) CountUnread(receiverId, senderId int) (int, error) {
	row := db.conn.QueryRow(
		"SELECT COUNT(*) FROM messages "+
			"WHERE receiver_id = $1 AND sender_id = $2 AND read = FALSE",
		receiverId,
		senderId,
	)

	var count int
	err := row.Scan(&count)

	return count, err
}

// MarkAllRead flips every unread message from senderId to receiverId to read
// in a single statement and returns the number of rows affected.
func (db *PgChatRepository) MarkAllRead(receiverId, senderId int) (int, error) {
	res, err := db.conn.Exec(
		"UPDATE messages SET read = TRUE "+
			"WHERE receiver_id = $1 AND sender_id = $2 AND read = FALSE",
		receiverId,
		senderId,
	)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	return int(affected), err
}
