package domain

// Message is one append-only chat-log row. Rows are written on every
// inbound group text and deleted only by the retention job.
type Message struct {
	GroupID     int64
	ID          int64 // Telegram message id, unique per group
	UserID      int64
	DisplayName string
	Text        string
	TS          int64 // epoch seconds
}
