package bus

// InboundMessage is a chat message received by a channel.
type InboundMessage struct {
	Channel   string            `json:"channel"`
	SenderID  string            `json:"sender_id"`
	ChatID    string            `json:"chat_id"`
	MessageID string            `json:"message_id,omitempty"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// OutboundMessage is a reply to deliver through a channel.
type OutboundMessage struct {
	Channel string `json:"channel"`
	ChatID  string `json:"chat_id"`
	// ReplyTo is the MessageID being answered, if the channel supports replies.
	ReplyTo string `json:"reply_to,omitempty"`
	Content string `json:"content"`
}
