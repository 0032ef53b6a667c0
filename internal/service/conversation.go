package service

import "ragbot/internal/domain"

// Conversation is the chat history of one session. The zero value is empty.
// Methods never mutate the receiver; Ask returns the updated value.
type Conversation struct {
	messages []domain.Message
}

// Len reports the number of messages so far.
func (c Conversation) Len() int { return len(c.messages) }

// Messages returns a copy of the history in order.
func (c Conversation) Messages() []domain.Message {
	return append([]domain.Message(nil), c.messages...)
}

// Reset returns an empty conversation.
func (c Conversation) Reset() Conversation { return Conversation{} }

// Append returns a conversation extended by msgs.
func (c Conversation) Append(msgs ...domain.Message) Conversation {
	out := make([]domain.Message, 0, len(c.messages)+len(msgs))
	out = append(out, c.messages...)
	out = append(out, msgs...)
	return Conversation{messages: out}
}
