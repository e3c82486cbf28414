package model

// Attachment is a link the assistant includes with a reply, typically a
// reference photo or a treatment guide.
type Attachment struct {
	URL         string `json:"url,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type MessageContent struct {
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Message is one entry in a chat session, in the order the server returns it.
// CreatedAt is kept as the server's timestamp string; the client never re-sorts.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   MessageContent `json:"content"`
	CreatedAt string         `json:"createdAt"`
}

func (m *Message) Text() string {
	return m.Content.Text
}
