package models

// Platform entity references as they appear on the gateway feed. These are
// references, not authoritative records: the session process owns the real
// state, the core only ever reads the fields it needs for log lines and
// script bindings.

type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count,omitempty"`
}

type User struct {
	ID  string `json:"id"`
	Tag string `json:"tag"`
	Bot bool   `json:"bot,omitempty"`
}

type Member struct {
	User     User   `json:"user"`
	Nickname string `json:"nickname,omitempty"`
}

type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"` // "text", "voice", ...
}

type Message struct {
	ID            string `json:"id"`
	ChannelID     string `json:"channel_id"`
	Author        *User  `json:"author,omitempty"`
	Content       string `json:"content,omitempty"`
	AttachmentURL string `json:"attachment_url,omitempty"`
}

type Role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position,omitempty"`
}

type Emoji struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type Reaction struct {
	Emoji     Emoji  `json:"emoji"`
	MessageID string `json:"message_id,omitempty"`
}
