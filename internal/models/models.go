package models

// Sentinel for "this message does not belong to a channel/DM".
const None = -1

// Permission levels for the workspace-wide role. Removed users keep their
// id for referential integrity in old messages but can never act again.
const (
	PermOwner   = 1
	PermMember  = 2
	PermRemoved = -1
)

// User is a registered account. Sessions holds the ids of currently valid
// login sessions; it grows only on register/login and shrinks only on
// logout or admin removal. Notifications is ordered most-recent-first and
// is unbounded in storage — readers cap it.
type User struct {
	ID            int            `json:"u_id"`
	Email         string         `json:"email"`
	PasswordHash  string         `json:"password_hash"`
	FirstName     string         `json:"name_first"`
	LastName      string         `json:"name_last"`
	Handle        string         `json:"handle"`
	Permission    int            `json:"permission"`
	Sessions      []string       `json:"sessions"`
	ResetCode     string         `json:"reset_code"`
	AvatarURL     string         `json:"avatar_url"`
	Notifications []Notification `json:"notifications"`
}

// Removed reports whether the account has been scrubbed by an admin.
func (u *User) Removed() bool {
	return u.Permission == PermRemoved
}

// Notification is an immutable feed entry. Exactly one of ChannelID/DmID
// is set; the other is None.
type Notification struct {
	ChannelID int    `json:"channel_id"`
	DmID      int    `json:"dm_id"`
	Message   string `json:"notification_message"`
}

// Standup is the per-channel timed buffering window. At most one is active
// per channel; state resets to inactive when the window closes.
type Standup struct {
	InitiatorID int      `json:"initiator_id"`
	Active      bool     `json:"is_active"`
	FinishAt    int64    `json:"time_finish"`
	Buffer      []string `json:"buffer"`
}

// Channel stores member and owner sets as user ids only; member details are
// derived at read time so profile edits are always reflected. OwnerIDs must
// stay non-empty while MemberIDs is non-empty, except when the last owner
// leaves the channel outright.
type Channel struct {
	ID        int     `json:"channel_id"`
	Name      string  `json:"name"`
	IsPublic  bool    `json:"is_public"`
	OwnerIDs  []int   `json:"owner_ids"`
	MemberIDs []int   `json:"member_ids"`
	Standup   Standup `json:"standup"`
}

// Dm membership is fixed at creation and only shrinks via leave. Name is
// derived once at creation from the sorted member handles and never
// recomputed afterwards.
type Dm struct {
	ID        int    `json:"dm_id"`
	CreatorID int    `json:"creator_id"`
	Name      string `json:"name"`
	MemberIDs []int  `json:"member_ids"`
}

// React is one reaction kind on a message and the users who applied it.
type React struct {
	ID      int   `json:"react_id"`
	UserIDs []int `json:"u_ids"`
}

// Message lives in exactly one conversation: one of ChannelID/DmID is set,
// the other is None. Ids are allocated from a monotonic counter and never
// reused, even after deletion.
type Message struct {
	ID        int     `json:"message_id"`
	AuthorID  int     `json:"u_id"`
	ChannelID int     `json:"channel_id"`
	DmID      int     `json:"dm_id"`
	Body      string  `json:"message"`
	SentAt    int64   `json:"time_sent"`
	Reacts    []React `json:"reacts"`
	Pinned    bool    `json:"is_pinned"`
}

// Member is the read-time projection of a user inside channel/DM details.
type Member struct {
	ID        int    `json:"u_id"`
	Email     string `json:"email"`
	FirstName string `json:"name_first"`
	LastName  string `json:"name_last"`
	Handle    string `json:"handle_str"`
	AvatarURL string `json:"profile_img_url"`
}

// MemberOf projects a user into its member view.
func MemberOf(u *User) Member {
	return Member{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Handle:    u.Handle,
		AvatarURL: u.AvatarURL,
	}
}

// ReactView annotates a reaction with whether the reading user applied it.
// Computed per caller at read time, never stored.
type ReactView struct {
	ID        int   `json:"react_id"`
	UserIDs   []int `json:"u_ids"`
	IsReacted bool  `json:"is_this_user_reacted"`
}

// MessageView is the per-caller read projection of a message.
type MessageView struct {
	ID     int         `json:"message_id"`
	Author int         `json:"u_id"`
	Body   string      `json:"message"`
	SentAt int64       `json:"time_sent"`
	Reacts []ReactView `json:"reacts"`
	Pinned bool        `json:"is_pinned"`
}
