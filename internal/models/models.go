// Package models contains the client-visible projections of records owned
// by the remote WikiNITT GraphQL API. The gateway fills these in; nothing
// here is persisted locally.
package models

// VoteType is the viewer's vote on a post or comment. At most one non-NONE
// value holds per (viewer, entity) pair.
type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
	VoteNone VoteType = "NONE"
)

// Valid reports whether v is one of the three known vote values.
func (v VoteType) Valid() bool {
	switch v {
	case VoteUp, VoteDown, VoteNone:
		return true
	}
	return false
}

// GroupType distinguishes publicly browsable groups from invite-only ones.
type GroupType string

const (
	GroupPublic  GroupType = "PUBLIC"
	GroupPrivate GroupType = "PRIVATE"
)

// PublicUser is the public projection of a user record.
type PublicUser struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// Viewer is the authenticated caller as reported by the gateway's me query.
type Viewer struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	IsAdmin       bool   `json:"isAdmin"`
	SetupComplete bool   `json:"setupComplete"`
}

// Group is a community space keyed by a URL-stable slug. The slug survives
// renames only until updateGroup regenerates it; callers must follow the
// slug returned by the server.
type Group struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Icon         string      `json:"icon,omitempty"`
	Slug         string      `json:"slug"`
	Type         GroupType   `json:"type"`
	MembersCount int         `json:"membersCount"`
	IsMember     bool        `json:"isMember"`
	InviteToken  string      `json:"inviteToken,omitempty"`
	Owner        *PublicUser `json:"owner,omitempty"`
	CreatedAt    string      `json:"createdAt"`
	Posts        []*Post     `json:"posts,omitempty"`
}

// Post is a votable, commentable entry inside a group.
type Post struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	CreatedAt     string      `json:"createdAt"`
	IsEdited      bool        `json:"isEdited,omitempty"`
	CommentsCount int         `json:"commentsCount"`
	Upvotes       int         `json:"upvotes"`
	Downvotes     int         `json:"downvotes"`
	UserVote      VoteType    `json:"userVote"`
	Author        *PublicUser `json:"author,omitempty"`
	Group         *Group      `json:"group,omitempty"`
	Comments      []*Comment  `json:"comments,omitempty"`
}

// Score is the displayed net count (upvotes minus downvotes).
func (p *Post) Score() int { return p.Upvotes - p.Downvotes }

// Comment is a reply to a post or to another comment. RepliesCount is an
// authoritative hint from the server covering all descendants; it is never
// recomputed from loaded pages.
type Comment struct {
	ID           string      `json:"id"`
	Content      string      `json:"content"`
	CreatedAt    string      `json:"createdAt"`
	IsEdited     bool        `json:"isEdited,omitempty"`
	Upvotes      int         `json:"upvotes"`
	Downvotes    int         `json:"downvotes"`
	UserVote     VoteType    `json:"userVote"`
	RepliesCount int         `json:"repliesCount"`
	ParentID     *string     `json:"parentId,omitempty"`
	Author       *PublicUser `json:"author,omitempty"`
	Post         *Post       `json:"post,omitempty"`
}

// Score is the displayed net count (upvotes minus downvotes).
func (c *Comment) Score() int { return c.Upvotes - c.Downvotes }

// Article is a long-form editorial entry, addressed by slug.
type Article struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content,omitempty"`
	Slug        string      `json:"slug"`
	Category    string      `json:"category"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	Featured    bool        `json:"featured"`
	Description string      `json:"description"`
	Author      *PublicUser `json:"author,omitempty"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt,omitempty"`
}

// Discussion is the chat container attached to a group.
type Discussion struct {
	ID       string     `json:"id"`
	GroupID  string     `json:"groupId,omitempty"`
	Channels []*Channel `json:"channels,omitempty"`
}

// Channel is a named message stream inside a discussion.
type Channel struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Messages []*Message `json:"messages,omitempty"`
}

// Message is a single chat entry in a channel.
type Message struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	CreatedAt string      `json:"createdAt"`
	Sender    *PublicUser `json:"sender,omitempty"`
}
