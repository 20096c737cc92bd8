package model

// Guild is a server the bot can see.
type Guild struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Icon    string `json:"icon,omitempty" db:"icon"`
	OwnerID string `json:"ownerId" db:"owner_id"`
}

// ChannelType is the narrowed set of channel kinds the bot understands.
type ChannelType int

const (
	ChannelTypeOther ChannelType = iota
	ChannelTypeText
	ChannelTypeVoice
	ChannelTypeCategory
	ChannelTypeAnnouncement
	ChannelTypeForum
)

// ManageableChannelTypes lists the channel kinds that are synced and deleted.
var ManageableChannelTypes = []ChannelType{
	ChannelTypeText,
	ChannelTypeVoice,
	ChannelTypeCategory,
	ChannelTypeAnnouncement,
	ChannelTypeForum,
}

func (t ChannelType) IsManageable() bool {
	return t != ChannelTypeOther
}

func (t ChannelType) String() string {
	switch t {
	case ChannelTypeText:
		return "text"
	case ChannelTypeVoice:
		return "voice"
	case ChannelTypeCategory:
		return "category"
	case ChannelTypeAnnouncement:
		return "announcement"
	case ChannelTypeForum:
		return "forum"
	default:
		return "other"
	}
}

// Label is the human readable name shown in menus.
func (t ChannelType) Label() string {
	switch t {
	case ChannelTypeText:
		return "Text Channel"
	case ChannelTypeVoice:
		return "Voice Channel"
	case ChannelTypeCategory:
		return "Category"
	case ChannelTypeAnnouncement:
		return "Announcement Channel"
	case ChannelTypeForum:
		return "Forum Channel"
	default:
		return "Unknown"
	}
}

func (t ChannelType) Emoji() string {
	switch t {
	case ChannelTypeText:
		return "📝"
	case ChannelTypeVoice:
		return "🔊"
	case ChannelTypeCategory:
		return "📁"
	case ChannelTypeAnnouncement:
		return "📢"
	case ChannelTypeForum:
		return "📊"
	default:
		return "❓"
	}
}

// Channel is a guild channel. ParentID is empty for top-level channels.
type Channel struct {
	ID       string      `json:"id" db:"id"`
	GuildID  string      `json:"guildId" db:"guild_id"`
	Name     string      `json:"name" db:"name"`
	Type     ChannelType `json:"type" db:"type"`
	Position int         `json:"position" db:"position"`
	ParentID string      `json:"parentId,omitempty" db:"parent_id"`
}

// Role is a guild role.
type Role struct {
	ID       string `json:"id" db:"id"`
	GuildID  string `json:"guildId" db:"guild_id"`
	Name     string `json:"name" db:"name"`
	Position int    `json:"position" db:"position"`
	Hoist    bool   `json:"hoist" db:"hoist"`
	Color    int    `json:"color" db:"color"`
	Managed  bool   `json:"managed" db:"managed"`
}

// IsEveryone reports whether r is the implicit @everyone role, whose id equals the guild id.
func (r Role) IsEveryone() bool {
	return r.ID == r.GuildID || r.Name == "@everyone"
}

// Deletable reports whether the role may ever be offered for deletion.
func (r Role) Deletable() bool {
	return !r.IsEveryone() && !r.Managed
}
