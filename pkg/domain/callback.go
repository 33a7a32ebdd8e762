package domain

// Callback data exchanged through inline keyboards.
const (
	UserOKCallback      = "user_ok"
	UserAskAnonCallback = "user_ask_anon"

	// DeleteMentionCallbackPrefix is followed by "<chat_id>:<keyword>".
	DeleteMentionCallbackPrefix = "admin_del_mention:"
)
