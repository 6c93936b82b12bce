package handlers

// Main menu reply keyboard buttons.
const (
	BtnNewPost     = "➕ ساخت پست جدید"
	BtnMoviePost   = "🎬 دیزاین پست فیلم"
	BtnManageTypes = "⚙️ مدیریت انواع پست"
	BtnStats       = "📊 آمار و گزارش"
	BtnCancel      = "❌ لغو"
)

// Inline keyboard callback data.
const (
	CallbackPostTypePrefix  = "post_type_"
	CallbackConfirmSend     = "confirm_send"
	CallbackCancelAction    = "cancel_action"
	CallbackViewPostTypes   = "view_post_types"
	CallbackAddPostType     = "add_post_type"
	CallbackDeletePostType  = "delete_post_type"
	CallbackBackToMainMenu  = "back_to_main_menu"
	CallbackBackToAdminMenu = "back_to_admin_menu"
)

// Session data keys.
const (
	keyPostType       = "post_type"
	keyText           = "text"
	keyBannerPath     = "banner_path"
	keyPhotoID        = "photo_id"
	keyDisplayCaption = "display_caption"
	keyFileCaption    = "file_caption"
	keyFileID         = "file_id"
	keyFileKind       = "file_kind"
	keyTypeName       = "type_name"
)

const (
	fileKindDocument = "document"
	fileKindVideo    = "video"
)

// Telegram limits callback data to 64 bytes.
const maxPostTypeNameBytes = 64 - len(CallbackPostTypePrefix)
