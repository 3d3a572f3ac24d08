package bot

// =============================================================================
// General messages
// =============================================================================

const (
	MsgStart = `
		Hi! Send me a photo of a menu and I will translate it for you.

		Prices are converted to %s. Use /help to see what else I can do.`
	MsgHelp = `
		Send a photo of a menu, or an image file (PNG, JPEG, WEBP), and I will reply with the dishes translated to English.

		/currency - show or change the currency prices are converted to (now %s)
		/model - show or change the vision model (now %s)
		/help - show this message`
	MsgSendPhoto      = "Send me a photo of a menu to translate it."
	MsgUnknownCommand = "Unknown command. Use /help to see the available commands."
	MsgUnexpectedErr  = "Something went wrong while translating the menu. Please try again."
	MsgWorking        = "Reading the menu..."
)

// =============================================================================
// Translation messages
// =============================================================================

const (
	MsgTranslationFailed = "Translation failed: %s"
	MsgInvalidImage      = "That image cannot be used: %s"
	MsgNoDishes          = "I could not find any dishes on that menu."
	MsgMenuHeader        = "*%s* menu (%s), %d dishes"
)

// =============================================================================
// Settings messages
// =============================================================================

const (
	MsgCurrencyCurrent = "Prices are converted to *%s*.\n\nChange it with `/currency USD`."
	MsgCurrencyInvalid = "Currency must be a three letter ISO 4217 code, for example `/currency USD`."
	MsgCurrencyUpdated = "✅ Prices will be converted to %s."
	MsgModelCurrent    = "Menus are read with *%s*.\n\nAvailable models:\n%s"
	MsgModelInvalid    = "Unknown model %s. Available models:\n%s"
	MsgModelUpdated    = "✅ Menus will be read with %s."
	MsgSettingsErr     = "Failed to save the setting, please try again."
)
