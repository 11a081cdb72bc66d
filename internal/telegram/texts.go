package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// UI texts in English
const (
	groupStartText = "🎉 Hi everyone! I'm here to help you keep track of everyone's birthdays in this group! 🎂\n\n" +
		"Here's what you can do:\n" +
		"- Add your birthday by typing /mybirthday [your birthday in DD-MM-YYYY format]. Example: /mybirthday 15-08-2006\n" +
		"- Remove your birthday by typing /deletebirthday\n" +
		"- See the list of birthdays added in this group with /birthdaylist\n\n" +
		"I'll send a special message on your birthday! 😊"
	privateStartText = "🎉 Welcome! I'm delighted to meet you!\n\n" +
		"I'm here to help you keep track of your friends' birthdays and ensure you never miss a special day. " +
		"Here's what you can do:\n\n" +
		"🎂 Commands for DM:\n\n" +
		"Add your friend's birthday with /addbirthday FRIEND_NAME DD-MM-YYYY.\n" +
		"Example: /addbirthday Aakashuu 15-08-2006\n" +
		"Remove a friend's birthday with /deletebirthday FRIEND_NAME\n" +
		"See your list with /birthdaylist\n\n" +
		"I'll remind you two days before, one day before and on the day itself! 🎈"

	helpText = "🤖 Welcome to Birthday Reminder Bot 🎉\n\n" +
		"This bot helps you manage birthdays and sends reminders for upcoming birthdays.\n\n" +
		"In group chats:\n" +
		"• /mybirthday DD-MM-YYYY — add your birthday (example: /mybirthday 15-08-2006)\n" +
		"• /deletebirthday — remove your birthday\n\n" +
		"In private messages:\n" +
		"• /addbirthday NAME DD-MM-YYYY — add a friend's birthday (example: /addbirthday Aakashuu 15-08-2006)\n" +
		"• /deletebirthday NAME — remove a friend's birthday\n\n" +
		"Everywhere:\n" +
		"• /birthdaylist — see the birthdays in this chat\n\n" +
		"On the big day the bot wishes the birthday person in the group and pins the message!"
	aboutText = "🎉 About Birthday Reminder Bot 🎉\n\n" +
		"Your assistant for remembering birthdays, for yourself and for your friends.\n\n" +
		"🎂 Groups: every member adds their own birthday with /mybirthday. " +
		"The group gets reminders two days and one day ahead, and a pinned wish on the day.\n" +
		"🎁 Private chat: keep a list of friends with /addbirthday and get reminders two days ahead, " +
		"one day ahead and on the day.\n\n" +
		"Use /help to see every command."
	supportText = "Birthday Reminder Bot v1.0.\nFeel free to DM the bot owner for support and bug reports."

	addWrongContextText = "This command only works in direct messages (DM).\n" +
		"Please send it in a private message.\nUse /help for more info."
	addUsageText         = "Please use the correct format:\nExample: /addbirthday Aakash_Gupta 15-08-2006"
	addInvalidDateFmt    = "Invalid date format for %s. Please use DD-MM-YYYY format."
	addInvalidNameText   = "Please use a single word (max 64 characters) for the name, e.g. Aakash_Gupta."
	addDuplicateFmt      = "You have already added a birthday for %s on %s."
	addOKFmt             = "Birthday for %s on %s added successfully!"
	addFailedText        = "There was an error adding the birthday. Please try again."
	myWrongContextText   = "This command does not work in DM.\nPlease use /addbirthday for adding your friends' birthdays in List.\nUse /help for more info."
	myInvalidDateText    = "Please use the correct date format: DD-MM-YYYY"
	myDuplicateText      = "Your birthday is already added. If you want to change it, please delete it first using /deletebirthday and then add it again."
	myOKText             = "Your birthday is added. Thank you!"
	myFailedText         = "There was an error adding your birthday. Please try again."
	delMissingNameText   = "Please provide the name of the friend whose birthday you want to delete."
	delOKFmt             = "Birthday for %s deleted successfully."
	delNotFoundFmt       = "No birthday found for %s to delete."
	delGroupOKText       = "Your birthday deleted successfully."
	delGroupNotFoundText = "No birthday found to delete."
	delFailedText        = "There was an error deleting the birthday. Please try again."
	listEmptyText        = "No birthdays found."
	listHeader           = "Birthday List:\n"
	listFailedText       = "There was an error fetching the birthdays. Please try again."

	analyticsWrongContextText = "Analytics are only available in direct messages."
	analyticsFmt              = "📊 Bot analytics:\n• Users: %d\n• Groups: %d"
	analyticsFailedText       = "Could not load analytics. Please try again."
	ownerOnlyText             = "Sorry, this command is only available to the bot owner."
	broadcastMissingText      = "Please provide a message to broadcast.\nExample: /broadcast Hello everyone!"
	broadcastDoneFmt          = "📣 Broadcast %s finished: %d delivered, %d failed."
	broadcastFailedText       = "Could not load recipients. Please try again."
	scanDoneFmt               = "🔎 Scan %s for %s: %d matched, %d sent, %d pinned, %d failed, %d skipped."
	scanJoinedFmt             = "⏳ A scan was already running; its result: " + scanDoneFmt
)

// helpKeyboard builds the inline buttons shown under /help.
func helpKeyboard(docsURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📘 Documentation", docsURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎂 About", callbackAbout),
			tgbotapi.NewInlineKeyboardButtonData("📞 Support", callbackSupport),
		),
	)
}
