package bot

import (
	"errors"
	"fmt"
	"strings"

	"autoaccept/internal/ads"
	"autoaccept/internal/stats"
	"autoaccept/internal/wizard"
)

const (
	msgUnknownCommand = "Unknown command. Use /help to see available commands."
	msgInternalError  = "An error occurred while processing your request. Please try again."

	msgWelcome = "Hello🎈 !\n\n" +
		"I Accept Join Requests Automatically\n" +
		"Just ✨ Add Me To Your Channel ➕\n" +
		"Click /start To Know More ⭐⭐\n\n" +
		"🔴Click Here To Start🔴"

	btnStart        = "🔴Click Here To Start🔴"
	btnAddToGroup   = "Add me to your group"
	btnAddToChannel = "Add me to your channel"

	msgPublicHelp = "🤖 *Auto-Accept Bot Help*\n\n" +
		"This bot automatically accepts join requests for your private groups and channels.\n\n" +
		"*How to use:*\n" +
		"1. Add me to your private group or channel as admin\n" +
		"2. Give me 'Invite Users' permission\n" +
		"3. I will automatically accept all join requests!\n\n" +
		"*Commands:*\n" +
		"/start - Start the bot and get add links\n" +
		"/help - Show this help message\n\n" +
		"That's it! Simple and automatic! ✨"

	msgAdminHelp = "\n\n*Admin commands:*\n" +
		"/setad - Create or replace the ad sent to new members\n" +
		"/viewad - Preview the current ad\n" +
		"/clearad - Remove the ad\n" +
		"/stats - Join and click statistics\n" +
		"/cancel - Abort the ad setup"

	msgWizardStart    = "🛠 Ad setup started. Your previous ad stays active until you finish."
	msgPromptPhoto    = "📸 Send the photo for the ad, or /skip to continue without one.\n\n/cancel aborts the setup."
	msgPromptText     = "📝 Now send the ad text."
	msgPromptButton   = "🔗 Send a button as\n\nLabel | https://example.com\n\nor /skip to save the ad without buttons."
	msgButtonAdded    = "✅ Button added (%d so far). Send another one as Label | URL, or /done to save the ad."
	msgWizardCanceled = "❌ Ad setup cancelled. Nothing was changed."
	msgAdSaved        = "✅ Ad saved! New members will receive it after their request is approved. Preview:"
	msgAdSaveFailed   = "⚠️ Failed to save the ad. Please try again."
	msgNoWizard       = "No ad setup in progress. Use /setad to start one."

	msgSetAdPrivateOnly = "🔒 The ad setup runs in our private chat. Send /setad to me there."
	btnOpenPrivateChat  = "Open private chat"

	msgNoAd         = "No ad configured. Use /setad to create one."
	msgConfirmClear = "🗑 Remove the current ad and all its buttons?"
	msgAdCleared    = "🗑 Ad removed."
	msgClearKept    = "Ad kept."
	msgLinkGone     = "This link is no longer available."
	msgOpenLink     = "🔗 %s"

	msgClickTrackingOff = "🖱 Clicks: not tracked (set TRACK_CLICKS=true to count button presses)"
)

// wizardPrompt returns the question asked in the given state
func wizardPrompt(state wizard.State) string {
	switch state {
	case wizard.AwaitingPhoto:
		return msgPromptPhoto
	case wizard.AwaitingText:
		return msgPromptText
	case wizard.AwaitingButton:
		return msgPromptButton
	case wizard.AwaitingMoreButtons:
		return "Send another button as Label | URL, or /done to save the ad."
	}
	return ""
}

// rejectionText explains why a wizard input was not accepted
func rejectionText(err error, policy ads.URLPolicy) string {
	switch {
	case errors.Is(err, wizard.ErrPhotoExpected):
		return "❌ Please send a photo or /skip."
	case errors.Is(err, wizard.ErrTextExpected):
		return "❌ Please send the ad text as a regular message."
	case errors.Is(err, wizard.ErrButtonFormat), errors.Is(err, wizard.ErrButtonExpected):
		return "❌ Invalid format. Use: Label | URL"
	case errors.Is(err, wizard.ErrButtonLabel):
		return "❌ The button label must not be empty."
	case errors.Is(err, wizard.ErrButtonURL):
		return fmt.Sprintf("❌ The URL must start with one of: %s", strings.Join(policy.Prefixes(), ", "))
	}
	return "❌ Invalid input."
}

// greeting is the /start text
func greeting(firstName string) string {
	if firstName == "" {
		firstName = "User"
	}
	return fmt.Sprintf("Hello🎈 %s!\n\n"+
		"I Accept Join Requests Automatically\n"+
		"Just ✨ Add Me To Your Channel ➕\n"+
		"Click /start To Know More ⭐⭐", firstName)
}

// adSummary describes the stored ad for /viewad
func adSummary(ad *ads.Ad) string {
	var text strings.Builder
	text.WriteString("📋 Current ad\n\n")
	if ad.HasPhoto() {
		text.WriteString("📸 Photo: yes\n")
	} else {
		text.WriteString("📸 Photo: no\n")
	}
	text.WriteString(fmt.Sprintf("🔗 Buttons: %d\n", len(ad.Buttons)))
	for i, button := range ad.Buttons {
		text.WriteString(fmt.Sprintf("   %d. %s → %s\n", i+1, button.Label, button.URL))
	}
	if !ad.UpdatedAt.IsZero() {
		text.WriteString(fmt.Sprintf("🕒 Updated: %s UTC", ad.UpdatedAt.UTC().Format("2006-01-02 15:04")))
	}
	return text.String()
}

// formatStatsReport renders a statistics report. Click counters are only
// meaningful when ad buttons are tracked.
func formatStatsReport(report stats.Report, trackClicks bool) string {
	period := fmt.Sprintf("last %d days", report.WindowDays)
	switch {
	case report.IsAllTime():
		period = "all time"
	case report.WindowDays == 1:
		period = "last 24 hours"
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📊 Statistics (%s)\n\n", period))
	text.WriteString(fmt.Sprintf("👥 Joins: %d (total %d)\n", report.RecentJoins, report.TotalJoins))
	if trackClicks {
		text.WriteString(fmt.Sprintf("🖱 Clicks: %d (total %d)\n", report.RecentClicks, report.TotalClicks))
		text.WriteString(fmt.Sprintf("📈 Click rate: %.1f%%\n", report.ClickRate()*100))
	} else {
		text.WriteString(msgClickTrackingOff + "\n")
	}
	text.WriteString(fmt.Sprintf("💬 Groups and channels: %d", report.UniqueGroups))
	return text.String()
}
