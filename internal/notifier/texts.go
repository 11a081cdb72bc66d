package notifier

import (
	"fmt"

	"github.com/ykvlv/birthday-bot/internal/domain"
)

const (
	groupWishFmt = "🎂🎉 Happy Birthday, %s! 🎈🥳\n\n" +
		"May your special day be filled with love, joy, and unforgettable moments. " +
		"Wishing you all the happiness in the world on your birthday and always! 🎁🎈"
	groupDaysLeftFmt = "🎉 Hey everyone, just a reminder: %s day left for %s's birthday! " +
		"Let's get ready to celebrate together! 🎈🥳"

	personalTodayFmt = "🎉 Hey! Today is your friend %s's birthday! " +
		"Don't forget to wish them a fantastic day! 🎂"
	personalTomorrowFmt = "🎉 Heads up! Tomorrow is your friend %s's birthday! " +
		"A perfect time to plan a little surprise! 🎁"
	personalTwoDaysFmt = "🎉 Just a friendly reminder: In two days, it's your friend %s's birthday! " +
		"Don't forget to send them your best wishes! 🎈"
)

var daysInWords = map[domain.Tier]string{
	domain.TierOneDayBefore:  "one",
	domain.TierTwoDaysBefore: "two",
}

// Compose renders the reminder for a target kind and tier.
func Compose(target Target, tier domain.Tier, name string) (string, error) {
	if target.Group {
		if tier == domain.TierToday {
			return fmt.Sprintf(groupWishFmt, name), nil
		}
		words, ok := daysInWords[tier]
		if !ok {
			return "", fmt.Errorf("unknown tier %d", tier)
		}
		return fmt.Sprintf(groupDaysLeftFmt, words, name), nil
	}

	switch tier {
	case domain.TierToday:
		return fmt.Sprintf(personalTodayFmt, name), nil
	case domain.TierOneDayBefore:
		return fmt.Sprintf(personalTomorrowFmt, name), nil
	case domain.TierTwoDaysBefore:
		return fmt.Sprintf(personalTwoDaysFmt, name), nil
	default:
		return "", fmt.Errorf("unknown tier %d", tier)
	}
}
