package utils

import (
	"fmt"
	"math/rand/v2"
)

var lines = map[string][]string{
	"inactive_hint": {"I’m sleepy~ An admin should use `/activate` to wake me up.", "Not charmed yet, an admin must `/activate` me."},
	"no_permission": {"Ah-ah~ Only my chosen can use that. Ask an admin.", "You don't have the charm for that command."},
	"oops":          {"Eep, my tail slipped. Try again?", "Something went poof. I’ll behave next time~"},
	"activated":     {"All warmed up. Let’s play~ ✨", "I’m awake and ready to mischief!"},
	"deactivated":   {"Going quiet. Call me when you need me~", "Shh… I’ll curl up for a nap now."},
	"help_intro":    {"Nine tails, many tricks. Here’s what I can do:"},
	"done":          {"Done~", "As you wish, darling."},
	"nsfw_removed": {
		"Mmm~ that was a little too spicy for here ♥ I’ll be taking it down~",
		"Oh my~ naughty naughty… I’ll clean this up for you ♥",
		"Ehehe~ that one’s a bit too much for the den, let’s keep it safe ♥",
	},
	"banned_word": {"Shh~ That word is banned here, %s."},
}

// Say returns a random line for key, formatted with args.
func Say(key string, args ...any) string {
	arr, ok := lines[key]
	if !ok || len(arr) == 0 {
		return "…"
	}
	line := arr[rand.IntN(len(arr))]
	if len(args) > 0 {
		return fmt.Sprintf(line, args...)
	}
	return line
}
