// Package social adapts blog content into per-channel social media posts:
// bounded-retry draft generation plus per-channel length limiting.
package social

import "strings"

// Channel identifies a social media platform. Channel names appear verbatim
// in generation prompts.
type Channel string

// Channels with dedicated character limits.
const (
	ChannelX         Channel = "X"
	ChannelFacebook  Channel = "Facebook"
	ChannelLinkedIn  Channel = "LinkedIn"
	ChannelYoutube   Channel = "Youtube"
	ChannelInstagram Channel = "Instagram"
	ChannelTikTok    Channel = "TikTok"
)

// AllChannels lists the known channels in display order.
var AllChannels = []Channel{
	ChannelFacebook,
	ChannelX,
	ChannelLinkedIn,
	ChannelYoutube,
	ChannelInstagram,
	ChannelTikTok,
}

// DefaultCharacterLimit applies to channels without a dedicated entry.
// Unknown channels are accepted rather than rejected; they get this limit.
const DefaultCharacterLimit = 2000

var characterLimits = map[Channel]int{
	ChannelX:         280,
	ChannelFacebook:  2000,
	ChannelLinkedIn:  3000,
	ChannelInstagram: 2200,
	ChannelTikTok:    150,
	ChannelYoutube:   1000,
}

// LimitFor returns the character limit for a channel.
func LimitFor(ch Channel) int {
	if limit, ok := characterLimits[ch]; ok {
		return limit
	}
	return DefaultCharacterLimit
}

// Normalize maps a name to its canonical Channel, case-insensitively.
// Unknown names pass through unchanged.
func Normalize(name string) Channel {
	for _, ch := range AllChannels {
		if strings.EqualFold(name, string(ch)) {
			return ch
		}
	}
	return Channel(name)
}

// Limit cuts content to the channel's character limit. Content at or under
// the limit is returned unchanged. Over-limit content is cut to the limit,
// then back to the last sentence end ('.', '!', or '?') within the window;
// a window with no sentence end is returned whole. Limits count characters,
// not bytes, so multi-byte content is never split mid-character.
func Limit(content string, ch Channel) string {
	limit := LimitFor(ch)
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}

	window := runes[:limit]
	last := -1
	for i, r := range window {
		if r == '.' || r == '!' || r == '?' {
			last = i
		}
	}
	if last >= 0 {
		return string(window[:last+1])
	}
	return string(window)
}
