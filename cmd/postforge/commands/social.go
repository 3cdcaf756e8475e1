package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/errors"
	"github.com/postforge/postforge/social"
)

// SocialCmd generates per-channel social media posts
var SocialCmd = &cobra.Command{
	Use:   "social",
	Short: "Generate social media posts announcing a blog post",
	Long: `Generate one social media post per channel from a blog post's title,
topic and keywords. Each post respects the channel's character limit;
a channel whose generation keeps failing gets an error note instead of
content, so the rest of the batch still comes through.

Supported channels: X, Facebook, LinkedIn, Instagram, TikTok, Youtube.
Unknown channel names are accepted with a default length limit.

Example:
  postforge social --title "Why We Cache" -t caching -k redis
  postforge social --title "Why We Cache" -t caching -c x -c linkedin
  postforge social --title "Why We Cache" -t caching --out-dir ./posts`,
	RunE: runSocial,
}

var (
	socialTitle    string
	socialTopic    string
	socialKeywords []string
	socialChannels []string
	socialOutDir   string
)

func init() {
	SocialCmd.Flags().StringVar(&socialTitle, "title", "", "Blog post title the social posts announce (required)")
	SocialCmd.Flags().StringVarP(&socialTopic, "topic", "t", "", "Blog topic for context")
	SocialCmd.Flags().StringSliceVarP(&socialKeywords, "keywords", "k", nil, "Keywords for context (repeatable)")
	SocialCmd.Flags().StringSliceVarP(&socialChannels, "channels", "c", []string{"facebook", "x"}, "Channels to adapt for (repeatable)")
	SocialCmd.Flags().StringVar(&socialOutDir, "out-dir", "", "Write each post to {Channel}_post.txt in this directory")
	SocialCmd.MarkFlagRequired("title")
}

func runSocial(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")

	st, err := buildStack(verbosity)
	if err != nil {
		return err
	}

	channels := make([]social.Channel, 0, len(socialChannels))
	for _, raw := range socialChannels {
		channels = append(channels, social.Normalize(raw))
	}

	posts, err := st.agent.SocialPosts(cmd.Context(), socialTitle, socialTopic, socialKeywords, channels)
	if err != nil {
		return err
	}

	for _, ch := range channels {
		fmt.Printf("── %s ──\n%s\n\n", ch, posts[ch])

		if socialOutDir != "" {
			path := filepath.Join(socialOutDir, fmt.Sprintf("%s_post.txt", ch))
			if err := os.WriteFile(path, []byte(posts[ch]), config.DefaultFilePermissions); err != nil {
				return errors.Wrapf(err, "failed to write %s", path)
			}
			pterm.Info.Printf("Saved %s\n", path)
		}
	}

	return nil
}
