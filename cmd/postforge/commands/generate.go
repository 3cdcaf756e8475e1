package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/agent"
	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/errors"
)

// GenerateCmd generates one blog post
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one blog post, optionally publishing it",
	Long: `Generate a blog post title and body for a topic. The post is printed
for review; --publish sends it to the configured WordPress site, --out
writes it to a file.

Example:
  postforge generate -t "vector databases" -k embeddings -k search
  postforge generate -t "vector databases" -k embeddings --publish
  postforge generate -t "vector databases" -k embeddings -o blog_post.txt`,
	RunE: runGenerate,
}

var (
	generateTopic    string
	generateKeywords []string
	generatePublish  bool
	generateOut      string
)

func init() {
	GenerateCmd.Flags().StringVarP(&generateTopic, "topic", "t", "", "Blog topic to write about (required)")
	GenerateCmd.Flags().StringSliceVarP(&generateKeywords, "keywords", "k", nil, "Keywords to weave into the post (repeatable)")
	GenerateCmd.Flags().BoolVar(&generatePublish, "publish", false, "Publish the post after generating it")
	GenerateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Write the post to this file as well")
	GenerateCmd.MarkFlagRequired("topic")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")

	st, err := buildStack(verbosity)
	if err != nil {
		return err
	}

	post, err := st.agent.GenerateBlog(cmd.Context(), agent.JobSpec{
		Topic:    generateTopic,
		Keywords: generateKeywords,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n%s\n", post.Title, post.Body)

	if generateOut != "" {
		content := post.Title + "\n\n" + post.Body
		if err := os.WriteFile(generateOut, []byte(content), config.DefaultFilePermissions); err != nil {
			return errors.Wrap(err, "failed to write post file")
		}
		pterm.Info.Printf("Saved to %s\n", generateOut)
	}

	if generatePublish {
		if !st.agent.PublishPost(cmd.Context(), post) {
			return errors.New("publish failed; the post was not created")
		}
		pterm.Success.Printf("Published %q to %s\n", post.Title, st.cfg.WordPress.Domain)
	}

	return nil
}
