package content

import (
	"fmt"
	"strings"
)

func titlePrompt(topic string, keywords []string) string {
	return fmt.Sprintf("Generate an engaging and professional blog post title for the topic '%s' "+
		"incorporating the keywords: %s. The title should be between 10-20 words, unique, and relevant.",
		topic, strings.Join(keywords, ", "))
}

func bodyPrompt(title, topic string, keywords []string) string {
	return fmt.Sprintf("Create a detailed 15-minute read blog post titled '%s'. "+
		"Focus on the topic: '%s' and incorporate the following keywords: %s. "+
		"The blog should be well-structured for developers and businesses, using proper HTML tags "+
		"like <h1>, <h2>, <p>, and <code>. Include practical examples, analysis, and applications.",
		title, topic, strings.Join(keywords, ", "))
}

func socialPrompt(channel, mainContent string) string {
	return fmt.Sprintf("Generate a %s post based on this content:\n\n%s\n\n"+
		"The post should be engaging and professional. Please do not include any emojis.",
		channel, mainContent)
}

func weeklyPlanPrompt(businessPlan string) string {
	return fmt.Sprintf("You are an experienced content strategist. Based on the following business plan, "+
		"generate a detailed weekly content plan for both blogging and social media. "+
		"For each day of the week, provide a recommendation that includes a blog post title, "+
		"blog post topic, and a list of relevant keywords. Also include ideas for accompanying "+
		"social media posts (platform-specific if possible). Make sure the recommendations are "+
		"actionable and clearly formatted.\n\nBusiness Plan: %s",
		businessPlan)
}
