package news

import "fmt"

// promptTemplate expects, in order: yesterday, today, region, character budget.
const promptTemplate = `As a news analyst, provide a concise summary of the most important world news from %[1]s to %[2]s. The summary should be formatted as a single, cohesive paragraph that provides an overall summary of the key themes and interconnected events across the specified sectors.
Then, break down the summary into three distinct sections, each with bullet points:
1. Technology: Summarize the most impactful news, focusing on major developments, breakthroughs, or significant events involving leading companies. Include any relevant statistics or market movements, particularly for big tech companies.
2. Economy: Summarize the most important global economic news. Focus on trends, policy changes, and market performance. Include stock market news, such as the movement of major tech company stocks, and provide specific data points where available.
3. %[3]s Politics: Summarize the most critical political developments and their implications. Provide a balanced view of the events, drawing from multiple sources to show different sides of the story, as is often done by outlets like Ground News.
Each bullet point should be 1-2 sentences long and the whole message should be less than %[4]d characters long. Include the source of information for all key facts and statistics. Ensure the tone is objective and informative, suitable for a reader who is already proficient in tech and wants to expand their knowledge in economics and politics.`

// PromptOptions are the configurable parts of the prompt.
type PromptOptions struct {
	Region     string
	CharBudget int
}

// BuildPrompt interpolates the date pair and options into the analyst prompt.
func BuildPrompt(dates DatePair, opts PromptOptions) string {
	return fmt.Sprintf(promptTemplate, dates.Yesterday, dates.Today, opts.Region, opts.CharBudget)
}
