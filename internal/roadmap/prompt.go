package roadmap

import "fmt"

// Completion kinds, used to label latency stats.
const (
	KindSummary = "summary"
	KindTopics  = "topics"
)

// MaxTopics is the most topics the extractor is asked for.
const MaxTopics = 8

const summaryInstruction = `You are part of an AI assistant tasked with generating structured study roadmaps.
The user will provide a subject and you will provide a brief yet simple paragraph explaining that subject.
Guidelines:
 - Include the key foundational terms the user should know.
 - Use only ASCII text.
 - Do not use mathematical formulas or symbols.
 - Write between 1 and 4 sentences.
 - Put the subject name alone on the first line and the entire summary on the second line.
 - Do not add any other text.`

var topicsInstruction = fmt.Sprintf(`You are part of an AI assistant tasked with generating structured study roadmaps.
You will be given a summary of a topic. Your task is to identify and extract the foundational topics necessary to understand that subject.
Your response should return important foundational topics in this format:
- One topic per line
- No explanations
- No numbering
- Maximum %d topics
- NO ADDITIONAL TEXT

For example, if the summary is about evaporation, a response would be
phase change
states of matter`, MaxTopics)

func parentContextMessage(parent string) string {
	return fmt.Sprintf("The subject is a foundational topic for understanding %s. "+
		"Explain it so that it prepares the user to study %s.", parent, parent)
}
