package generation

import "fmt"

// NotePrompt builds the instruction for a slide-by-slide note on a topic.
func NotePrompt(topic string) string {
	return fmt.Sprintf(`Create a detailed, slide-by-slide explanation of the topic %q. Include definition, types, uses, importance, applications, examples, and other relevant points. Separate each slide with a blank line.`, topic)
}

// AssignmentPrompt builds the instruction for a fixed set of questions on a
// topic. The optional university tailors difficulty and style.
func AssignmentPrompt(topic, university string) string {
	p := fmt.Sprintf(`Create 3 MCQs and 2 descriptive questions on the topic %q. `, topic)
	if university != "" {
		p += fmt.Sprintf("Tailor the questions for %s. ", university)
	}
	p += `Respond with a JSON array only, each element an object with fields "type" ("MCQ" or "descriptive"), "question", "options" (MCQ only) and "answer".`
	return p
}
