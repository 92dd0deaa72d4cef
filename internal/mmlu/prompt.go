package mmlu

import "strings"

// ChoiceLabels are the option labels rendered into prompts, in display order.
var ChoiceLabels = []string{"A", "B", "C", "D"}

const answerInstruction = "Please choose the correct answer. Only respond with the letter (A, B, C, or D), no explanation needed:"

// FormatQuestion renders a question and its labeled options as the prompt text
// sent to the model. Labels absent from options are skipped, so a malformed
// row produces a shorter prompt rather than an error.
func FormatQuestion(question string, options map[string]string) string {
	var sb strings.Builder
	sb.WriteString(question)
	sb.WriteString("\n\n")

	for _, label := range ChoiceLabels {
		text, ok := options[label]
		if !ok {
			continue
		}
		sb.WriteString(label)
		sb.WriteString(". ")
		sb.WriteString(text)
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	sb.WriteString(answerInstruction)
	return sb.String()
}
