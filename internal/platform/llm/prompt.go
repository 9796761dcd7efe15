package llm

import (
	"fmt"
	"strings"
)

// MaxContextChars bounds the reference text embedded in an ask prompt.
const MaxContextChars = 30000

func QuizPrompt(topic string, count int, difficulty string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice quiz questions about '%s'. ", count, topic)
	fmt.Fprintf(&b, "Difficulty: %s. ", difficulty)
	b.WriteString("Return the result as a strictly formatted JSON array. ")
	b.WriteString("Each object in the array must have these keys: 'question' (string), 'options' (array of 4 strings), and 'answer' (string, matching one of the options). ")
	b.WriteString(`Example format: [{"question": "...", "options": ["..."], "answer": "..."}]. `)
	b.WriteString("Do not include any markdown formatting, code blocks, or explanations outside the JSON.")
	return b.String()
}

func AskPrompt(context, question string) string {
	return fmt.Sprintf(`You are a helpful AI tutor for the 'LearnEx' platform.
Answer the student's question based ONLY on the provided context.
If the answer is not in the context, say "I cannot find the answer in the provided document."

---
CONTEXT:
%s
---

QUESTION: %s
`, Truncate(context, MaxContextChars), question)
}

// DataPrompt wraps caller instructions around a slice of raw source data.
func DataPrompt(prompt string, offset int, data string) string {
	return fmt.Sprintf("\n%s\n\n---\nData Context (Offset: %d):\n%s\n---\n", prompt, offset, data)
}

// Truncate keeps at most max characters of s, counted in runes.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
