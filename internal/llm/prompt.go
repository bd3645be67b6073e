package llm

import "fmt"

// MaxContextChars is the context window: the maximum number of corpus
// characters forwarded to the model with a single question.
const MaxContextChars = 120000

const promptTemplate = `You are a helpful assistant that answers questions based on the provided document text.
Answer the user's question truthfully using only the information in the following text.
If the answer cannot be found, say so and do not invent an answer.

Document Text:
'''
%s
'''

Question: %s

Answer:`

// Truncated reports whether BuildPrompt will embed less than the full corpus.
// Callers use it to emit the one-per-question truncation notice; BuildPrompt
// itself never notifies anyone.
func Truncated(corpus string) bool {
	return len(corpus) > MaxContextChars
}

// BuildPrompt embeds at most MaxContextChars characters of corpus plus the
// question into the fixed instruction template. Pure: identical inputs yield
// a byte-identical prompt.
func BuildPrompt(corpus, question string) string {
	if len(corpus) > MaxContextChars {
		corpus = corpus[:MaxContextChars]
	}
	return fmt.Sprintf(promptTemplate, corpus, question)
}
