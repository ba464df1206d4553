package rag

import (
	"fmt"
	"regexp"
	"strings"

	"tenantrag/internal/vectorindex"
)

// InsufficientContextAnswer is the fixed reply when retrieval produced no
// usable context. The system prompt instructs the model to emit exactly
// this string; the service also short-circuits to it when zero chunks
// come back, so an empty workspace can never yield a fabricated answer.
const InsufficientContextAnswer = "Do not have enough information"

const systemInstruction = `You are an AI assistant whose job is to reply to user queries with detailed explanation based on the context provided to you. Your task is to generate an answer to the query using only the details in the context. Do not add any external information or assumptions.

Instructions:
1. If no context is provided, reply with: "` + InsufficientContextAnswer + `".
2. First, verify if the provided context contains sufficient and relevant information to answer the user query. If the context does not match the user query, simply reply "` + InsufficientContextAnswer + `". Do not make suppositions when there is no direct information.
3. If the context is relevant and detailed enough, generate a detailed answer covering all the points, citing the file_id and filename which justify the answer.
4. Start your answer directly; do not include phrases like "according to the given context".
5. From the context cite the 'file_id' and 'filename' which justify your answer.

Response Format:
##Answer:
##Reference:
File_id:
Filename:`

var thinkTagPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ComposePrompt serializes the retrieved chunks into labeled context
// blocks, in retrieval order, and pairs them with the grounding
// instruction. Pure formatting; the model call happens elsewhere.
func ComposePrompt(question string, chunks []vectorindex.ScoredChunk) (system, user string) {
	var b strings.Builder
	for i, c := range chunks {
		filename := c.Payload.Filename
		if filename == "" {
			filename = "N/A"
		}
		fmt.Fprintf(&b, "Document %d:\n", i)
		fmt.Fprintf(&b, "\"file_id\": %q\n", c.Payload.FileID)
		fmt.Fprintf(&b, "\"filename\": %q\n", filename)
		if c.Payload.Heading != "" {
			fmt.Fprintf(&b, "\"heading\": %q\n", c.Payload.Heading)
		}
		fmt.Fprintf(&b, "\"content\": %q\n\n", c.Payload.Text)
	}

	system = systemInstruction + "\n\ncontext: " + b.String()
	user = question
	return system, user
}

// StripThinkTags removes <think>…</think> reasoning blocks some models
// prepend to their output.
func StripThinkTags(text string) string {
	return strings.TrimSpace(thinkTagPattern.ReplaceAllString(text, ""))
}
