package openai

// systemPrompt constrains the model to a single-token answer. The parser only
// accepts the exact words "spam" and "ham".
const systemPrompt = `You are a precise comment moderation assistant. Assess the content and metadata of the blog comment
you are given and decide what it is. Answer with exactly one word, either 'spam' or 'ham'.
Do not add punctuation, explanation, or any other text.`

// commentPrompt is the user message payload, serialized as JSON.
type commentPrompt struct {
	Comment  string   `json:"comment"`
	Metadata metadata `json:"metadata"`
}

type metadata struct {
	Author string `json:"author"`
	Email  string `json:"email"`
	URL    string `json:"url"`
}
