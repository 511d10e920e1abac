package domain

// SnippetLength is the maximum number of characters in a citation snippet.
const SnippetLength = 240

// DefaultAnswerSystem is the built-in instruction block placed at the top of
// every grounded answer prompt.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultAnswerSystem = `You are Job Application Helper.
You help the user with resumes, job descriptions, cover letters, interview prep, and career questions.
You must use the provided CONTEXT as your primary source of truth.
If the answer is not in the context, you may use general knowledge, but clearly separate it as 'General guidance'.
Never mention 'sources', 'chunks', 'documents', or 'context' in your answer.
Never say 'Based on the sources provided'.
Be direct and practical. Prefer short bullet points when helpful.`

// Retrieval bounds for top_k.
const (
	DefaultTopK = 5
	MinTopK     = 1
	MaxTopK     = 20
)

// RetrievalHit is one search result, most relevant first within a response.
type RetrievalHit struct {
	// Score is the collaborator-defined similarity; higher is more relevant.
	Score float64 `json:"score"`

	// DocID identifies the source document.
	DocID string `json:"doc_id"`

	// ChunkID is the content identity of the matched chunk.
	ChunkID ChunkIdentity `json:"chunk_id"`

	// Text is the full chunk text.
	Text string `json:"text"`
}

// RetrievalResponse wraps hits with the query that produced them.
type RetrievalResponse struct {
	Query string         `json:"query"`
	TopK  int            `json:"top_k"`
	Hits  []RetrievalHit `json:"hits"`
}

// Citation is a source supporting an answer.
type Citation struct {
	DocID   string        `json:"doc_id"`
	ChunkID ChunkIdentity `json:"chunk_id"`
	Score   float64       `json:"score"`
	Text    string        `json:"text"`
	Snippet string        `json:"snippet"`
}

// NewCitation builds a citation from a hit, truncating the snippet to
// SnippetLength characters.
func NewCitation(hit RetrievalHit) Citation {
	return Citation{
		DocID:   hit.DocID,
		ChunkID: hit.ChunkID,
		Score:   hit.Score,
		Text:    hit.Text,
		Snippet: Snippet(hit.Text, SnippetLength),
	}
}

// Snippet returns the first n characters of text.
func Snippet(text string, n int) string {
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}

// AnswerEnvelope is the response to a chat query.
type AnswerEnvelope struct {
	Question string     `json:"question"`
	TopK     int        `json:"top_k"`
	Answer   string     `json:"answer"`
	Sources  []Citation `json:"sources"`
}
