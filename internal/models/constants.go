package models

const (
	// SystemPrompt constrains the completion model to the retrieved context.
	SystemPrompt = `You are a helpful assistant that answers questions using only the provided document context. Cite page numbers in your answer when possible. If the context is not sufficient to answer, say that you don't know instead of guessing.`

	// NoContextAnswer is returned when the similarity search comes back empty.
	// The completion model is never called in that case.
	NoContextAnswer = "I couldn't find relevant information in the document to answer your question."

	UserPromptTemplate = `Answer the question using the context below.

Context:
%s

Question: %s`
)
