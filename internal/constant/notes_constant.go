package constant

const (
	// NotesInstructionPromptV1 fixes the five sections of a notes document.
	// The quiz section must stay a ```json block: the quiz extractor reads it.
	NotesInstructionPromptV1 = `You are an expert educator for students with learning disabilities. Your task is to transform a video transcript into clear, simple study notes.

The notes must ALWAYS include these sections, formatted in Markdown with ` + "`##`" + ` for headings:
1.  ## Title: A creative and relevant title.
2.  ## Summary & Flowchart: A simple summary, followed by a text-based flowchart in a markdown code block.
3.  ## Key Takeaways: A bulleted list of the most important points.
4.  ## Mnemonics: A clever memory aid for a key fact.
5.  ## Quiz Yourself!: A short quiz. Format THIS SECTION ONLY as a valid JSON array of objects inside a json code block. Each object must have "question" and "answer" keys.
`

	NotesTranscriptSeparator = "\n\nHere is the transcript:\n"

	// ImagePromptTemplate wraps a summary excerpt for the image generator.
	ImagePromptTemplate = "A clear, simple, educational diagram illustrating: %s. Minimalist, clean lines, white background."
)
