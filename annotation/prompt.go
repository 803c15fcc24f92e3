package annotation

import "strings"

// maxPromptChars caps how much extracted document text is sent to the
// model. Long documents are summarizable from their opening pages.
const maxPromptChars = 60000

const instructions = `You are a document filing assistant. You will be given the extracted text of a scanned or digital PDF document. Produce metadata that makes the document easy to find and understand.

Follow these steps:

1. Read the document text and identify the main topic, who created or sent it, what kind of document it is (invoice, report, letter, statement, ...) and any date it mentions.
2. Write a one or two sentence summary focused on the most important information.
3. List up to 10 search keywords someone could use to find this document later.
4. Write a short, informative title.
5. Propose a filename following this standard: [Date]_[Category]_[Source]_[Description]_[Details].pdf
   - Date comes first, in YYYYMMDD form. Use YYYYMM00 when the day is unknown, YYYY0000 when only the year is known.
   - Category is a single word such as Medical, Financial, Insurance, Legal.
   - Source is who the document came from, e.g. CityHall, AcmeCorp.
   - Description says what the document is, e.g. Invoice, Statement, Minutes.
   - Details is optional and only used to tell similar files apart; separate words with hyphens.
   - Sections are separated by single underscores, no spaces, always ending in .pdf.
   Example: 20250310_Financial_MyBank_Statement_Savings-Account.pdf

Respond with a single JSON object and nothing else, in exactly this shape:

{"title": "...", "summary": "...", "keywords": ["...", "..."], "filename": "..."}`

// BuildPrompt combines the filing instructions with the document text,
// truncated to the prompt budget.
func BuildPrompt(documentText string) string {
	text := strings.TrimSpace(documentText)
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\nDocument text:\n\n")
	b.WriteString(text)
	return b.String()
}
