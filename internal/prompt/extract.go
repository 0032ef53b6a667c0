package prompt

import (
	"fmt"

	"ragbot/internal/domain"
)

// ExtractSystem frames the bulk parsing of scraped content.
const ExtractSystem = "You are an AI assistant tasked with extracting specific information from the following text content. " +
	"Remove HTML and CSS, and write it as if you were an advertiser for IOLs."

// Extract builds the messages asking the model to pull description out of one content chunk.
func Extract(description, chunk string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: ExtractSystem},
		{Role: domain.RoleUser, Content: fmt.Sprintf("Extract information matching this description: %s from the following content:\n\n%s", description, chunk)},
	}
}
