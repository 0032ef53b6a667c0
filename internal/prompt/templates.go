package prompt

import "fmt"

// Template is one prompt-assembly policy.
type Template struct {
	Name   string
	System string
	// Task introduces the retrieved context in the user message.
	Task string
	// Header is the section title the model must open its answer with.
	Header string
	Body   string
}

const baseSystem = "You are a helpful assistant capable of providing context-aware responses."

// Answer asks for a short, single augmented answer.
var Answer = Template{
	Name:   "answer",
	System: baseSystem,
	Task:   "Please provide an augmented response considering the following related information from our database:",
	Header: "**Augmented Response**",
	Body:   "[Your augmented response here]",
}

// Report asks for a long report on competitor innovation.
var Report = Template{
	Name:   "report",
	System: baseSystem + " You write structured competitive-intelligence reports.",
	Task: "Write a detailed report on the innovations of the companies mentioned in the query, " +
		"organised by company, covering products, launches, regulatory milestones and their likely impact. " +
		"Base it on the following related information from our database:",
	Header: "**Competitor Innovation Report**",
	Body:   "[One section per company, followed by a short summary of implications]",
}

// Templates lists the selectable templates by name.
var Templates = map[string]Template{
	Answer.Name: Answer,
	Report.Name: Report,
}

// Lookup returns the named template.
func Lookup(name string) (Template, error) {
	if name == "" {
		return Answer, nil
	}
	t, ok := Templates[name]
	if !ok {
		return Template{}, fmt.Errorf("unknown prompt template %q", name)
	}
	return t, nil
}
