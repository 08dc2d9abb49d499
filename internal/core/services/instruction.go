package services

import (
	"strconv"
	"strings"
)

// Markers delimiting the user request inside the instruction text.
const (
	UserRequestLabel = "User request:"
	RephrasedCue     = "Rephrased:"
)

const roleDirective = "You are a professional prompt engineer. Your task is to optimize the " +
	"following user request into a clear, well-structured, and effective prompt."

const criteriaHeader = "The rephrased prompt must satisfy every one of these criteria:"

const refineDirective = "Before answering, silently critique your draft against each criterion " +
	"above and refine it until it meets all of them. Do not show the critique."

const outputDirective = "Return ONLY the rephrased prompt. Do not add commentary, explanations " +
	"or a preamble, and do not repeat these instructions."

type criterion struct {
	name   string
	detail string
}

var criteria = []criterion{
	{"Clarity", "state the goal unambiguously so the reader knows exactly what is asked"},
	{"Specificity", "break the request into specific, actionable steps"},
	{"Context", "supply the background the model needs to answer well"},
	{"Structure", "organise the prompt in a logical order with clear sections"},
	{"Conciseness", "use precise language and remove filler"},
	{"Examples", "include illustrative examples where they help"},
	{"Constraints", "spell out limits such as length, scope, audience and style"},
	{"Engagement", "phrase the prompt so it invites a thorough, thoughtful answer"},
	{"Iterative refinement", "suggest how the answer could be checked and improved"},
	{"Error handling", "say how to proceed when the input is ambiguous or incomplete"},
	{"Adaptive tone", "match the tone to the task and audience"},
	{"Bias mitigation", "ask for balanced, fair and neutral treatment of the subject"},
	{"Output format", "define the expected format of the answer explicitly"},
	{"Decomposition", "ask for step-by-step reasoning on complex tasks"},
	{"Domain priming", "name the domain knowledge or expertise the answer should draw on"},
	{"Meta-cognition", "encourage the model to explain its reasoning"},
	{"Ethics", "ask the model to consider the ethical impact of its answer"},
	{"Creativity", "leave room for creative solutions where appropriate"},
}

// BuildInstruction composes the instruction text sent to the completion
// endpoint. The user text is embedded once, verbatim and unescaped, between
// the "User request:" label and the trailing "Rephrased:" cue.
//
// BuildInstruction is pure: the same input always yields the same output.
func BuildInstruction(userText string) string {
	var b strings.Builder
	b.Grow(2048 + len(userText))

	b.WriteString(roleDirective)
	b.WriteString("\n\n")
	b.WriteString(criteriaHeader)
	b.WriteString("\n")
	for i, c := range criteria {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(c.name)
		b.WriteString(": ")
		b.WriteString(c.detail)
		b.WriteString(".\n")
	}
	b.WriteString("\n")
	b.WriteString(refineDirective)
	b.WriteString("\n\n")
	b.WriteString(outputDirective)
	b.WriteString("\n\n")
	b.WriteString(UserRequestLabel)
	b.WriteString(` "`)
	b.WriteString(userText)
	b.WriteString("\"\n")
	b.WriteString(RephrasedCue)
	b.WriteString("\n")

	return b.String()
}
