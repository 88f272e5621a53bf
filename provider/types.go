package provider

import "strings"

// SystemDirective is the fixed system instruction sent with every sculpt.
const SystemDirective = "You are a Vibe Sculptor. Update the provided code/text state based on instructions. Return ONLY the updated state."

// Request is a single sculpt call as seen by a backend.
type Request struct {
	// SystemPrompt is the system instruction. NewSculptRequest sets it to
	// SystemDirective.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Model is the backend model identifier. Empty lets the backend pick
	// its own default.
	Model string `json:"model,omitempty"`

	// State is the buffer content to transform, sent verbatim.
	State string `json:"state"`

	// Instruction is the natural-language command, sent verbatim.
	Instruction string `json:"instruction"`
}

// NewSculptRequest builds the request for one sculpt call from a config
// snapshot. The model falls back to cfg.ResolvedModel().
func NewSculptRequest(cfg Config, state, instruction string) Request {
	return Request{
		SystemPrompt: SystemDirective,
		Model:        cfg.ResolvedModel(),
		State:        state,
		Instruction:  instruction,
	}
}

// UserContent renders the user message for the request. State and
// instruction are placed in labelled sections so the model cannot confuse
// buffer content with the command.
func (r Request) UserContent() string {
	return UserContent(r.State, r.Instruction)
}

// UserContent renders the labelled state/instruction composite.
func UserContent(state, instruction string) string {
	var b strings.Builder
	b.Grow(len(state) + len(instruction) + 32)
	b.WriteString("Current State:\n")
	b.WriteString(state)
	b.WriteString("\n\nInstruction: ")
	b.WriteString(instruction)
	return b.String()
}

// StreamChunk is one incremental piece of a streamed reply.
type StreamChunk struct {
	// Content is the text delta. It may be empty.
	Content string `json:"content,omitempty"`

	// OutputTokens is the running total of output tokens generated so far
	// for the whole response, when the backend reports it. Nil otherwise.
	OutputTokens *int `json:"output_tokens,omitempty"`

	// Done indicates this is the final chunk of a successful stream.
	Done bool `json:"done"`

	// Error is non-nil if streaming failed. It is always the last chunk.
	Error error `json:"-"`
}

// IntPtr returns a pointer to n. Backends use it to fill OutputTokens.
func IntPtr(n int) *int {
	return &n
}
