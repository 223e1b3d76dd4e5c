package domain

// IntentKind discriminates the generator's declared intent.
type IntentKind string

const (
	IntentRunQuery    IntentKind = "run_query"
	IntentDirectReply IntentKind = "direct_reply"
	IntentMalformed   IntentKind = "malformed"
)

// Intent is the typed result of parsing a generator completion.
type Intent struct {
	Kind IntentKind
	// ID is the correlation id echoed by the generator, if any.
	ID string
	// Query is set for IntentRunQuery.
	Query string
	// Text is set for IntentDirectReply.
	Text string
}
