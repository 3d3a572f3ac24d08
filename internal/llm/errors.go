package llm

import "fmt"

// Kind classifies a translation failure.
type Kind int

const (
	KindRequest Kind = iota + 1
	KindNoChoices
	KindTruncated
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindNoChoices:
		return "no_choices"
	case KindTruncated:
		return "truncated"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// TranslationError is returned when the vision model could not produce a
// usable menu. KindTruncated means the menu was too long for the model's
// output budget and is worth reporting to the user as such.
type TranslationError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *TranslationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

func truncatedError(outputTokens int64) *TranslationError {
	return &TranslationError{
		Kind: KindTruncated,
		Msg: fmt.Sprintf("Response truncated at token limit. Received %d output tokens. "+
			"Menu may be too complex or response too long.", outputTokens),
	}
}
