package entity

// ErrorKind tags how an answer deviated from the normal path
type ErrorKind string

const (
	ErrorKindNone                  ErrorKind = ""
	ErrorKindInvalidQuery          ErrorKind = "InvalidQuery"
	ErrorKindNoRelevantInformation ErrorKind = "NoRelevantInformation"
	ErrorKindContextTruncated      ErrorKind = "ContextTruncated"
	ErrorKindGenerationTransient   ErrorKind = "GenerationTransient"
	ErrorKindGenerationFatal       ErrorKind = "GenerationFatal"
	ErrorKindIndexUnavailable      ErrorKind = "IndexUnavailable"
)

const (
	RefusalMessage = "I can only answer factual questions about HDFC mutual fund schemes " +
		"(expense ratio, minimum SIP, exit load, NAV, tax implications). " +
		"I cannot provide investment advice or answer portfolio-related questions."

	NoInformationMessage = "I couldn't find relevant information to answer your question. " +
		"Please try rephrasing or asking about expense ratio, minimum SIP, exit load, NAV, " +
		"or tax implications for HDFC mutual fund schemes."

	DegradedMarker = "⚠️ LLM temporarily unavailable, showing retrieved information:"
)

// Answer is what every ask returns, including refusals and fallbacks
type Answer struct {
	Text        string
	Sources     []string
	Degraded    bool
	Error       ErrorKind
	Warnings    []ErrorKind
	LastUpdated string
	Model       string
}

func (a *Answer) HasWarning(kind ErrorKind) bool {
	for _, w := range a.Warnings {
		if w == kind {
			return true
		}
	}
	return false
}

// RefusalAnswer is returned for questions that fail validation
func RefusalAnswer() *Answer {
	return &Answer{
		Text:    RefusalMessage,
		Sources: []string{},
		Error:   ErrorKindInvalidQuery,
	}
}

// NoInformationAnswer is returned when retrieval found nothing usable
func NoInformationAnswer() *Answer {
	return &Answer{
		Text:    NoInformationMessage,
		Sources: []string{},
		Error:   ErrorKindNoRelevantInformation,
	}
}
