package assistant

import "regexp"

// AutoResponse answers common greetings without running the full engine.
type AutoResponse struct {
	Trigger  *regexp.Regexp
	Response string
}

// DefaultAutoResponses are checked before intent analysis; the first match
// short-circuits the reply.
var DefaultAutoResponses = []AutoResponse{
	{
		Trigger:  regexp.MustCompile(`(?i)\b(hello|hi|hey)\b`),
		Response: "Hello! Thank you for contacting us. How can I help you today?",
	},
	{
		Trigger:  regexp.MustCompile(`(?i)thank you|thanks`),
		Response: "You're welcome! Feel free to reach out if you need anything else.",
	},
	{
		Trigger:  regexp.MustCompile(`(?i)\b(hours|open|close)\b`),
		Response: "We're open Monday-Saturday, 9AM-8PM, and Sunday 12PM-6PM. How can I assist you?",
	},
}

// MatchAutoResponse returns the canned reply for a message, if any.
func MatchAutoResponse(message string) (string, bool) {
	for _, ar := range DefaultAutoResponses {
		if ar.Trigger.MatchString(message) {
			return ar.Response, true
		}
	}
	return "", false
}
