package voice

import (
	"strings"
	"time"
	"unicode"

	"booking-service/data"
)

// Parser maps free-form utterances onto booking intents. It is scoped
// to the current step and to which draft fields are already filled;
// that view is passed in on every call so the parser itself carries no
// hidden cross-call state. It returns at most one intent per utterance;
// anything it cannot place yields a clarification prompt instead of a
// guess.
type Parser struct {
	properties data.Properties
}

func NewParser(properties data.Properties) *Parser {
	return &Parser{properties: properties}
}

// Parse returns the recognized intent, or nil plus a clarification
// prompt when the utterance did not match anything for the step.
func (p *Parser) Parse(step data.BookingStep, filled data.Filled, utterance string, now time.Time) (*data.Intent, string) {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		return nil, p.clarify(step)
	}

	if intent := parseNavigation(step, text); intent != nil {
		return intent, ""
	}

	switch step {
	case data.StepPropertySelection:
		return p.parseProperty(text)
	case data.StepDateSelection:
		return p.parseDate(filled, text, now)
	case data.StepGuestDetails:
		return p.parseGuestDetails(filled, utterance)
	}
	return nil, p.clarify(step)
}

// parseNavigation handles the step-independent movement words.
func parseNavigation(step data.BookingStep, text string) *data.Intent {
	switch text {
	case "back", "go back":
		intent := data.GoBack()
		return &intent
	case "next", "continue":
		intent := data.Advance()
		return &intent
	case "confirm", "book", "book it":
		if step == data.StepGuestDetails {
			intent := data.Confirm()
			return &intent
		}
	}
	return nil
}

func (p *Parser) parseProperty(text string) (*data.Intent, string) {
	for _, property := range p.properties {
		if strings.Contains(text, strings.ToLower(property.Name)) {
			intent := data.SelectProperty(property.ID)
			return &intent, ""
		}
		for _, alias := range property.Aliases {
			if strings.Contains(text, alias) {
				intent := data.SelectProperty(property.ID)
				return &intent, ""
			}
		}
	}
	return nil, p.clarify(data.StepPropertySelection)
}

// parseDate recognizes a small fixed vocabulary resolved against the
// caller's clock. The first recognized date becomes the check-in, the
// next one the check-out.
func (p *Parser) parseDate(filled data.Filled, text string, now time.Time) (*data.Intent, string) {
	var day data.Date
	switch {
	case strings.Contains(text, "today"):
		day = data.DateOf(now)
	case strings.Contains(text, "tomorrow"):
		day = data.DateOf(now).AddDays(1)
	case strings.Contains(text, "next week"):
		day = data.DateOf(now).AddDays(7)
	default:
		if parsed, err := data.ParseDate(text); err == nil {
			day = parsed
		} else {
			return nil, p.clarify(data.StepDateSelection)
		}
	}

	if !filled.CheckIn {
		intent := data.SetCheckIn(day)
		return &intent, ""
	}
	intent := data.SetCheckOut(day)
	return &intent, ""
}

// parseGuestDetails decides what the utterance is expected to mean from
// what is still missing: name first, then phone, then email.
func (p *Parser) parseGuestDetails(filled data.Filled, utterance string) (*data.Intent, string) {
	if !filled.Name {
		tokens := strings.Fields(utterance)
		if len(tokens) >= 2 {
			intent := data.SetGuestField(data.FieldFullName, strings.Join(tokens, " "))
			return &intent, ""
		}
		return nil, "Please tell me your first and last name."
	}

	if !filled.Phone {
		if digits := collectDigits(utterance); len(digits) >= 6 {
			intent := data.SetGuestField(data.FieldPhone, digits)
			return &intent, ""
		}
		return nil, "Please tell me your phone number."
	}

	if !filled.Email {
		if email, ok := extractEmail(utterance); ok {
			intent := data.SetGuestField(data.FieldEmail, email)
			return &intent, ""
		}
		return nil, "Please tell me your email address."
	}

	return nil, p.clarify(data.StepGuestDetails)
}

// collectDigits concatenates every digit run in the utterance, so
// "six one seven, 555 0199" style dictation with grouped digits still
// forms one number.
func collectDigits(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// extractEmail finds an @-containing token, substituting the spoken
// "at" and "dot" forms first.
func extractEmail(text string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.ReplaceAll(normalized, " at ", "@")
	normalized = strings.ReplaceAll(normalized, " dot ", ".")
	for _, token := range strings.Fields(normalized) {
		atIndex := strings.Index(token, "@")
		if atIndex > 0 && atIndex < len(token)-1 {
			return token, true
		}
	}
	return "", false
}

func (p *Parser) clarify(step data.BookingStep) string {
	switch step {
	case data.StepPropertySelection:
		names := make([]string, 0, len(p.properties))
		for _, property := range p.properties {
			names = append(names, property.Name)
		}
		return "Which place would you like? You can say " + strings.Join(names, " or ") + "."
	case data.StepDateSelection:
		return "When would you like to stay? You can say today, tomorrow or next week."
	case data.StepGuestDetails:
		return "Please tell me your name, phone number and email."
	}
	return "Sorry, I did not catch that."
}
