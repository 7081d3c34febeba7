package tracker

import "math/rand/v2"

var quotes = []string{
	"The only bad workout is the one that didn't happen.",
	"Your future self will thank you.",
	"Small progress is still progress.",
	"Make yourself proud.",
	"Trust the process.",
}

// RandomQuote picks a motivational quote. Every render may pick a different one.
func RandomQuote() string {
	return quotes[rand.IntN(len(quotes))]
}
