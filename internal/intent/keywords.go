package intent

// Keyword tables driving the local fallback parser. They are deliberately
// small and fixed; the LLM path carries the long tail.

// numberWords maps spelled-out quantities to values.
var numberWords = map[string]int{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
	"six":   6,
	"seven": 7,
	"eight": 8,
	"nine":  9,
	"ten":   10,
}

// sizeKeywords are recognized size tokens, abbreviations included.
var sizeKeywords = map[string]bool{
	"xs":     true,
	"s":      true,
	"m":      true,
	"l":      true,
	"xl":     true,
	"xxl":    true,
	"small":  true,
	"medium": true,
	"large":  true,
}

// colorKeywords are recognized color tokens.
var colorKeywords = map[string]bool{
	"black":  true,
	"white":  true,
	"red":    true,
	"blue":   true,
	"green":  true,
	"yellow": true,
	"orange": true,
	"purple": true,
	"pink":   true,
	"brown":  true,
	"gray":   true,
	"grey":   true,
	"navy":   true,
	"beige":  true,
	"cream":  true,
	"gold":   true,
	"silver": true,
	"teal":   true,
	"maroon": true,
	"olive":  true,
}

// inquiryPhrases mark price or availability questions.
var inquiryPhrases = []string{
	"how much",
	"what's the price",
	"whats the price",
	"what is the price",
	"price of",
	"cost of",
	"how expensive",
	"do you have",
	"is it available",
	"in stock",
}

// purchasePhrases mark commitment to buy.
var purchasePhrases = []string{
	"i'll take",
	"ill take",
	"i will take",
	"i want",
	"i need",
	"buy",
	"purchase",
	"order",
	"add to cart",
	"i'll get",
	"ill get",
}

// shippingPhrases mark delivery and tracking questions.
var shippingPhrases = []string{
	"ship",
	"shipping",
	"shipped",
	"track",
	"tracking",
	"delivery",
	"deliver",
	"arrive",
	"when will it get here",
}

// fillerWords are dropped from an extracted product phrase before it is
// treated as a product name.
var fillerWords = map[string]bool{
	"the":    true,
	"a":      true,
	"an":     true,
	"some":   true,
	"of":     true,
	"in":     true,
	"size":   true,
	"color":  true,
	"colour": true,
	"for":    true,
	"me":     true,
	"my":     true,
	"please": true,
	"x":      true,
	"pcs":    true,
	"pieces": true,
	"units":  true,
	"pairs":  true,
}
