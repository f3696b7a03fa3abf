// Package config holds every keyword list, pattern table, prompt, and tuning
// constant the bot pipeline consumes. Services import from here; no inline
// lists in service files.
package config

// DealSpecificKeywords mark questions that require a known deal before
// answering. Without deal context the bot asks "which deal?" first.
var DealSpecificKeywords = []string{
	"structure", "minimum", "ticket", "fee", "fees", "carry",
	"management fee", "payment", "close", "closing", "timeline",
	"valuation", "revenue", "ipo", "lock", "lock-up", "lock up",
	"return", "returns", "share", "equity", "spv", "allocation",
	"upfront", "profit", "capital", "preferred", "common", "secondary",
	"distribution", "price", "cost", "how much", "how long",
	"invest", "investing", "investment", "deal", "terms",
	"when", "deadline", "date", "dates", "schedule",
	"documents", "sign", "dropbox", "wiring", "wire",
	"ebitda", "arr", "growth", "customers",
}

// GeneralKeywords mark questions about ODP itself. No deal context needed.
var GeneralKeywords = []string{
	"hello", "hi", "hey", "how are you",
	"what can you", "what do you", "who are you",
	"what is odp", "open doors", "what deals", "which deals",
	"what opportunities", "what investment", "what do you offer",
	"tell me about", "available deals", "current deals",
}

// MissingInfoSignals are phrases indicating the LLM could not confirm a fact
// from the KB. Any of these in an answer triggers the ask-the-team tier.
var MissingInfoSignals = []string{
	"we don't have",
	"we do not have",
	"not in our knowledge base",
	"not found in our",
	"could you provide",
	"could you share",
	"please provide",
	"please share",
	"i need the following",
	"missing from our knowledge base",
	"not present in our documents",
	"i don't have",
	"i do not have",
}

// QuestionStarters guard the pending-answer check: a message starting with
// one of these is a new question, not a supplied answer.
var QuestionStarters = []string{
	"what", "when", "where", "which", "who", "why", "how",
	"can you", "could you", "do you", "is there", "are there",
	"tell me", "please tell", "please provide", "please share",
	"can we", "would you",
}

// GreetingPatterns are exact-match phrases that are unambiguously social.
var GreetingPatterns = map[string]struct{}{
	"hello": {}, "hi": {}, "hey": {}, "hiya": {}, "howdy": {},
	"good morning": {}, "good afternoon": {}, "good evening": {}, "good day": {},
	"how are you": {}, "how r u": {}, "what's up": {}, "whats up": {}, "sup": {},
	"thanks": {}, "thank you": {}, "thank you!": {}, "thanks!": {}, "cheers": {},
	"bye": {}, "goodbye": {}, "see you": {}, "talk later": {},
	"ok": {}, "okay": {}, "alright": {}, "got it": {}, "noted": {},
	"yes": {}, "no": {}, "sure": {}, "great": {}, "perfect": {}, "sounds good": {},
}

// GreetingStarters are first words that suggest a greeting; the analyzer
// inspects further before deciding.
var GreetingStarters = map[string]struct{}{
	"hello": {}, "hi": {}, "hey": {}, "hiya": {}, "howdy": {}, "good": {},
	"thanks": {}, "thank": {}, "bye": {}, "goodbye": {}, "ok": {}, "okay": {},
	"alright": {},
}

// SocialFillerWords carry no business intent. Stripping them from a
// greeting-starter message tells us whether anything meaningful remains.
var SocialFillerWords = map[string]struct{}{
	"hello": {}, "hi": {}, "hey": {}, "hiya": {}, "howdy": {}, "good": {}, "morning": {},
	"afternoon": {}, "evening": {}, "day": {}, "how": {}, "are": {}, "you": {}, "doing": {},
	"i": {}, "am": {}, "we": {}, "bot": {}, "there": {}, "mate": {}, "sir": {}, "team": {},
	"thanks": {}, "thank": {}, "cheers": {}, "bye": {}, "goodbye": {}, "ok": {}, "okay": {},
	"alright": {}, "sure": {}, "great": {}, "perfect": {}, "noted": {}, "got": {}, "it": {},
	"very": {}, "well": {}, "fine": {}, "nice": {}, "sup": {}, "whats": {}, "up": {},
}

// BusinessKeywords confirm business intent. If any remain after filler
// stripping, the message is not a greeting.
var BusinessKeywords = map[string]struct{}{
	"minimum": {}, "ticket": {}, "investment": {}, "deal": {}, "structure": {},
	"payment": {}, "date": {}, "fee": {}, "fees": {}, "carry": {}, "valuation": {},
	"return": {}, "returns": {}, "fund": {}, "close": {}, "closing": {}, "allocation": {},
	"share": {}, "shares": {}, "price": {}, "wire": {}, "document": {}, "documents": {},
	"sign": {}, "subscription": {}, "information": {}, "details": {}, "lockup": {},
	"lock": {}, "period": {}, "spv": {}, "equity": {}, "preferred": {}, "common": {},
	"distribution": {}, "ebitda": {}, "arr": {}, "revenue": {}, "growth": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "why": {},
	"can you": {}, "could you": {}, "please": {}, "tell me": {}, "explain": {},
	"do you have": {}, "is there": {}, "are there": {}, "how much": {}, "how many": {},
	"how long": {}, "how do": {},
}

// GreetingMaxWordCount caps how long a greeting-starter message can be and
// still count as a greeting.
const GreetingMaxWordCount = 8

// FactExtractorSkipStarters: messages starting with one of these and shorter
// than 30 characters are skipped by the fact extractor without an LLM call.
var FactExtractorSkipStarters = []string{
	"hello", "hi ", "hey", "thanks", "thank you",
	"ok", "okay", "great", "sounds good", "noted",
}

// VagueWords in a question mean it likely needs history to be understood and
// should go through the query rewriter.
var VagueWords = []string{
	"it", "that", "this", "these", "those",
	"they", "their", "them",
	"the company", "the deal", "the investment",
	"same", "also", "too",
}

// MetricOnlyPatterns: short questions naming only a metric with no company
// also need rewriting, e.g. "revenue?".
var MetricOnlyPatterns = []string{
	"revenue", "valuation", "profit", "growth",
	"ebitda", "customers", "users", "employees",
}

// CompanyNames detect whether a short question already names a company.
var CompanyNames = []string{
	"spacex", "anthropic", "tesla", "openai", "google", "amazon",
}
