package config

// KeyMapping maps question phrase substrings to a canonical snake_case
// fact key. First match wins. Used as the last-resort fallback when no
// FactPattern fires.
type KeyMapping struct {
	Phrases []string
	Key     string
}

var KeyMappings = []KeyMapping{
	{
		Phrases: []string{"price per share", "share price", "stock price", "per share",
			"price of share", "current price", "cost per share"},
		Key: "share_price",
	},
	{
		Phrases: []string{"minimum ticket", "min ticket", "check size", "minimum check",
			"minimum investment", "min check"},
		Key: "minimum_ticket",
	},
	{
		Phrases: []string{"payment date", "wire date", "payment deadline", "payment schedule"},
		Key:     "payment_dates",
	},
	{
		Phrases: []string{"management fee", "carry", "carried interest"},
		Key:     "fees_and_carry",
	},
	{
		Phrases: []string{"lock-up", "lockup", "lock up", "holding period"},
		Key:     "lockup_period",
	},
	{
		Phrases: []string{"closing date", "close date", "final close"},
		Key:     "closing_date",
	},
	{
		Phrases: []string{"valuation", "company value", "pre-money", "post-money"},
		Key:     "valuation",
	},
	{
		Phrases: []string{"irr", "internal rate of return"},
		Key:     "irr",
	},
	{
		Phrases: []string{"allocation", "available allocation"},
		Key:     "allocation",
	},
	{
		Phrases: []string{"distribution", "distribution schedule"},
		Key:     "distributions",
	},
	{
		Phrases: []string{"return", "expected return", "target return"},
		Key:     "expected_return",
	},
	{
		Phrases: []string{"fee", "fees"},
		Key:     "fees",
	},
	{
		Phrases: []string{"structure", "investment structure"},
		Key:     "deal_structure",
	},
}

// FactPattern drives atomic fact decomposition of multi-part answers.
// TopicKeywords confirm the topic was asked; AnswerSignals locate the value
// inside the answer; QuestionTemplate is the focused question stored for
// future similarity search and must contain {deal_name}.
type FactPattern struct {
	TopicKeywords    []string
	AnswerSignals    []string
	QuestionTemplate string
}

var FactPatterns = []FactPattern{
	{
		TopicKeywords: []string{"minimum", "ticket", "check size", "min ticket", "minimum ticket",
			"minimum check", "min check", "minimum investment"},
		AnswerSignals: []string{"minimum ticket", "min ticket", "minimum check", "min check",
			"minimum is", "minimum would be", "minimum:", "ticket is",
			"ticket would be", "ticket:", "check size is", "check size would be",
			"check size:", "minimum investment"},
		QuestionTemplate: "What is the minimum ticket size for {deal_name}?",
	},
	{
		TopicKeywords: []string{"payment date", "payment dates", "wire date", "wire dates",
			"payment deadline", "when to pay", "payment schedule"},
		AnswerSignals: []string{"payment date", "payment dates", "wire date", "wire by",
			"payment is", "payment would be", "payment:", "dates would be",
			"date would be", "dates are", "date is"},
		QuestionTemplate: "What are the payment dates for {deal_name}?",
	},
	{
		TopicKeywords: []string{"structure", "investment structure", "deal structure",
			"how is it structured", "investing structure"},
		AnswerSignals: []string{"structure is", "structure would be", "structured as",
			"structured through", "investment structure"},
		QuestionTemplate: "What is the investment structure for {deal_name}?",
	},
	{
		TopicKeywords: []string{"fee", "fees", "management fee", "carry", "carried interest"},
		AnswerSignals: []string{"fee is", "fees are", "management fee", "carry is",
			"carry would be", "carried interest"},
		QuestionTemplate: "What are the fees and carry for {deal_name}?",
	},
	{
		TopicKeywords: []string{"lockup", "lock-up", "lock up", "lock period", "holding period"},
		AnswerSignals: []string{"lockup is", "lock-up is", "lock up is", "lockup period",
			"holding period", "locked for", "locked up for"},
		QuestionTemplate: "What is the lock-up period for {deal_name}?",
	},
	{
		TopicKeywords: []string{"closing date", "close date", "deadline", "final close",
			"closing deadline"},
		AnswerSignals: []string{"closing date", "close date", "deadline is", "closes on",
			"closing on", "final close"},
		QuestionTemplate: "What is the closing date for {deal_name}?",
	},
	{
		TopicKeywords: []string{"valuation", "pre-money", "post-money", "company valuation"},
		AnswerSignals: []string{"valuation is", "valued at", "valuation:", "pre-money", "post-money"},
		QuestionTemplate: "What is the valuation of {deal_name}?",
	},
	{
		TopicKeywords: []string{"price per share", "share price", "stock price", "per share",
			"price of share", "share cost", "price now", "current price",
			"cost per share"},
		AnswerSignals: []string{"share price is", "share price:", "price per share is",
			"price per share:", "price is", "price would be", "priced at",
			"currently priced", "trading at", "cost is", "price now"},
		QuestionTemplate: "What is the current share price for {deal_name}?",
	},
	{
		TopicKeywords: []string{"allocation", "how much is available", "available allocation",
			"total allocation", "remaining allocation"},
		AnswerSignals: []string{"allocation is", "allocation:", "available allocation",
			"total allocation", "we have", "remaining is"},
		QuestionTemplate: "What is the available allocation for {deal_name}?",
	},
	{
		TopicKeywords: []string{"return", "irr", "multiple", "expected return", "target return",
			"projected return"},
		AnswerSignals: []string{"return is", "irr is", "expected return", "target return",
			"projected return", "multiple is", "multiple would be"},
		QuestionTemplate: "What is the expected return or IRR for {deal_name}?",
	},
	{
		TopicKeywords: []string{"distribution", "distributions", "distribution schedule",
			"when are distributions", "distribution frequency"},
		AnswerSignals: []string{"distribution is", "distributions are", "distributed",
			"distribution schedule", "distributions would be"},
		QuestionTemplate: "What is the distribution schedule for {deal_name}?",
	},
}
