package chat

import "strings"

// Category labels the kind of enquiry a message was classified as
type Category string

const (
	CategoryFeedback Category = "feedback"
	CategoryQuality  Category = "quality"
	CategoryProducts Category = "products"
	CategoryPricing  Category = "pricing"
	CategoryShipping Category = "shipping"
	CategoryPayments Category = "payments"
	CategoryReturns  Category = "returns"
	CategorySupport  Category = "support"
	CategoryAbout    Category = "about"
	CategoryGreeting Category = "greeting"
	CategoryThanks   Category = "thanks"
	CategoryFallback Category = "fallback"
)

// Context is the per-user state the classifier may consult. It is supplied
// by the caller; the classifier itself holds no state.
type Context struct {
	// RecentProductNames lists product names from the user's most recent
	// completed order, empty when the user has no purchases.
	RecentProductNames []string
}

// HasPurchases returns true when the user has at least one completed order
func (c Context) HasPurchases() bool {
	return len(c.RecentProductNames) > 0
}

// Reply is a classified response
type Reply struct {
	Category Category
	Text     string
}

// WelcomeMessage is the greeting shown when a chat session opens
const WelcomeMessage = "Hello! Welcome to SmartStore! I'm here to help you with any questions about our products, services, or feedback. How can I assist you today?"

type rule struct {
	category Category
	match    func(msg string) bool
	respond  func(ctx Context) string
}

// rules is the ordered response table; the first matching rule wins.
var rules = []rule{
	{
		category: CategoryFeedback,
		match:    anyOf("feedback", "review", "complaint", "suggestion"),
		respond: func(ctx Context) string {
			if ctx.HasPurchases() {
				return "Thank you for your valuable feedback! I can see you recently purchased: " +
					strings.Join(ctx.RecentProductNames, ", ") +
					". Your feedback has been recorded and will be forwarded to our product team. " +
					"Our customer success team will review your comments within 24 hours. " +
					"Is there anything specific about your recent purchase you'd like to highlight?"
			}
			return "Thank you for your feedback! We value all customer input as it helps us improve our services. " +
				"Your comments have been noted. Feel free to browse our products and share your thoughts after making a purchase!"
		},
	},
	{
		category: CategoryQuality,
		match: func(msg string) bool {
			return anyOf("quality", "satisfied", "happy", "disappointed", "excellent", "poor", "good", "bad")(msg) &&
				anyOf("product", "purchase", "bought", "order")(msg)
		},
		respond: func(ctx Context) string {
			if ctx.HasPurchases() {
				return "Thank you for sharing your experience with our products! Your satisfaction is our top priority. " +
					"Your feedback has been logged and our quality assurance team will follow up if needed. " +
					"If you're not satisfied, we offer hassle-free returns within 30 days. " +
					"Would you like assistance with an exchange, return, or have suggestions for improvement?"
			}
			return "We appreciate your interest in product quality! While I don't see any recent purchases from your account, " +
				"we're always committed to providing the best products. Feel free to share any questions about our quality standards!"
		},
	},
	{
		category: CategoryProducts,
		match:    anyOf("product", "item", "what do you sell"),
		respond: staticReply("We offer a wide range of products including electronics, clothing, home goods, and more! " +
			"You can browse our complete catalog on the Products page. Is there a specific category you're interested in?"),
	},
	{
		category: CategoryPricing,
		match:    anyOf("price", "cost", "how much"),
		respond: staticReply("Our products are competitively priced! You can view detailed pricing on each product page. " +
			"We also offer regular discounts and promotions. Check our Products section for current prices and deals."),
	},
	{
		category: CategoryShipping,
		match:    anyOf("shipping", "delivery", "when will i get"),
		respond: staticReply("We offer fast and reliable shipping! Standard delivery takes 3-5 business days, and express " +
			"delivery is available for urgent orders. Shipping costs are calculated at checkout based on your location."),
	},
	{
		category: CategoryPayments,
		match:    anyOf("payment", "pay", "checkout"),
		respond: staticReply("We accept secure payments through Razorpay, including credit/debit cards, net banking, UPI, " +
			"and digital wallets. All transactions are encrypted and secure."),
	},
	{
		category: CategoryReturns,
		match:    anyOf("return", "exchange", "refund"),
		respond: staticReply("We have a 30-day return policy for most items. Products should be in original condition with " +
			"tags attached. Refunds are processed within 5-7 business days after we receive the returned item."),
	},
	{
		category: CategorySupport,
		match:    anyOf("help", "support", "problem", "issue"),
		respond: staticReply("I'm here to help! You can ask me about products, orders, shipping, payments, or any other " +
			"questions. For urgent issues, you can also contact our support team."),
	},
	{
		category: CategoryAbout,
		match:    anyOf("about", "company", "store", "who are you"),
		respond: staticReply("SmartStore is your trusted online shopping destination! We're committed to providing quality " +
			"products at great prices with excellent customer service."),
	},
	{
		category: CategoryGreeting,
		match:    anyOf("hi", "hello", "hey"),
		respond: staticReply("Hello! Great to have you here at SmartStore! I'm your virtual assistant. Feel free to ask me " +
			"anything about our products, services, or if you need help with your shopping experience."),
	},
	{
		category: CategoryThanks,
		match:    anyOf("thank", "thanks"),
		respond:  staticReply("You're very welcome! Is there anything else I can help you with today?"),
	},
}

const fallbackText = "I understand you're asking about that! While I try to help with most questions, I might need a bit " +
	"more context. Could you tell me more about what you're looking for? I can help with product information, orders, " +
	"shipping, payments, and general store inquiries."

// Classify matches a message against the ordered rule list and returns the
// first matching canned reply. It is a pure function: no learning, no
// dialogue state.
func Classify(message string, ctx Context) Reply {
	msg := strings.ToLower(message)

	for _, r := range rules {
		if r.match(msg) {
			return Reply{Category: r.category, Text: r.respond(ctx)}
		}
	}

	return Reply{Category: CategoryFallback, Text: fallbackText}
}

func anyOf(keywords ...string) func(string) bool {
	return func(msg string) bool {
		for _, kw := range keywords {
			if strings.Contains(msg, kw) {
				return true
			}
		}
		return false
	}
}

func staticReply(text string) func(Context) string {
	return func(Context) string { return text }
}
