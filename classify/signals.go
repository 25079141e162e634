package classify

// A signal is a fixed-weight substring pattern. Scores are sums of
// signal weights; no single keyword decides a classification on its
// own (except the heavyweight domain signals, which are meant to).

// Junk signal groups. Each group contributes at most once, except the
// counted groups which scale with the number of distinct matches.
var (
	junkSenderPatterns = []string{
		"newsletter@", "noreply@", "no-reply@", "donotreply@",
		"promo@", "marketing@", "offers@", "sales@", "deals@",
	}

	optOutPhrases = []string{
		"unsubscribe", "opt out", "opt-out",
		"manage preferences", "stop receiving these emails",
	}

	spamSubjectPhrases = []string{
		"limited time", "act now", "don't miss", "last chance",
		"expires soon", "free gift", "winner", "congratulations",
		"exclusive deal", "claim now",
	}

	promoBodyPhrases = []string{
		"% off", "discount", "coupon", "promo code", "flash sale",
		"buy now", "free shipping", "clearance", "limited time offer",
	}

	// Subject-side and sender-side newsletter markers are separate
	// sets: "newsletter@..." senders already score under
	// junkSenderPatterns and must not double-count here.
	newsletterSubjectMarkers = []string{"newsletter", "digest", "weekly roundup", "issue #"}
	newsletterSenderMarkers  = []string{"digest@", "list@", "mailinglist", "bulletin@", "weekly@"}
)

const junkThreshold = 5

type weightedPattern struct {
	pattern string
	weight  int
}

// categorySignals scores one category: sender-domain signals are
// immediate qualifiers (weight 10), known tool/platform senders carry
// 3-5, strong keywords count double, moderate keywords count single.
type categorySignals struct {
	category  Category
	domains   []weightedPattern // matched against sender
	tools     []weightedPattern // matched against sender
	strong    []string          // matched against subject+body, weight 2 each
	moderate  []string          // matched against subject+body, weight 1 each
	threshold int
}

// Evaluated in this exact precedence order; the first category whose
// score meets its threshold wins.
var categoryOrder = []categorySignals{
	{
		category: CategoryWork,
		tools: []weightedPattern{
			{"@slack.com", 5}, {"@atlassian.net", 5}, {"@salesforce.com", 4},
			{"@github.com", 4}, {"@asana.com", 4}, {"@notion.so", 4},
			{"@zoom.us", 3}, {"@linkedin.com", 3},
		},
		strong: []string{
			"meeting", "project", "deadline", "standup", "client",
			"invoice", "sprint", "quarterly", "payroll",
		},
		moderate: []string{
			"team", "report", "schedule", "review", "office",
			"manager", "agenda", "budget",
		},
		threshold: 4,
	},
	{
		category: CategorySchool,
		domains: []weightedPattern{
			{".edu", 10}, {".ac.", 10},
		},
		tools: []weightedPattern{
			{"@instructure.com", 5}, {"canvas", 4}, {"blackboard", 4},
			{"gradescope", 4}, {"piazza", 4}, {"coursera", 3},
		},
		strong: []string{
			"assignment", "homework", "exam", "syllabus", "lecture",
			"professor", "midterm", "semester", "tuition",
		},
		moderate: []string{
			"class", "course", "campus", "student", "quiz", "grade", "study",
		},
		threshold: 4,
	},
	{
		category: CategoryEvents,
		tools: []weightedPattern{
			{"@eventbrite.com", 5}, {"@meetup.com", 4}, {"@calendly.com", 4},
			{"ticketmaster", 4}, {"@lu.ma", 3},
		},
		strong: []string{
			"rsvp", "you're invited", "invitation", "webinar",
			"conference", "register now",
		},
		moderate: []string{
			"event", "venue", "attend", "tickets", "session", "workshop",
		},
		threshold: 4,
	},
	{
		category: CategoryOffers,
		tools: []weightedPattern{
			{"@amazon.com", 4}, {"@ebay.com", 3}, {"bestbuy", 3},
			{"doordash", 3}, {"grubhub", 3}, {"@uber.com", 3},
		},
		strong: []string{
			"% off", "discount code", "coupon", "flash sale", "free shipping",
		},
		moderate: []string{
			"deal", "offer", "save", "promo", "sale", "reward",
		},
		threshold: 4,
	},
}

var urgencyKeywords = []string{
	"urgent", "asap", "immediately", "deadline today", "critical",
	"action required", "emergency", "right away",
}
