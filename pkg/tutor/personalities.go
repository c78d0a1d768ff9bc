package tutor

import "strings"

type Voice string

const (
	VoiceMale   Voice = "male"
	VoiceFemale Voice = "female"
)

// DefaultSubject is used whenever a subject key is unknown.
const DefaultSubject = "math"

// Personality describes one subject tutor offered in the demo.
type Personality struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	Subject       string `json:"subject"`
	Description   string `json:"description"`
	DefaultTopic  string `json:"default_topic"`
	Personality   string `json:"personality"`
	TeachingStyle string `json:"teaching_style"`
	Voice         Voice  `json:"voice"`
}

// subjectOrder keeps listings stable.
var subjectOrder = []string{"math", "science", "english", "history", "coding", "social science", "economics"}

var personalities = map[string]Personality{
	"math": {
		Key:           "math",
		Name:          "Math Tutorly",
		Subject:       "Mathematics",
		Description:   "Your enthusiastic math companion who makes numbers come alive",
		DefaultTopic:  "Quadratic Equations and Problem Solving",
		Personality:   "Patient, encouraging, and loves breaking down complex problems step-by-step",
		TeachingStyle: "Uses real-world examples and visual analogies to make math concepts clear",
		Voice:         VoiceMale,
	},
	"science": {
		Key:           "science",
		Name:          "Science Tutorly",
		Subject:       "Science",
		Description:   "Your curious science guide exploring the wonders of the natural world",
		DefaultTopic:  "Physics: Forces and Motion",
		Personality:   "Curious, experimental, and passionate about discovery",
		TeachingStyle: "Connects scientific concepts to everyday phenomena and encourages hands-on thinking",
		Voice:         VoiceFemale,
	},
	"english": {
		Key:           "english",
		Name:          "English Tutorly",
		Subject:       "English Literature",
		Description:   "Your literary companion who brings stories and writing to life",
		DefaultTopic:  "Creative Writing and Literary Analysis",
		Personality:   "Creative, insightful, and loves exploring the power of words",
		TeachingStyle: "Uses storytelling and practical examples to improve reading and writing skills",
		Voice:         VoiceFemale,
	},
	"history": {
		Key:           "history",
		Name:          "History Tutorly",
		Subject:       "History",
		Description:   "Your time-traveling guide through the fascinating stories of the past",
		DefaultTopic:  "World War II and Its Global Impact",
		Personality:   "Storytelling, engaging, and connects past events to modern times",
		TeachingStyle: "Makes history come alive through narratives and connections to current events",
		Voice:         VoiceMale,
	},
	"coding": {
		Key:           "coding",
		Name:          "Code Tutorly",
		Subject:       "Computer Science",
		Description:   "Your coding mentor who makes programming fun and accessible",
		DefaultTopic:  "JavaScript Fundamentals and Web Development",
		Personality:   "Logical, patient, and loves problem-solving",
		TeachingStyle: "Teaches through practical examples and real-world coding projects",
		Voice:         VoiceMale,
	},
	"social science": {
		Key:           "social science",
		Name:          "Social Science Tutorly",
		Subject:       "Social Science",
		Description:   "Your guide to understanding society and its structures",
		DefaultTopic:  "Introduction to Sociology",
		Personality:   "Analytical, empathetic, and loves discussing social issues",
		TeachingStyle: "Uses real-world case studies and encourages critical thinking",
		Voice:         VoiceFemale,
	},
	"economics": {
		Key:           "economics",
		Name:          "Economics Tutorly",
		Subject:       "Economics",
		Description:   "Your expert on the economy, markets, and financial literacy",
		DefaultTopic:  "Supply and Demand",
		Personality:   "Pragmatic, insightful, and loves explaining complex economic concepts",
		TeachingStyle: "Uses current events and practical examples to teach economics",
		Voice:         VoiceMale,
	},
}

var topics = map[string][]string{
	"math": {
		"Quadratic Equations and Problem Solving",
		"Calculus: Derivatives and Integrals",
		"Geometry: Angles and Triangles",
		"Statistics and Probability",
		"Algebra: Linear Equations",
		"Trigonometry: Sine, Cosine, and Tangent",
	},
	"science": {
		"Chemical Reactions and the Periodic Table",
		"Physics: Forces and Motion",
		"Biology: Cell Structure and Function",
		"Chemistry: Atomic Structure",
		"Earth Science: Weather and Climate",
		"Astronomy: Solar System and Stars",
	},
	"english": {
		"Creative Writing and Literary Analysis",
		"Grammar: Sentence Structure and Punctuation",
		"Poetry: Forms and Literary Devices",
		"Essay Writing: Persuasive and Analytical",
		"Reading Comprehension Strategies",
		"Vocabulary Building and Word Usage",
	},
	"history": {
		"World War II and Its Global Impact",
		"American Revolution: Causes and Effects",
		"Ancient Civilizations: Egypt and Rome",
		"Civil Rights Movement in America",
		"Renaissance: Art, Science, and Culture",
		"Cold War: Tensions and Consequences",
	},
	"coding": {
		"JavaScript Fundamentals and Web Development",
		"Python Programming: Basics to Advanced",
		"HTML and CSS: Building Web Pages",
		"React: Creating Interactive Applications",
		"Data Structures and Algorithms",
		"Database Design and SQL Queries",
	},
	"social science": {
		"Introduction to Sociology",
		"Cultural Anthropology",
		"Political Science Basics",
		"Introduction to Psychology",
		"Civics and Government",
	},
	"economics": {
		"Supply and Demand",
		"Microeconomics vs. Macroeconomics",
		"GDP and Economic Growth",
		"Inflation and Unemployment",
		"International Trade",
	},
}

// Normalize lower-cases and trims a subject key.
func Normalize(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

// IsKnown reports whether subject names a catalogue entry.
func IsKnown(subject string) bool {
	_, ok := personalities[Normalize(subject)]
	return ok
}

// BySubject returns the tutor for subject, falling back to the math tutor.
func BySubject(subject string) Personality {
	if p, ok := personalities[Normalize(subject)]; ok {
		return p
	}
	return personalities[DefaultSubject]
}

// Topics returns a copy of the topic list for subject.
func Topics(subject string) []string {
	list, ok := topics[Normalize(subject)]
	if !ok {
		list = topics[DefaultSubject]
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// TopicOrDefault returns topic when set, otherwise the tutor's default topic.
func TopicOrDefault(subject, topic string) string {
	if strings.TrimSpace(topic) != "" {
		return topic
	}
	return BySubject(subject).DefaultTopic
}

// All lists every tutor in catalogue order.
func All() []Personality {
	out := make([]Personality, 0, len(subjectOrder))
	for _, key := range subjectOrder {
		out = append(out, personalities[key])
	}
	return out
}

// Subjects lists subject keys in catalogue order.
func Subjects() []string {
	out := make([]string, len(subjectOrder))
	copy(out, subjectOrder)
	return out
}
