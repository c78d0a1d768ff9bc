// Package content holds the static marketing copy served to the site.
package content

import (
	"errors"
	"strings"
)

var ErrPageNotFound = errors.New("page not found")

type Section struct {
	Heading    string   `json:"heading"`
	Paragraphs []string `json:"paragraphs"`
}

type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type Page struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Sections []Section `json:"sections"`
	Actions  []Link    `json:"actions,omitempty"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type TeamMember struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

type Post struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Sections []Section `json:"sections"`
}

var pageOrder = []string{"home", "about", "features", "pricing", "blog", "careers", "help"}

var pages = map[string]Page{
	"home": {
		Slug:     "home",
		Title:    "Because Every Student Learns Differently.",
		Subtitle: "Tuitionly adapts to your unique learning style - memory type, pace, and preferences.",
		Sections: []Section{
			{
				Heading:    "How It Works",
				Paragraphs: []string{"Getting started with Tuitionly is simple. Follow these three easy steps to begin your personalized learning journey."},
			},
			{
				Heading:    "Everything You Need to Succeed",
				Paragraphs: []string{"Tuitionly is packed with powerful features designed to help you learn smarter, not harder."},
			},
		},
		Actions: []Link{
			{Label: "Try the Demo", Href: "/demo"},
			{Label: "Join the Waitlist", Href: "/waitlist"},
		},
	},
	"about": {
		Slug:  "about",
		Title: "About Tutorly",
		Sections: []Section{
			{
				Paragraphs: []string{"Tutorly is an AI-powered tutoring platform for K-12 students. It personalizes learning by adapting to each student's pace, subject, and style. From live sessions to doubt-solving, Tutorly makes quality education simple, affordable, and accessible."},
			},
			{
				Heading:    "Our Mission",
				Paragraphs: []string{"Tutorly was created by Manas Khobrekar as a solution to provide a personal tutor without the heavy financial burden of a real tutor. It's available 24/7, understands student psychology, learning patterns, and memory type."},
			},
			{
				Heading:    "Our Vision",
				Paragraphs: []string{"Through quiz-based milestone learning, we help students achieve their career goals, whether it be boards or to crack IIT JEE, with a dashboard to help the student better align and improve themselves."},
			},
			{
				Heading: "About the Founder",
				Paragraphs: []string{
					"I'm a Tech Enthusiast from India. I am passionate about Virtual Reality (AR/XR/Spatial Computing included) and AI.",
					"Art, in all its forms, resonates deeply with me. I believe that art and technology are intertwined, each enhancing the other.",
				},
			},
		},
	},
	"features": {
		Slug:     "features",
		Title:    "Features",
		Subtitle: "Tuitionly is building a comprehensive platform to help students achieve their academic goals.",
		Sections: []Section{
			{
				Heading:    "Live Tutoring Sessions",
				Paragraphs: []string{"Engage in one-on-one sessions with our AI tutors. Get personalized guidance, ask questions, and work through problems on a shared whiteboard."},
			},
			{
				Heading:    "Interactive Chat",
				Paragraphs: []string{"Our AI tutors are available 24/7 to help you with your homework, explain concepts, and provide instant feedback."},
			},
		},
		Actions: []Link{{Label: "Try the Demo", Href: "/demo"}},
	},
	"pricing": {
		Slug:     "pricing",
		Title:    "Pricing",
		Subtitle: "Our pricing is currently being finalized. We will offer a range of plans to suit different needs.",
		Sections: []Section{
			{Heading: "Coming Soon", Paragraphs: []string{"Detailed pricing information will be available shortly."}},
		},
		Actions: []Link{{Label: "Join the Waitlist", Href: "/waitlist"}},
	},
	"blog": {
		Slug:  "blog",
		Title: "Blog",
	},
	"careers": {
		Slug:     "careers",
		Title:    "Join Our Team",
		Subtitle: "We're looking for passionate individuals to help us revolutionize education.",
		Sections: []Section{
			{Heading: "Open Positions", Paragraphs: []string{"We are not currently hiring for any open positions. Please check back later for updates."}},
		},
	},
	"help": {
		Slug:     "help",
		Title:    "Help Center",
		Subtitle: "How can we help you?",
	},
}

var faqs = []FAQ{
	{
		Question: "What is Tuitionly?",
		Answer:   "Tutorly is an AI-powered tutoring platform for K-12 students. It personalizes learning by adapting to each student's pace, subject, and style.",
	},
	{
		Question: "How do I get started?",
		Answer:   "You can start by trying our demo or joining the waitlist to get early access.",
	},
	{
		Question: "How much does it cost?",
		Answer:   "We offer a range of pricing plans to suit your needs. Please see our pricing page for more details.",
	},
}

var posts = []Post{
	{
		Slug:    "revolutionizing-indian-edtech",
		Title:   "Revolutionizing the Indian EdTech Space",
		Summary: "How Tutorly is personalizing education for every student.",
		Sections: []Section{
			{
				Paragraphs: []string{
					"The Indian education landscape is undergoing a seismic shift. For decades, the one-size-fits-all approach has been the norm, leaving countless students struggling to keep up.",
					"Our platform is built on the core principle that education should adapt to the student, not the other way around.",
				},
			},
			{
				Heading:    "Understanding the Unique Learner",
				Paragraphs: []string{"Students have different memory types, learning paces, and preferences. Some are visual learners, others auditory, and still others learn best by doing."},
			},
			{
				Heading:    "The Power of Personalized Learning",
				Paragraphs: []string{"Personalized learning is about creating a dynamic and adaptive learning environment that grows with the student."},
			},
		},
	},
}

var team = []TeamMember{
	{Name: "John Doe", Title: "CEO & Co-Founder"},
	{Name: "Jane Smith", Title: "CTO & Co-Founder"},
	{Name: "Peter Jones", Title: "Lead Developer"},
}

// Pages lists every page in navigation order.
func Pages() []Page {
	out := make([]Page, 0, len(pageOrder))
	for _, slug := range pageOrder {
		out = append(out, pages[slug])
	}
	return out
}

// Lookup returns the page for slug. Slugs are case-insensitive.
func Lookup(slug string) (Page, error) {
	p, ok := pages[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Page{}, ErrPageNotFound
	}
	return p, nil
}

func FAQs() []FAQ {
	return append([]FAQ(nil), faqs...)
}

func Posts() []Post {
	return append([]Post(nil), posts...)
}

// PostBySlug finds a blog post.
func PostBySlug(slug string) (Post, error) {
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrPageNotFound
}

func Team() []TeamMember {
	return append([]TeamMember(nil), team...)
}
