package bot

import (
	"math/rand"
	"strings"
)

// Responder is the built-in WhatsEase assistant. It is stateless and
// never fails: every input maps to some reply, falling back to a
// generic one when no intent matches.
type Responder struct {
	name      string
	intents   []intent
	fallbacks []string
}

type intent struct {
	name     string
	keywords []string
	replies  []string
}

func NewResponder(name string) *Responder {
	r := &Responder{name: name}
	r.intents = []intent{
		{
			name:     "hi",
			keywords: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"},
			replies: []string{
				"Hello! How can I help you today?",
				"Hi there! Welcome to " + name + ". How may I assist you?",
				"Hey! Great to see you. What can I do for you?",
				"Good day! I'm here to help. What do you need?",
			},
		},
		{
			name:     "help",
			keywords: []string{"help", "support", "assist", "guide", "what can you do"},
			replies: []string{
				"I can answer your questions, chat with you, and help with various topics!",
				"I'm here to assist you with information, conversation, and general help.",
				"I can help with questions, provide information, or just chat with you!",
				"I'm your assistant. I can help with queries, chat, and more!",
			},
		},
		{
			name:     "bye",
			keywords: []string{"bye", "goodbye", "see you", "farewell", "take care"},
			replies: []string{
				"Goodbye! Have a great day!",
				"See you later! Take care!",
				"Farewell! It was nice chatting with you!",
				"Bye! Come back anytime!",
			},
		},
		{
			name:     "thanks",
			keywords: []string{"thank you", "thanks", "appreciate it", "grateful"},
			replies: []string{
				"You're welcome! Happy to help!",
				"No problem at all! Anytime!",
				"My pleasure! Let me know if you need anything else!",
				"Glad I could help! Feel free to ask more questions!",
			},
		},
		{
			name:     "weather",
			keywords: []string{"weather", "temperature", "forecast", "climate"},
			replies: []string{
				"I can't check real-time weather, but I can chat about weather in general!",
				"Weather forecasting isn't my specialty, but I'm happy to discuss weather topics!",
				"I don't have access to current weather data, but I can help with other questions!",
			},
		},
		{
			name:     "joke",
			keywords: []string{"joke", "funny", "humor", "laugh"},
			replies: []string{
				"Why don't scientists trust atoms? Because they make up everything!",
				"What do you call a fake noodle? An impasta!",
				"Why did the scarecrow win an award? He was outstanding in his field!",
			},
		},
		{
			name:     "time",
			keywords: []string{"time", "clock", "hour", "schedule"},
			replies: []string{
				"I can't tell you the exact time, but I can help you with time-related questions!",
				"I don't have access to real-time clocks, but I can discuss time concepts!",
			},
		},
		{
			name:     "name",
			keywords: []string{"what's your name", "who are you", "your name"},
			replies: []string{
				"I'm " + name + ", your assistant!",
				"My name is " + name + ". I'm here to help you!",
				"You can call me " + name + ". What do you need help with?",
			},
		},
		{
			name:     "capabilities",
			keywords: []string{"what can you do", "your features", "capabilities", "skills"},
			replies: []string{
				"I can chat, answer questions, provide information, and assist with various topics!",
				"My skills include conversation, information sharing, and general assistance!",
				"I can assist with questions, have conversations, and help with information!",
			},
		},
	}
	r.fallbacks = []string{
		"I'm not sure I understand that. Could you rephrase or ask something else?",
		"That's beyond my current capabilities. Can I help you with something else?",
		"I didn't quite catch that. Maybe try asking in a different way?",
		"I'm still learning and don't understand that yet. What else can I help you with?",
	}
	return r
}

// Respond produces a reply for the given message. Exact keyword
// matches win over substring matches; anything else falls back.
func (r *Responder) Respond(message string) string {
	text := strings.ToLower(strings.TrimSpace(message))

	for _, in := range r.intents {
		for _, keyword := range in.keywords {
			if text == keyword {
				return pick(in.replies)
			}
		}
	}

	for _, in := range r.intents {
		for _, keyword := range in.keywords {
			if strings.Contains(text, keyword) {
				return pick(in.replies)
			}
		}
	}

	return pick(r.fallbacks)
}

func pick(replies []string) string {
	return replies[rand.Intn(len(replies))]
}
