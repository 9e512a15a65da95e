// Package resources lists study material for data structures and algorithms.
package resources

// Level groups topics from first steps to advanced material.
type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

// Topic is one learning resource.
type Topic struct {
	Name  string `json:"name"`
	Link  string `json:"link"`
	Level Level  `json:"level"`
}

var topics = []Topic{
	{"Basics of Programming", "https://www.youtube.com/playlist?list=PLfqMhTWNBTe0b2nM6JHVCnAkhQRGiZMSJ", Beginner},
	{"Arrays", "https://youtube.com/playlist?list=PLgUwDviBIf0rENwdL0nEH0uGom9no0nyB", Beginner},
	{"Strings", "https://youtube.com/playlist?list=PLPyD8bF-abzsMF6e44aiWzlTT2VrZwjLu", Beginner},
	{"Recursion & Backtracking", "https://youtube.com/playlist?list=PLgUwDviBIf0rGlzIn_7rsaR2FQ5e6ZOL9", Beginner},
	{"Linked List", "https://youtube.com/playlist?list=PLgUwDviBIf0rAuz8tVcM0AymmhTRsfaLU", Beginner},
	{"Stacks & Queues", "https://youtube.com/playlist?list=PLzjZaW71kMwRTtDWYVPvkJypUpKWbuT7_", Intermediate},
	{"Binary Trees", "https://youtube.com/playlist?list=PLzjZaW71kMwQ-JABTOTypnpRk1BnD2Nx4", Intermediate},
	{"Binary Search Trees", "https://youtube.com/playlist?list=PLzjZaW71kMwQ-JABTOTypnpRk1BnD2Nx4", Intermediate},
	{"Heaps & Priority Queue", "https://youtube.com/playlist?list=PLzjZaW71kMwTF8ZcUwm9md_3MvtOfwGow", Intermediate},
	{"Hashing & HashMaps", "https://youtube.com/playlist?list=PLzjZaW71kMwQ-D3oxCEDHAvYu8VC1XOsS", Intermediate},
	{"Graphs (BFS, DFS, Shortest Path, MST)", "https://youtube.com/playlist?list=PLgUwDviBIf0oE3gA41TKO2H5bHpPd7fzn", Intermediate},
	{"Dynamic Programming", "https://youtube.com/playlist?list=PLgUwDviBIf0qUlt5H_kiKYaNSqJ81PMMY", Intermediate},
	{"Greedy Algorithms", "https://youtube.com/playlist?list=PLgUwDviBIf0rF1w2Koyh78zafB0cz7tea", Intermediate},
	{"Segment Trees & Fenwick Trees", "https://youtube.com/playlist?list=PLEL7R4Pm6EmA1wAlmJs1LwPmSWmRnsA3H", Advanced},
	{"Advanced Graphs & Flows", "https://youtube.com/playlist?list=PLgUwDviBIf0oE3gA41TKO2H5bHpPd7fzn", Advanced},
	{"Number Theory", "https://youtube.com/playlist?list=PLauivoElc3giVROwL-6g9hO-LlSen_NaV", Advanced},
	{"Bit Manipulation", "https://youtube.com/playlist?list=PL-Jc9J83PIiFJRioti3ZV7QabwoJK6eKe", Advanced},
	{"Tries", "https://youtube.com/playlist?list=PLgUwDviBIf0pcIDCZnxhv0LkHf5KzG9zp", Advanced},
	{"Disjoint Set Union (DSU)", "https://youtu.be/zEAmQqOpfzM", Advanced},
}

// All returns a copy of the topic list, beginner first.
func All() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// ByLevel returns the topics of one level in list order.
func ByLevel(level Level) []Topic {
	out := make([]Topic, 0)
	for _, t := range topics {
		if t.Level == level {
			out = append(out, t)
		}
	}
	return out
}
