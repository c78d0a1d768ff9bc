package tutor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBySubject(t *testing.T) {
	tests := []struct {
		subject  string
		wantName string
	}{
		{"math", "Math Tutorly"},
		{"Science", "Science Tutorly"},
		{"  coding ", "Code Tutorly"},
		{"social science", "Social Science Tutorly"},
		{"astrology", "Math Tutorly"},
		{"", "Math Tutorly"},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.wantName, BySubject(tt.subject).Name)
		})
	}
}

func TestTopicsReturnsCopy(t *testing.T) {
	list := Topics("history")
	assert.Equal(t, "World War II and Its Global Impact", list[0])

	list[0] = "mutated"
	assert.Equal(t, "World War II and Its Global Impact", Topics("history")[0])
}

func TestTopicOrDefault(t *testing.T) {
	assert.Equal(t, "Supply and Demand", TopicOrDefault("economics", ""))
	assert.Equal(t, "Supply and Demand", TopicOrDefault("economics", "   "))
	assert.Equal(t, "International Trade", TopicOrDefault("economics", "International Trade"))
}

func TestAllIsOrdered(t *testing.T) {
	all := All()
	assert.Len(t, all, len(Subjects()))
	for i, key := range Subjects() {
		assert.Equal(t, key, all[i].Key)
	}
}

func TestDirectory(t *testing.T) {
	d := NewDirectory(map[string]string{"Science": "custom-science", "math": ""})

	assert.Equal(t, "custom-science", d.Selector("science"))
	assert.Equal(t, defaultAssistants["math"], d.Selector("math"))
	assert.Equal(t, defaultAssistants["math"], d.Selector("unknown"))

	subject, ok := d.SubjectFor("custom-science")
	assert.True(t, ok)
	assert.Equal(t, "science", subject)

	_, ok = d.SubjectFor(defaultAssistants["science"])
	assert.False(t, ok)
}
