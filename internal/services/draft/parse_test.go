package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDraft(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		subject string
		body    string
		wantErr bool
	}{
		{"body marker on next line", "Subject: Hello\nBody:\nHi there", "Hello", "Hi there", false},
		{"body marker inline", "Subject: Hello\nBody: Hi there", "Hello", "Hi there", false},
		{"leading chatter", "Sure! Here it is.\nSubject: Hello\nBody: Hi", "Hello", "Hi", false},
		{"crlf", "Subject: Hello\r\nBody:\r\nHi\r\nBye", "Hello", "Hi\r\nBye", false},
		{"no body marker", "Subject: Hello\nHi there\nBye", "Hello", "Hi there\nBye", false},
		{"no subject marker", "Hello\nBody: Hi", "", "", true},
		{"single line", "Subject: Hello", "", "", true},
		{"empty subject", "Subject: \nBody: Hi", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body, err := ParseDraft(tt.text)
			if tt.wantErr {
				assert.True(t, IsType(err, ErrTypeMalformedOutput), "got %v", err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.subject, subject)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestRestorePunctuation(t *testing.T) {
	assert.Equal(t, "Thank you...", restorePunctuation("Thanks...", "Thank you!!"))
	assert.Equal(t, "Is it done?", restorePunctuation("Is it ready?", "Is it done."))
	assert.Equal(t, "Plain", restorePunctuation("plain", "Plain."))
	assert.Equal(t, "?!_", trailingPunctuation("what?!_"))
	assert.Equal(t, "Grüße!", restorePunctuation("Hallo!", "Grüße"))
}
