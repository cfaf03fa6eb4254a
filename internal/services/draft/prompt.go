// File: internal/services/draft/prompt.go
package draft

import (
	"fmt"
	"strings"
	"time"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/services/ai"
)

const dateLayout = "Monday, 02 January 2006"

const draftSystemPrompt = `You are an email generator AI. Your task is to generate an email based on the provided sender, recipient details, instruction, tone, and length. Output only the email content without any explanations or meta-comments.

Output format:
Subject: [subject]
Body: [body]

Ensure:
- The email is concise and follows the given instruction.
- No placeholders (e.g., "[your name]") are included.
- If the user requests edits, apply only the specified changes without altering the rest of the email.

Today's date is %s.`

const paraphraseSystemPrompt = `You are a simple paraphraser. Rephrase the input text while keeping its meaning intact and short. Your response should be concise and directly related to the original input. Do not add unrelated content, instructions, or prompts. Avoid including anything such as "here is the rephrased text" or placeholders like [your name].`

const replySystemPrompt = `You are an email generator. Based on the provided details, generate a concise and relevant draft reply. Ensure the reply aligns with the original email's tone and context. Include appropriate greetings (e.g., "Dear," "Hello") and a closing signature (e.g., "Best regards," "Sincerely") based on the tone. Do not include introductory phrases, placeholders (e.g., "[your name]"), unrelated content, or a subject line. Focus solely on generating the reply content. Today's date is %s.`

const modifyPreamble = "Revise the previous email according to the new instruction. Keep everything that the instruction does not mention unchanged."

func draftSystemMessage(now time.Time) ai.Message {
	return ai.Message{Role: ai.RoleSystem, Content: fmt.Sprintf(draftSystemPrompt, now.Format(dateLayout))}
}

// draftPrompt holds everything the user-turn prompt is built from.
type draftPrompt struct {
	credential   *domain.Credential
	user         *domain.User
	recipients   Recipients
	instruction  string
	languageTone string
	guidance     string
	modify       bool
}

func (p draftPrompt) render() string {
	lines := []string{}
	if p.modify {
		lines = append(lines, modifyPreamble, "")
	}
	lines = append(lines, "Sender Details:", FormatSender(p.credential, p.user))
	lines = append(lines, "Recipient(s) Details:")
	lines = append(lines, formatRecipients(p.recipients)...)
	lines = append(lines, "Email Details:")

	instructionLabel := "Instruction"
	if p.modify {
		instructionLabel = "New Instruction"
	}
	lines = append(lines,
		fmt.Sprintf("%s: %s", instructionLabel, p.instruction),
		fmt.Sprintf("Language Tone: %s", p.languageTone),
		fmt.Sprintf("Email Length: %s", p.guidance),
	)
	return strings.Join(lines, "\n")
}

// renderUserHistory renders a stored user turn for replay.
func renderUserHistory(recipients Recipients, turn UserTurn) string {
	guidance, _ := LengthGuidance(turn.Length)

	lines := formatRecipients(recipients)
	lines = append(lines,
		"Instruction: "+turn.Instruction,
		"Language Tone: "+turn.LanguageTone,
		"Length: "+guidance,
	)
	return strings.Join(lines, "\n") + "\n"
}

// renderAssistantHistory renders a stored assistant turn for replay.
func renderAssistantHistory(turn AssistantTurn) string {
	return fmt.Sprintf("Subject: %s\nBody: %s\n", turn.Subject, turn.Body)
}

func paraphraseMessages(text string) []ai.Message {
	return []ai.Message{
		{Role: ai.RoleSystem, Content: paraphraseSystemPrompt},
		{Role: ai.RoleUser, Content: text},
	}
}

func replyMessages(now time.Time, credential *domain.Credential, subject, body, sender, instruction string) []ai.Message {
	original := fmt.Sprintf("Subject: %s\nBody: %s", subject, body)
	details := fmt.Sprintf("My Details:\nFull Name: %s\nEmail: %s\n\nRecipient(s) Details:\n%s\n\nInstruction:\n%s",
		credential.FullName(), credential.Email, sender, instruction)

	return []ai.Message{
		{Role: ai.RoleSystem, Content: fmt.Sprintf(replySystemPrompt, now.Format(dateLayout))},
		{Role: ai.RoleUser, Content: original},
		{Role: ai.RoleUser, Content: details},
	}
}
