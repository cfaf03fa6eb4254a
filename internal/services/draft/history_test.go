package draft

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/services/ai"
	"github.com/iyunix/go-easyemail/internal/testutil"
)

func TestReplayBoundAndOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	first := h.generate(t)

	for i := 1; i <= 3; i++ {
		h.gateway.reply = fmt.Sprintf("Subject: Draft %d\nBody: Version %d", i, i)
		_, err := h.engine.ModifyEmail(ctx, ModifyRequest{
			Requester:   h.user.ID,
			ChatID:      first.ChatID,
			Contacts:    toBucket(ContactRef{Email: "a@x.com"}),
			Instruction: fmt.Sprintf("Revision %d", i),
			Length:      "short",
		})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(8), h.countTurns(t, first.ChatID))

	history, hasDraft, err := h.store.Replay(ctx, first.ChatID, h.user.ID, 5)
	require.NoError(t, err)
	assert.True(t, hasDraft)
	require.Len(t, history, 5)

	roles := make([]string, len(history))
	for i, m := range history {
		roles[i] = m.Role
	}
	assert.Equal(t, []string{ai.RoleAssistant, ai.RoleUser, ai.RoleAssistant, ai.RoleUser, ai.RoleAssistant}, roles)
	assert.Equal(t, "Subject: Draft 1\nBody: Version 1\n", history[0].Content)
	assert.Contains(t, history[1].Content, "Instruction: Revision 2")
	assert.Equal(t, "Subject: Draft 3\nBody: Version 3\n", history[4].Content)
}

func TestReplayFailsClosedOnCorruptTurn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	first := h.generate(t)

	require.NoError(t, h.db.Create(&domain.Message{
		ChatID: first.ChatID, UserID: h.user.ID, ChatType: domain.ChatTypeAssistant, Data: "not-a-ciphertext",
	}).Error)

	history, _, err := h.store.Replay(ctx, first.ChatID, h.user.ID, 5)
	assert.Nil(t, history)
	assert.True(t, IsType(err, ErrTypeDataIntegrity), "got %v", err)

	cipher := testutil.GetTestCipher(t)
	sealed, err := cipher.Encrypt([]byte(`{"subject": 12}`))
	require.NoError(t, err)
	bad := domain.Message{ID: 99, ChatID: first.ChatID, ChatType: domain.ChatTypeAssistant, Data: sealed}
	_, err = h.store.Open(bad)
	assert.True(t, IsType(err, ErrTypeDataIntegrity), "got %v", err)
}

func TestSealOpenRoundTrip(t *testing.T) {
	h := newHarness(t)
	id := uint(7)

	original := UserTurn{
		Contacts: []RecipientBucket{
			{To: []ContactRef{{ID: &id}, {Email: "a@x.com", Name: testutil.StrPtr("Al"), PhoneCode: testutil.StrPtr("+1")}}},
			{Bcc: []ContactRef{{Email: "b@x.com"}}},
		},
		Instruction:  "Say hello",
		LanguageTone: "Warm",
		Length:       "extra_long",
	}

	sealed, err := h.store.Seal(domain.ChatTypeUser, original)
	require.NoError(t, err)
	assert.NotContains(t, sealed.Data, "Say hello")

	opened, err := h.store.Open(*sealed)
	require.NoError(t, err)
	assert.Equal(t, &original, opened.Data)

	reply := AssistantTurn{Subject: "Hello", Body: "Line one\nLine two"}
	sealed, err = h.store.Seal(domain.ChatTypeAssistant, reply)
	require.NoError(t, err)
	opened, err = h.store.Open(*sealed)
	require.NoError(t, err)
	assert.Equal(t, &reply, opened.Data)
}
