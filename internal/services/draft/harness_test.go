package draft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/repository/chat"
	"github.com/iyunix/go-easyemail/internal/repository/contact"
	"github.com/iyunix/go-easyemail/internal/repository/credential"
	"github.com/iyunix/go-easyemail/internal/repository/message"
	userrepo "github.com/iyunix/go-easyemail/internal/repository/user"
	"github.com/iyunix/go-easyemail/internal/services/ai"
	"github.com/iyunix/go-easyemail/internal/services/mail"
	"github.com/iyunix/go-easyemail/internal/testutil"
)

const meetingDraft = "Subject: Meeting Request\nBody:\nHi, can we meet?\n"

var fixedNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type stubGateway struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]ai.Message
}

func (s *stubGateway) Complete(_ context.Context, _ string, messages []ai.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, messages)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubGateway) lastCall() []ai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

type sentMail struct {
	Sender    string
	To        []string
	Cc        []string
	Bcc       []string
	Subject   string
	Body      string
	MessageID string
}

type stubMailer struct {
	mu      sync.Mutex
	err     error
	delay   time.Duration
	service string
	payload []byte
	sent    []sentMail
	replies []sentMail
}

func (m *stubMailer) ClientFor(_ context.Context, service string, payload []byte) (mail.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.service = service
	m.payload = payload
	return m, nil
}

func (m *stubMailer) SendEmail(_ context.Context, sender string, to []string, subject, body string, cc, bcc []string) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{Sender: sender, To: to, Cc: cc, Bcc: bcc, Subject: subject, Body: body})
	return nil
}

func (m *stubMailer) ReplyEmail(_ context.Context, sender, messageID, body, subject string, cc, bcc []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.replies = append(m.replies, sentMail{Sender: sender, MessageID: messageID, Body: body, Subject: subject, Cc: cc, Bcc: bcc})
	return nil
}

func (m *stubMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type harness struct {
	db          *gorm.DB
	user        *domain.User
	credential  *domain.Credential
	gateway     *stubGateway
	mailer      *stubMailer
	chats       chat.ChatRepository
	credentials credential.CredentialRepository
	store       *ConversationStore
	engine      *Engine
	sender      *SendGateway
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithGateway(t, &stubGateway{reply: meetingDraft})
}

func newHarnessWithGateway(t *testing.T, gateway ai.Completer) *harness {
	t.Helper()

	db := testutil.NewTestDB(t)
	cipher := testutil.GetTestCipher(t)
	owner := testutil.CreateUser(t, db, "ada@example.com")

	chats := chat.NewChatRepository(db)
	credentials := credential.NewCredentialRepository(db)
	resolver := NewContactResolver(contact.NewContactRepository(db))
	store := NewConversationStore(chats, message.NewMessageRepository(db), cipher, resolver)
	locks := NewThreadLocks()

	sealed, err := cipher.Encrypt([]byte(`{'token': 'abc', 'refresh_token': 'def'}`))
	require.NoError(t, err)
	cred := &domain.Credential{
		UserID:    owner.ID,
		Service:   domain.ServiceGoogle,
		Email:     "ada@gmail.com",
		FirstName: "Ada",
		LastName:  testutil.StrPtr("Lovelace"),
		Data:      sealed,
	}
	require.NoError(t, credentials.Create(context.Background(), cred))

	engine, err := NewEngine(nil, gateway, chats, store, resolver, credentials, userrepo.NewGormUserRepository(db), mail.TextExtractor{}, locks, nopLogger{})
	require.NoError(t, err)
	engine.SetClock(func() time.Time { return fixedNow })

	renderer, err := mail.NewRenderer(true)
	require.NoError(t, err)
	mailer := &stubMailer{}
	sender, err := NewSendGateway(chats, credentials, resolver, cipher, mailer, renderer, locks, nopLogger{})
	require.NoError(t, err)

	stub, _ := gateway.(*stubGateway)
	return &harness{
		db:          db,
		user:        owner,
		credential:  cred,
		gateway:     stub,
		mailer:      mailer,
		chats:       chats,
		credentials: credentials,
		store:       store,
		engine:      engine,
		sender:      sender,
	}
}

func toBucket(refs ...ContactRef) []RecipientBucket {
	return []RecipientBucket{{To: refs}}
}

func (h *harness) generate(t *testing.T) *DraftResult {
	t.Helper()
	result, err := h.engine.GenerateEmail(context.Background(), GenerateRequest{
		Requester:    h.user.ID,
		CredentialID: h.credential.ID,
		Contacts:     toBucket(ContactRef{Email: "a@x.com"}),
		Instruction:  "Ask for a meeting",
		LanguageTone: "Friendly",
		Length:       "short",
	})
	require.NoError(t, err)
	return result
}

func (h *harness) countTurns(t *testing.T, chatID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, h.db.Model(&domain.Message{}).Where("chat_id = ?", chatID).Count(&count).Error)
	return count
}

func (h *harness) countAll(t *testing.T) (chats, turns int64) {
	t.Helper()
	require.NoError(t, h.db.Model(&domain.Chat{}).Count(&chats).Error)
	require.NoError(t, h.db.Model(&domain.Message{}).Count(&turns).Error)
	return chats, turns
}
