package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// journalSize caps the in-memory record of recent messages
const journalSize = 100

// Message is one recorded outbound SMS
type Message struct {
	To     string
	Body   string
	SentAt time.Time
}

// SMSService is the outbound SMS stub. It journals messages and logs them
// instead of calling a real provider; delivery is fire-and-forget either
// way, so swapping in a provider client later only changes send.
type SMSService struct {
	senderID string
	enabled  bool
	logger   *zap.Logger

	mu      sync.Mutex
	journal []Message
}

// NewSMSService creates the SMS stub
func NewSMSService(senderID string, enabled bool, logger *zap.Logger) *SMSService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMSService{senderID: senderID, enabled: enabled, logger: logger}
}

// SendSMS records and logs one message. It never blocks on delivery.
func (s *SMSService) SendSMS(ctx context.Context, mobile, message string) error {
	if !s.enabled {
		return nil
	}

	s.mu.Lock()
	s.journal = append(s.journal, Message{To: mobile, Body: message, SentAt: time.Now()})
	if len(s.journal) > journalSize {
		s.journal = s.journal[len(s.journal)-journalSize:]
	}
	s.mu.Unlock()

	s.logger.Info("sms sent",
		zap.String("sender_id", s.senderID),
		zap.String("to", mobile),
		zap.Int("length", len(message)))
	return nil
}

// Journal returns a copy of the recent messages, oldest first
func (s *SMSService) Journal() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.journal))
	copy(out, s.journal)
	return out
}
