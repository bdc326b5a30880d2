package natsadapter

import (
	"encoding/json"
	"time"

	nats "github.com/nats-io/nats.go"
)

// EventPublisher announces account lifecycle changes to interested services.
// Publishing is fire-and-forget: a broker outage must never block the auth
// path.
type EventPublisher interface {
	AccountCreated(accountID, email string)
	AccountDeleted(accountID, email string)
}

type accountEvent struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	At        time.Time `json:"at"`
}

type eventPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewEventPublisher(conn *nats.Conn, prefix string) EventPublisher {
	return &eventPublisher{conn: conn, prefix: prefix}
}

func (p *eventPublisher) AccountCreated(accountID, email string) {
	p.publish(p.prefix+".created", accountID, email)
}

func (p *eventPublisher) AccountDeleted(accountID, email string) {
	p.publish(p.prefix+".deleted", accountID, email)
}

func (p *eventPublisher) publish(subject, accountID, email string) {
	if p.conn == nil {
		return
	}
	data, err := json.Marshal(accountEvent{AccountID: accountID, Email: email, At: time.Now().UTC()})
	if err != nil {
		return
	}
	_ = p.conn.Publish(subject, data)
}
