package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	nats "github.com/nats-io/nats.go"

	"github.com/ABDUL-REHMAN392/moviebackend/internal/tokenverify"
)

// VerifyHandler answers access-token verification requests from sibling
// services over a NATS queue group.
type VerifyHandler struct {
	auth      tokenverify.Authenticator
	respondFn func(msg *nats.Msg, resp verifyResponse)
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	OK     bool   `json:"ok"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Error  string `json:"error,omitempty"`
}

func NewVerifyHandler(auth tokenverify.Authenticator) *VerifyHandler {
	return &VerifyHandler{auth: auth, respondFn: respond}
}

func (h *VerifyHandler) Subscribe(conn *nats.Conn, subject, queue string) error {
	if conn == nil {
		return errors.New("nats connection is nil")
	}
	_, err := conn.QueueSubscribe(subject, queue, h.handle)
	return err
}

func (h *VerifyHandler) handle(msg *nats.Msg) {
	var req verifyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		h.respondFn(msg, verifyResponse{OK: false, Error: "invalid_payload"})
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	identity, err := tokenverify.Verify(ctx, h.auth, msg.Reply, req.Token)
	if err != nil {
		h.respondFn(msg, verifyResponse{OK: false, Error: tokenverify.Code(err)})
		return
	}
	h.respondFn(msg, verifyResponse{OK: true, UserID: identity.ID, Email: identity.Email, Name: identity.Name})
}

func respond(msg *nats.Msg, resp verifyResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = msg.Respond(data)
}
